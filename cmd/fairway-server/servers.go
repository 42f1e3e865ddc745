package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/acme/autocert"

	"github.com/quietfield/fairway/internal/util/slogx"
)

type serverEntry struct {
	name string
	srv  *http.Server
	tls  bool
}

type servers struct {
	entries []serverEntry
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  func()
	log     *slog.Logger
}

func newServers(parentCtx context.Context, log *slog.Logger, o *Options, mux *http.ServeMux) (*servers, error) {
	ctx, cancel := context.WithCancel(parentCtx)
	s := &servers{
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
	baseCtx := func(net.Listener) context.Context { return ctx }

	if o.HTTPS == nil || o.HTTPS.ExposeInsecure {
		s.entries = append(s.entries, serverEntry{
			name: "insecure",
			srv: &http.Server{
				Addr:              o.Addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext:       baseCtx,
			},
		})
	}
	if o.HTTPS != nil {
		if o.HTTPS.CachePath == "" {
			cancel()
			return nil, fmt.Errorf("certificate cache path not specified")
		}
		m := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(o.HTTPS.AllowedSecureDomains...),
			Cache:      autocert.DirCache(o.HTTPS.CachePath),
		}
		s.entries = append(s.entries, serverEntry{
			name: "secure",
			tls:  true,
			srv: &http.Server{
				Addr:              o.SecureAddr,
				TLSConfig:         m.TLSConfig(),
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext:       baseCtx,
			},
		})
	}
	return s, nil
}

func (s *servers) Go() {
	for _, e := range s.entries {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			log := s.log.With(slog.String("name", e.name))
			log.Info("starting http server", slog.String("addr", e.srv.Addr))
			var err error
			if e.tls {
				err = e.srv.ListenAndServeTLS("", "")
			} else {
				err = e.srv.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				select {
				case <-s.ctx.Done():
				default:
					log.Error("listen http server failed", slogx.Err(err))
				}
			}
		}()
	}
}

func (s *servers) Shutdown() {
	for _, e := range s.entries {
		log := s.log.With(slog.String("name", e.name))
		log.Info("stopping http server")
		if err := e.srv.Shutdown(context.Background()); err != nil {
			log.Warn("could not shut down server", slogx.Err(err))
		}
	}
	s.cancel()
	s.wg.Wait()
}
