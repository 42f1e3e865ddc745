package main

import (
	"github.com/quietfield/fairway/internal/database"
	"github.com/quietfield/fairway/internal/gameapi"
	"github.com/quietfield/fairway/internal/gamekeeper"
)

type HTTPSOptions struct {
	AllowedSecureDomains []string `toml:"allowed-secure-domains"`
	CachePath            string   `toml:"cache-path"`
	ExposeInsecure       bool     `toml:"expose-insecure"`
}

type Options struct {
	Addr       string                `toml:"addr"`
	SecureAddr string                `toml:"secure-addr"`
	HTTPS      *HTTPSOptions         `toml:"https"`
	DB         database.Options      `toml:"db"`
	Games      gamekeeper.Options    `toml:"games"`
	API        gameapi.ServerOptions `toml:"api"`
}

func (o *Options) FillDefaults() {
	if o.Addr == "" {
		o.Addr = "127.0.0.1:8080"
	}
	if o.SecureAddr == "" {
		o.SecureAddr = ":443"
	}
	if o.DB.Path == "" {
		o.DB.Path = "fairway.db"
	}
	o.Games.FillDefaults()
	o.API.FillDefaults()
}
