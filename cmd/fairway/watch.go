package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/quietfield/fairway/internal/gameapi"
	"github.com/quietfield/fairway/internal/gamekeeper"
	"github.com/quietfield/fairway/internal/util/backoff"
	"github.com/quietfield/fairway/internal/util/style"
)

func fetchState(ctx context.Context, c gameapi.API, gameID string) (*gameapi.GameStateResponse, int, error) {
	var (
		st *gameapi.GameStateResponse
		ph *gameapi.ListPhotosResponse
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		st, err = c.GameState(gctx, &gameapi.GameStateRequest{GameID: gameID})
		return err
	})
	group.Go(func() error {
		var err error
		ph, err = c.ListPhotos(gctx, &gameapi.ListPhotosRequest{GameID: gameID})
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, 0, err
	}
	return st, len(ph.Photos), nil
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Args:  cobra.ExactArgs(0),
	Short: "Print the current game state once",
}

func init() {
	game := stateCmd.Flags().StringP(
		"game", "g", "",
		"game id")
	if err := stateCmd.MarkFlagRequired("game"); err != nil {
		panic(err)
	}

	stateCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		st, photos, err := fetchState(cmd.Context(), newClient(), *game)
		if err != nil {
			return err
		}
		out := bufio.NewWriter(stdout)
		renderState(out, st, photos)
		return out.Flush()
	}
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Args:  cobra.ExactArgs(0),
	Short: "Watch a game, re-rendering the leaderboard as scores come in",
}

func init() {
	p := watchCmd.Flags()
	game := p.StringP(
		"game", "g", "",
		"game id")
	interval := p.DurationP(
		"interval", "i", 3*time.Second,
		"poll interval")
	if err := watchCmd.MarkFlagRequired("game"); err != nil {
		panic(err)
	}

	watchCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		if *interval <= 0 {
			return fmt.Errorf("non-positive interval")
		}
		c := newClient()
		boff, err := backoff.New(backoff.Options{
			Min: *interval,
			Max: time.Minute,
		})
		if err != nil {
			return fmt.Errorf("create backoff: %w", err)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		out := bufio.NewWriter(stdout)
		fancy := style.IsStdoutTTY()
		prevLines := 0
		ticker := time.NewTicker(*interval)
		defer ticker.Stop()

		for {
			st, photos, err := fetchState(ctx, c, *game)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				if gameapi.MatchesError(err, gameapi.ErrGameNotFound) {
					return err
				}
				fmt.Fprintf(stderr, "%v %v\n", style.WithSE("warning:", 33, 1), err)
				if err := boff.Retry(ctx, err); err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
				continue
			}
			boff.Reset()

			if fancy {
				eraseLines(out, prevLines)
			}
			renderState(out, st, photos)
			prevLines = 4 + len(st.Leaderboard)
			if err := out.Flush(); err != nil {
				return fmt.Errorf("flush: %w", err)
			}

			if st.Game.Status == gamekeeper.StatusCompleted {
				return nil
			}

			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	}
}
