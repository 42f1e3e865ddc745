package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/quietfield/fairway/internal/database"
	"github.com/quietfield/fairway/internal/gameapi"
	"github.com/quietfield/fairway/internal/gamekeeper"
	"github.com/quietfield/fairway/internal/version"
)

var serverCmd = &cobra.Command{
	Use:     "fairway-server",
	Args:    cobra.ExactArgs(0),
	Version: version.Version,
	Short:   "Disc golf scorekeeping server",
	Long: `fairway-server hosts shared disc golf scorecards. Players create a game,
share its join code, and record strokes hole by hole from their phones. The
server keeps the scores, drives the game through its rounds and cleans up
games that were abandoned mid-round.`,
}

func main() {
	p := serverCmd.Flags()
	optionsPath := p.StringP(
		"options", "o", "",
		"options file (in TOML format)")

	serverCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		var o Options
		if *optionsPath != "" {
			data, err := os.ReadFile(*optionsPath)
			if err != nil {
				return fmt.Errorf("read options: %w", err)
			}
			if err := toml.Unmarshal(data, &o); err != nil {
				return fmt.Errorf("unmarshal options: %w", err)
			}
		}
		o.FillDefaults()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{}))

		db, err := database.New(log, o.DB)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		keeper := gamekeeper.New(log, db, o.Games)
		defer keeper.Close()

		mux := http.NewServeMux()
		gameapi.RegisterServer(gameapi.NewServer(keeper, o.API), mux, "/api", log)

		servs, err := newServers(ctx, log, &o, mux)
		if err != nil {
			return fmt.Errorf("create servers: %w", err)
		}
		servs.Go()
		defer servs.Shutdown()

		<-ctx.Done()
		log.Info("received signal, exiting")
		return nil
	}

	if err := serverCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal error:", err)
		os.Exit(1)
	}
}
