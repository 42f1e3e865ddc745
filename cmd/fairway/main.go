package main

import (
	"net/http"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/quietfield/fairway/internal/gameapi"
	"github.com/quietfield/fairway/internal/util/style"
	"github.com/quietfield/fairway/internal/version"
)

var (
	stdout = colorable.NewColorableStdout()
	stderr = colorable.NewColorableStderr()
)

var rootCmd = &cobra.Command{
	Version: version.Version,
	Use:     "fairway",
	Short:   "Terminal client for shared disc golf scorecards",
	Long: `fairway talks to a fairway-server instance. Create a game, hand the join
code to your group, record strokes as you walk the course and watch the
leaderboard update live.
`,
}

var (
	gEndpoint string
	gPlayer   string
)

func newClient() gameapi.API {
	return gameapi.NewClient(gameapi.ClientOptions{
		Endpoint: gEndpoint,
		PlayerID: gPlayer,
	}, &http.Client{Timeout: 30 * time.Second})
}

func main() {
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetErrPrefix(style.WithSE("error:", 31, 1))

	p := rootCmd.PersistentFlags()
	p.StringVarP(
		&gEndpoint, "endpoint", "e", "http://localhost:8080/api",
		"game server api endpoint")
	p.StringVarP(
		&gPlayer, "player", "p", "",
		"acting player id\n(required for host-only commands)")

	rootCmd.AddCommand(
		createCmd, joinCmd, addPlayerCmd, startCmd, scoreCmd,
		nextCmd, cancelCmd, stateCmd, watchCmd, cleanupCmd, courseCmd,
	)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
