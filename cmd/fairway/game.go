package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quietfield/fairway/internal/gameapi"
	"github.com/quietfield/fairway/internal/gamekeeper"
	"github.com/quietfield/fairway/internal/util/style"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Args:  cobra.ExactArgs(0),
	Short: "Create a new game and print its join code",
}

func init() {
	p := createCmd.Flags()
	name := p.StringP(
		"name", "n", "",
		"host player name")
	course := p.StringP(
		"course", "c", string(gamekeeper.CourseFull18),
		"course layout (\"front9\", \"back9\" or \"full18\")")
	title := p.StringP(
		"title", "t", "",
		"game title (generated when empty)")
	if err := createCmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}

	createCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		rsp, err := newClient().CreateGame(cmd.Context(), &gameapi.CreateGameRequest{
			HostName:   *name,
			CourseType: gamekeeper.CourseType(*course),
			Title:      *title,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "created game %q\n", rsp.Game.Title)
		fmt.Fprintf(stdout, "game id:   %v\n", rsp.Game.ID)
		fmt.Fprintf(stdout, "join code: %v\n", style.WithS(rsp.Game.Code, 1, 36))
		fmt.Fprintf(stdout, "player id: %v\n", rsp.Player.ID)
		return nil
	}
}

var joinCmd = &cobra.Command{
	Use:   "join",
	Args:  cobra.ExactArgs(0),
	Short: "Join a game by its code",
}

func init() {
	p := joinCmd.Flags()
	code := p.StringP(
		"code", "c", "",
		"join code shared by the host")
	name := p.StringP(
		"name", "n", "",
		"your player name")
	for _, f := range []string{"code", "name"} {
		if err := joinCmd.MarkFlagRequired(f); err != nil {
			panic(err)
		}
	}

	joinCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		rsp, err := newClient().JoinGame(cmd.Context(), &gameapi.JoinGameRequest{
			Code: *code,
			Name: *name,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "joined game %q\n", rsp.Game.Title)
		fmt.Fprintf(stdout, "game id:   %v\n", rsp.Game.ID)
		fmt.Fprintf(stdout, "player id: %v\n", rsp.Player.ID)
		return nil
	}
}

var addPlayerCmd = &cobra.Command{
	Use:   "add-player",
	Args:  cobra.ExactArgs(0),
	Short: "Add a local player to a waiting game (host only)",
}

func init() {
	p := addPlayerCmd.Flags()
	game := p.StringP(
		"game", "g", "",
		"game id")
	name := p.StringP(
		"name", "n", "",
		"player name")
	for _, f := range []string{"game", "name"} {
		if err := addPlayerCmd.MarkFlagRequired(f); err != nil {
			panic(err)
		}
	}

	addPlayerCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		rsp, err := newClient().AddPlayer(cmd.Context(), &gameapi.AddPlayerRequest{
			GameID: *game,
			Name:   *name,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "added player %v (id %v)\n", rsp.Player.Name, rsp.Player.ID)
		return nil
	}
}

var startCmd = &cobra.Command{
	Use:   "start",
	Args:  cobra.ExactArgs(0),
	Short: "Start a waiting game (host only)",
}

func init() {
	game := startCmd.Flags().StringP(
		"game", "g", "",
		"game id")
	if err := startCmd.MarkFlagRequired("game"); err != nil {
		panic(err)
	}

	startCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		_, err := newClient().StartGame(cmd.Context(), &gameapi.StartGameRequest{GameID: *game})
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, "game started, good luck out there")
		return nil
	}
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Args:  cobra.ExactArgs(0),
	Short: "Record strokes for a player on a hole",
}

func init() {
	p := scoreCmd.Flags()
	game := p.StringP(
		"game", "g", "",
		"game id")
	forPlayer := p.StringP(
		"for", "f", "",
		"player to score (defaults to the acting player)")
	hole := p.IntP(
		"hole", "H", 0,
		"hole number (defaults to the current hole)")
	strokes := p.IntP(
		"strokes", "s", 0,
		"stroke count")
	for _, f := range []string{"game", "strokes"} {
		if err := scoreCmd.MarkFlagRequired(f); err != nil {
			panic(err)
		}
	}

	scoreCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		c := newClient()
		player := *forPlayer
		if player == "" {
			player = gPlayer
		}
		if player == "" {
			return fmt.Errorf("no player to score (use --for or --player)")
		}
		h := *hole
		if h == 0 {
			st, err := c.GameState(cmd.Context(), &gameapi.GameStateRequest{GameID: *game})
			if err != nil {
				return fmt.Errorf("fetch current hole: %w", err)
			}
			h = st.Game.CurrentHole
		}
		rsp, err := c.EnterScore(cmd.Context(), &gameapi.EnterScoreRequest{
			GameID:   *game,
			PlayerID: player,
			Hole:     h,
			Strokes:  *strokes,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "hole %v: %v strokes recorded\n", rsp.Score.Hole, rsp.Score.Strokes)
		return nil
	}
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Args:  cobra.ExactArgs(0),
	Short: "Advance the game to the next hole (host only)",
}

func init() {
	game := nextCmd.Flags().StringP(
		"game", "g", "",
		"game id")
	if err := nextCmd.MarkFlagRequired("game"); err != nil {
		panic(err)
	}

	nextCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		rsp, err := newClient().NextHole(cmd.Context(), &gameapi.NextHoleRequest{GameID: *game})
		if err != nil {
			return err
		}
		if rsp.GameCompleted {
			fmt.Fprintln(stdout, style.WithS("round complete!", 1, 32))
		} else {
			fmt.Fprintf(stdout, "moving on to hole %v\n", rsp.NextHole)
		}
		return nil
	}
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Args:  cobra.ExactArgs(0),
	Short: "Cancel a game and discard its scores (host only)",
}

func init() {
	game := cancelCmd.Flags().StringP(
		"game", "g", "",
		"game id")
	if err := cancelCmd.MarkFlagRequired("game"); err != nil {
		panic(err)
	}

	cancelCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		rsp, err := newClient().CancelGame(cmd.Context(), &gameapi.CancelGameRequest{GameID: *game})
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, rsp.Message)
		return nil
	}
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Args:  cobra.ExactArgs(0),
	Short: "Delete stale unfinished games on the server",
}

func init() {
	cleanupCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		rsp, err := newClient().Cleanup(cmd.Context(), &gameapi.CleanupRequest{})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "deleted %v stale game(s)\n", rsp.DeletedGames)
		return nil
	}
}

var courseCmd = &cobra.Command{
	Use:   "course",
	Args:  cobra.ExactArgs(0),
	Short: "Show the hole layout for a course",
}

func init() {
	course := courseCmd.Flags().StringP(
		"course", "c", string(gamekeeper.CourseFull18),
		"course layout (\"front9\", \"back9\" or \"full18\")")

	courseCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		rsp, err := newClient().Course(cmd.Context(), &gameapi.CourseRequest{
			CourseType: gamekeeper.CourseType(*course),
		})
		if err != nil {
			return err
		}
		renderCourse(stdout, &rsp.Course)
		return nil
	}
}
