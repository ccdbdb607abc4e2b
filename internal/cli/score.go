package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// difficultyCodes maps difficulty names to the codes the API accepts
var difficultyCodes = map[string]int{
	"easy":   0,
	"normal": 1,
	"hard":   2,
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Game result commands",
	}

	cmd.AddCommand(newScoreSubmitCmd())
	return cmd
}

func newScoreSubmitCmd() *cobra.Command {
	var difficulty string

	cmd := &cobra.Command{
		Use:   "submit <score>",
		Short: "Record a game result for --user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCredentials(); err != nil {
				return err
			}

			code, ok := difficultyCodes[difficulty]
			if !ok {
				return fmt.Errorf("--difficulty must be easy, normal or hard")
			}

			req := map[string]any{
				"username":   cfg.Username,
				"score":      args[0],
				"difficulty": code,
			}

			var result ScoreRecorded
			if err := client.Post("/api/auth/game", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "normal", "Difficulty: easy, normal, hard")
	return cmd
}

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []LeaderboardRow
			if err := client.Get("/api/leaderboard", &rows); err != nil {
				return err
			}

			output(cmd).Print(rows)
			return nil
		},
	}
}
