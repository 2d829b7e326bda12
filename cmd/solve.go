package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/austinraben/wordhunt/internal/daily"
	"github.com/austinraben/wordhunt/internal/game"
	"github.com/austinraben/wordhunt/internal/words"
)

var (
	solveLang string
	solveGrid string
)

func init() {
	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "List every word that can be traced on a grid",
		Long: `List every dictionary word reachable on today's grid, longest first,
together with the best possible score.

Examples:
  wordhunt solve --lang german
  wordhunt solve --grid CATS,ORED,DINE,FIRE`,
		RunE: runSolve,
	}
	solveCmd.Flags().StringVarP(&solveLang, "lang", "l", "english", "Language (english, german)")
	solveCmd.Flags().StringVarP(&solveGrid, "grid", "g", "", "Solve this grid instead of today's: four comma-separated rows")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	lang, err := words.ParseLanguage(solveLang)
	if err != nil {
		return err
	}
	lib, err := words.LoadLibrary(cfg.WordPaths())
	if err != nil {
		return err
	}
	dict, err := lib.Get(lang)
	if err != nil {
		return err
	}

	var grid game.Grid
	if solveGrid != "" {
		if grid, err = parseGridFlag(solveGrid); err != nil {
			return err
		}
	} else {
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()
		g, err := newDailyService(conn).Today(cmd.Context(), lang)
		if errors.Is(err, daily.ErrGridNotFound) {
			return fmt.Errorf("no %s grid today; run wordhunt generate first", lang)
		}
		if err != nil {
			return err
		}
		grid = g.Letters
	}

	found := game.FindAll(grid, dict)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", grid)
	for _, w := range found {
		fmt.Fprintf(out, "%-16s %5d\n", w, game.Score(w))
	}
	fmt.Fprintf(out, "\n%d words, max score %d\n", len(found), game.MaxScore(found))
	return nil
}

// parseGridFlag reads "CATS,ORED,DINE,FIRE" into a grid.
func parseGridFlag(s string) (game.Grid, error) {
	parts := strings.Split(s, ",")
	rows := make([][]string, 0, len(parts))
	for _, p := range parts {
		row := []string{}
		for _, r := range strings.TrimSpace(p) {
			row = append(row, string(r))
		}
		rows = append(rows, row)
	}
	return game.ParseGrid(rows)
}
