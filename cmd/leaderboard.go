package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/austinraben/wordhunt/internal/daily"
	"github.com/austinraben/wordhunt/internal/words"
)

var (
	leaderboardLang string
	leaderboardDate string
)

func init() {
	leaderboardCmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the ranking for a day and language",
		RunE:  runLeaderboard,
	}
	leaderboardCmd.Flags().StringVarP(&leaderboardLang, "lang", "l", "english", "Language (english, german)")
	leaderboardCmd.Flags().StringVarP(&leaderboardDate, "date", "d", "", "Day as YYYY-MM-DD (default today, UTC)")
	rootCmd.AddCommand(leaderboardCmd)
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	lang, err := words.ParseLanguage(leaderboardLang)
	if err != nil {
		return err
	}
	date, err := daily.ParseDate(leaderboardDate, time.Now())
	if err != nil {
		return err
	}

	conn, err := openDB()
	if err != nil {
		return err
	}
	defer conn.Close()

	rows, err := daily.NewStore(conn).Leaderboard(cmd.Context(), daily.Key{Date: date, Language: lang})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s leaderboard for %s\n", lang.Title(), date)
	if len(rows) == 0 {
		fmt.Fprintln(out, "no results yet")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tSCORE\tWORDS\tLONGEST")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", i+1, r.Username, r.Score, r.TotalWords, r.LongestWord)
	}
	return tw.Flush()
}
