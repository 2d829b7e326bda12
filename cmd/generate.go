package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/austinraben/wordhunt/internal/words"
)

var generateLang string

func init() {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Create today's grid if it does not exist yet",
		Long: `Create today's daily grid for one language, or for every language when
--lang is omitted. Safe to run from cron: an existing grid is left alone.

Examples:
  wordhunt generate
  wordhunt generate --lang german`,
		RunE: runGenerate,
	}
	generateCmd.Flags().StringVarP(&generateLang, "lang", "l", "", "Language (english, german); empty means all")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	langs := words.Languages()
	if generateLang != "" {
		lang, err := words.ParseLanguage(generateLang)
		if err != nil {
			return err
		}
		langs = []words.Language{lang}
	}

	conn, err := openDB()
	if err != nil {
		return err
	}
	defer conn.Close()
	svc := newDailyService(conn)

	out := cmd.OutOrStdout()
	for _, lang := range langs {
		g, created, err := svc.Ensure(cmd.Context(), lang)
		if err != nil {
			return fmt.Errorf("%s: %w", lang, err)
		}
		status := "exists"
		if created {
			status = "created"
		}
		fmt.Fprintf(out, "%s %s %s (%s)\n%s\n", g.Date, lang.Title(), g.ID, status, g.Letters)
	}
	return nil
}
