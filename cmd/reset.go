package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/austinraben/wordhunt/internal/daily"
)

var resetYes bool

func init() {
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all players, grids and scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !resetYes {
				return errors.New("refusing to wipe the database without --yes")
			}
			conn, err := openDB()
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := daily.NewStore(conn).Clear(cmd.Context()); err != nil {
				return err
			}
			log.Warn().Str("database", cfg.Database.Path).Msg("database cleared")
			fmt.Fprintln(cmd.OutOrStdout(), "database cleared")
			return nil
		},
	}
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm deleting every row")
	rootCmd.AddCommand(resetCmd)
}
