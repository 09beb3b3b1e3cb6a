// cmd/server/migrate.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tennisverein/courtbook/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|version]",
	Short:     "Run database migrations",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down", "version"},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	version, dirty, err := db.Migrate(cfg, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
	return nil
}
