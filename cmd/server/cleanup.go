// cmd/server/cleanup.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tennisverein/courtbook/internal/booking"
	"github.com/tennisverein/courtbook/internal/scheduler"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete bookings older than the configured retention",
	RunE:  runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	svc := booking.NewService(database, booking.Options{
		Courts:       cfg.Club.Courts,
		SlotDuration: cfg.SlotDuration(),
		LeadTime:     cfg.LeadTime(),
		Location:     cfg.Location(),
	})

	removed, err := scheduler.RunCleanup(cmd.Context(), svc)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d old bookings\n", removed)
	return nil
}
