package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or list database migrations",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "up"
		if len(args) == 1 {
			action = args[0]
		}
		if action != "up" && action != "down" && action != "status" {
			return fmt.Errorf("unknown migrate action %q", action)
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		switch action {
		case "up":
			return a.migrateUp(ctx)
		case "down":
			p, err := a.migrator()
			if err != nil {
				return err
			}
			r, err := p.Down(ctx)
			if err != nil {
				return fmt.Errorf("failed to roll back migration: %w", err)
			}
			a.logger.Info("migration rolled back", "version", r.Source.Version, "path", r.Source.Path)
			return nil
		default: // status
			p, err := a.migrator()
			if err != nil {
				return err
			}
			statuses, err := p.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to read migration status: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, s := range statuses {
				applied := "pending"
				if !s.AppliedAt.IsZero() {
					applied = s.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(out, "%05d  %-40s %s\n", s.Source.Version, s.Source.Path, applied)
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
