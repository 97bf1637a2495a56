package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the event cache from the sheet once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		cache, err := a.newEventCache()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		start := time.Now()
		if err := cache.Refresh(ctx); err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
		status := cache.Status()
		a.logger.Info("event cache refreshed", "events", status.Count, "cached_at", status.CachedAt, "duration_ms", time.Since(start).Milliseconds())
		if status.LastError != "" {
			a.logger.Warn("some feeds kept their previous events", "err", status.LastError)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.Flags().Duration("timeout", 2*time.Minute, "Maximum time for the refresh")
}
