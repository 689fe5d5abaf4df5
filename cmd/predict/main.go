// Command predict is the Analiz prediction CLI.
//
// Usage:
//
//	analiz-predict run
//	analiz-predict coupons
//	analiz-predict team --id 57
//	analiz-predict competitions
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/em1rekinci/analizsitesi/internal/app"
	"github.com/em1rekinci/analizsitesi/internal/config"
	"github.com/em1rekinci/analizsitesi/internal/stats"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "analiz-predict",
		Short: "Analiz daily prediction CLI",
	}

	root.AddCommand(runCmd())
	root.AddCommand(couponsCmd())
	root.AddCommand(teamCmd())
	root.AddCommand(competitionsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// run command
// --------------------------------------------------------------------------

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Fetch, score and persist today's snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				if _, err := a.Service.Warm(ctx); err != nil {
					logger.Warn("Team cache load failed", "error", err)
				}
				snap, result, err := a.Service.Refresh(ctx)
				if err != nil {
					return fmt.Errorf("daily run: %w", err)
				}
				for _, e := range result.Errors {
					logger.Error("match error", "error", e)
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
				return printJSON(cmd, snap.Picks)
			})
		},
	}
}

// --------------------------------------------------------------------------
// coupons command
// --------------------------------------------------------------------------

func couponsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coupons",
		Short: "Print today's coupons, generating the snapshot if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				snap, err := a.Service.Today(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, snap.Coupons)
			})
		},
	}
}

// --------------------------------------------------------------------------
// team command
// --------------------------------------------------------------------------

func teamCmd() *cobra.Command {
	var teamID int
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Print a team's recent-form profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if teamID <= 0 {
				return fmt.Errorf("--id must be a positive team id")
			}
			return withApp(func(ctx context.Context, a *app.App) error {
				if _, err := a.Service.Warm(ctx); err != nil {
					logger.Warn("Team cache load failed", "error", err)
				}
				p := a.Service.Profile(ctx, teamID)
				return printJSON(cmd, map[string]interface{}{
					"team_id":     teamID,
					"profile":     p,
					"strength":    a.Service.Strength(ctx, teamID),
					"consistency": stats.Consistency(p.RecentGoals),
				})
			})
		},
	}
	cmd.Flags().IntVar(&teamID, "id", 0, "Upstream team id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// --------------------------------------------------------------------------
// competitions command
// --------------------------------------------------------------------------

func competitionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "competitions",
		Short: "List configured competitions and weights",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tWEIGHT")
			for _, c := range cfg.Competitions {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\n", c.Code, c.Name, c.Weight)
			}
			return tw.Flush()
		},
	}
}

// --------------------------------------------------------------------------
// shared setup
// --------------------------------------------------------------------------

func withApp(fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
