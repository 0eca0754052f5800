// ABOUTME: Status command showing the signed-in user and check-in stats
// ABOUTME: Supports JSON output for scripting

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firefly-health/firefly-cli/internal/client"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in account and check-in streak",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if code := runStatus(ctx, os.Stdout); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusReport is the JSON shape of the status output
type statusReport struct {
	Email         string               `json:"email"`
	DisplayName   string               `json:"display_name,omitempty"`
	Stats         *client.CheckinStats `json:"stats,omitempty"`
	StatsError    string               `json:"stats_error,omitempty"`
	Authenticated bool                 `json:"authenticated"`
}

// runStatus fetches the account and stats and returns an exit code
func runStatus(ctx context.Context, w io.Writer) int {
	s, err := newStack()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrNotAuthenticated) {
			fmt.Fprintln(w, "Not signed in. Run `firefly login` first.")
		} else {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
		return 2
	}

	report := statusReport{
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		Authenticated: true,
	}

	stats, err := s.api.CheckinStats(ctx)
	if err != nil {
		report.StatsError = err.Error()
	} else {
		report.Stats = stats
	}

	if IsJSONOutput() {
		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Fprintln(w, string(out))
		return 0
	}

	fmt.Fprintln(w, formatStatusHuman(report))
	return 0
}

func formatStatusHuman(report statusReport) string {
	name := report.DisplayName
	if name == "" {
		name = report.Email
	}

	out := fmt.Sprintf("Signed in as %s (%s)\n", name, report.Email)
	if report.Stats == nil {
		out += "Check-in stats unavailable."
		if report.StatsError != "" {
			out += " " + report.StatsError
		}
		return out
	}

	stats := report.Stats
	out += fmt.Sprintf("Streak: %d days · %d check-ins total\n", stats.StreakLength, stats.TotalCheckins)
	if stats.AverageMood7Days != nil {
		out += fmt.Sprintf("Mood (7d): %.1f/10\n", *stats.AverageMood7Days)
	}
	if stats.MoodTrend != "" {
		out += fmt.Sprintf("Trend: %s", stats.MoodTrend)
	}
	return out
}
