// ABOUTME: The interactive TUI command, also the default when no subcommand runs
// ABOUTME: Restores the stored session before handing control to bubbletea

package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/firefly-health/firefly-cli/internal/tui"
	"github.com/firefly-health/firefly-cli/internal/tui/debuglog"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive terminal experience",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI() error {
	s, err := newStack()
	if err != nil {
		return err
	}

	if s.cfg.DebugLog {
		if err := debuglog.Init(s.cfg.ConfigDir); err != nil {
			fmt.Printf("debug log unavailable: %v\n", err)
		}
		defer debuglog.Close()
	}

	// Restore the stored session so the app can skip the sign-in screen
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	s.manager.FetchUser(ctx)
	cancel()

	app := tui.New(s.api, s.manager)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
