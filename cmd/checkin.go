// ABOUTME: Scripted one-shot check-in command
// ABOUTME: Applies the same validation as the interactive wizard

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firefly-health/firefly-cli/internal/tui/checkin"
)

var (
	checkinMood     int
	checkinEnergy   int
	checkinAnxiety  int
	checkinStress   int
	checkinEmotions []string
	checkinLocation string
	checkinActivity string
	checkinSocial   string
	checkinJournal  string
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Record a check-in without the TUI",
	Long: `Record a daily check-in from flags, for scripting or quick capture.

Mood and energy (1-10) and at least one emotion are required, matching the
interactive wizard.`,
	Example: `  firefly checkin --mood 6 --energy 4 --emotions calm,tired
  firefly checkin --mood 3 --energy 2 --emotions anxious --journal "rough morning"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runCheckin(ctx, os.Stdout)
	},
}

func init() {
	checkinCmd.Flags().IntVar(&checkinMood, "mood", 0, "Mood score, 1-10 (required)")
	checkinCmd.Flags().IntVar(&checkinEnergy, "energy", 0, "Energy level, 1-10 (required)")
	checkinCmd.Flags().IntVar(&checkinAnxiety, "anxiety", 0, "Anxiety level, 1-10 (optional)")
	checkinCmd.Flags().IntVar(&checkinStress, "stress", 0, "Stress level, 1-10 (optional)")
	checkinCmd.Flags().StringSliceVar(&checkinEmotions, "emotions", nil, "Emotion tags, comma-separated (at least one required)")
	checkinCmd.Flags().StringVar(&checkinLocation, "location", "", "Where you are")
	checkinCmd.Flags().StringVar(&checkinActivity, "activity", "", "What you are doing")
	checkinCmd.Flags().StringVar(&checkinSocial, "social", "", "Who you are with")
	checkinCmd.Flags().StringVar(&checkinJournal, "journal", "", "Free-form journal text")
	rootCmd.AddCommand(checkinCmd)
}

func runCheckin(ctx context.Context, w io.Writer) error {
	draft := checkin.NewDraft()
	draft.Mood = checkinMood
	draft.Energy = checkinEnergy
	draft.Anxiety = checkinAnxiety
	draft.Stress = checkinStress
	for _, tag := range checkinEmotions {
		if tag = strings.TrimSpace(tag); tag != "" {
			draft.Toggle(tag)
		}
	}
	draft.Location = checkinLocation
	draft.Activity = checkinActivity
	draft.Social = checkinSocial
	draft.Journal = checkinJournal

	if !draft.Valid() {
		return fmt.Errorf("a check-in needs --mood 1-10, --energy 1-10, and at least one --emotions tag")
	}

	s, err := newStack()
	if err != nil {
		return err
	}

	result, err := s.api.CreateCheckin(ctx, draft.Request())
	if err != nil {
		return fmt.Errorf("recording check-in: %w", err)
	}

	if IsJSONOutput() {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(w, string(out))
		return nil
	}

	fmt.Fprintf(w, "Check-in recorded: mood %d/10, energy %d/10.\n",
		result.Checkin.MoodScore, result.Checkin.EnergyLevel)

	if result.CrisisAlert {
		fmt.Fprintln(w, "\nIt sounds like things are heavy right now. You are not alone:")
		if result.CrisisResources != nil {
			for _, h := range result.CrisisResources.Hotlines {
				fmt.Fprintf(w, "  %s — %s\n", h.Name, h.Number)
			}
		}
		fmt.Fprintln(w, "If you are in immediate danger, call your local emergency number.")
		return nil
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintln(w, "\nSuggested for you:")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(w, "  %s (%ds)\n", rec.Name, rec.DurationSeconds)
		}
	}
	return nil
}
