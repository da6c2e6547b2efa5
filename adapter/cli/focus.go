package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/focusflow-dev/focusflow/internal/sessions/application/commands"
)

var (
	focusMinutes  int
	focusCategory string
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run a focus session end to end",
	Long: `Schedule a session for right now, start it, run the countdown and
complete it when the timer finishes. Ending early with Ctrl+C still
completes the session with the minutes actually worked, so a short
session earns a partial score instead of none.

Examples:
  focusflow focus "Write report"
  focusflow focus "Deep work" --minutes 50`,
	Aliases: []string{"pomodoro"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		minutes := focusMinutes
		if minutes <= 0 {
			minutes = a.DefaultMinutes
		}

		ctx := cmd.Context()

		session, err := a.Sessions.Schedule(ctx, commands.ScheduleSessionCommand{
			UserID:         a.CurrentUserID,
			Title:          strings.Join(args, " "),
			Category:       focusCategory,
			ScheduledStart: time.Now().UTC(),
			PlannedMinutes: minutes,
		})
		if err != nil {
			return fmt.Errorf("failed to schedule session: %w", err)
		}

		session, err = a.Sessions.Start(ctx, commands.StartSessionCommand{
			UserID:    a.CurrentUserID,
			SessionID: session.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		fmt.Printf("Focusing on %q for %d minutes. Press Ctrl+C to finish early.\n\n", session.Title, minutes)

		timerCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-timerCtx.Done():
			}
		}()

		finished := runCountdown(timerCtx, a.TickInterval, time.Duration(minutes)*time.Minute)
		fmt.Println()

		completed, err := a.Sessions.Complete(ctx, commands.CompleteSessionCommand{
			UserID: a.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to complete session: %w", err)
		}

		if finished {
			fmt.Println("Session complete!")
		} else {
			fmt.Println("Session ended early.")
		}
		if completed.CompletedMinutes != nil {
			fmt.Printf("Worked: %d of %d planned minutes\n", *completed.CompletedMinutes, completed.PlannedMinutes)
		}
		printScore(completed)
		return nil
	},
}

// runCountdown ticks until the duration elapses or the context is cancelled.
// Returns true when the full duration ran.
func runCountdown(ctx context.Context, tick, duration time.Duration) bool {
	endTime := time.Now().Add(duration)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case now := <-ticker.C:
			remaining := endTime.Sub(now)
			if remaining <= 0 {
				fmt.Printf("\r%s %s remaining ", progressBar(1, 30), formatDurationTimer(0))
				return true
			}
			progress := float64(duration-remaining) / float64(duration)
			fmt.Printf("\r%s %s remaining ", progressBar(progress, 30), formatDurationTimer(remaining))
		}
	}
}

func init() {
	rootCmd.AddCommand(focusCmd)

	focusCmd.Flags().IntVarP(&focusMinutes, "minutes", "m", 0, "session length in minutes")
	focusCmd.Flags().StringVarP(&focusCategory, "category", "c", "", "session category")
}
