package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/focusflow-dev/focusflow/internal/sessions/application/queries"
	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Watch the running session",
	Long: `Show a live countdown for the running session. The timer is a view
only: leaving it does not pause or complete the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		session, err := a.Sessions.GetRunning(cmd.Context(), queries.GetRunningSessionQuery{
			UserID: a.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to get running session: %w", err)
		}
		if session == nil {
			fmt.Println("No running session. Start one with 'focusflow session start <id>'.")
			return nil
		}

		return runTimer(a, session)
	},
}

func runTimer(a *App, session *domain.WorkSession) error {
	planned := time.Duration(session.PlannedMinutes) * time.Minute

	fmt.Printf("%q for %s\n", session.Title, formatDurationTimer(planned))
	if session.Status == domain.SessionStatusPaused {
		fmt.Println("Session is paused. Resume it with 'focusflow session resume'.")
		return nil
	}
	fmt.Println("Press Ctrl+C to leave the timer (the session keeps running).")
	fmt.Println()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(a.TickInterval)
	defer ticker.Stop()

	for {
		elapsed := sessionElapsed(session, time.Now().UTC())
		remaining := planned - elapsed

		if remaining <= 0 {
			fmt.Printf("\r%s\n", strings.Repeat(" ", 60))
			fmt.Printf("Time's up after %s. Complete with 'focusflow session complete'.\n", formatElapsed(elapsed))
			return nil
		}

		progress := float64(elapsed) / float64(planned)
		fmt.Printf("\r%s %s remaining ", progressBar(progress, 30), formatDurationTimer(remaining))

		select {
		case <-ticker.C:
		case <-sigChan:
			fmt.Printf("\n\nTimer closed after %s. The session is still running.\n", formatElapsed(elapsed))
			return nil
		}
	}
}

// sessionElapsed returns working time so far, excluding paused time.
func sessionElapsed(session *domain.WorkSession, now time.Time) time.Duration {
	if session.ActualStart == nil {
		return 0
	}
	elapsed := now.Sub(*session.ActualStart)
	elapsed -= time.Duration(session.PausedSeconds) * time.Second
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func progressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

func formatDurationTimer(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	if seconds == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}

func init() {
	rootCmd.AddCommand(timerCmd)
}
