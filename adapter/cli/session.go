package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/focusflow-dev/focusflow/internal/sessions/application/commands"
	"github.com/focusflow-dev/focusflow/internal/sessions/application/queries"
	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
)

var (
	sessionTitle    string
	sessionCategory string
	sessionAt       string
	sessionMinutes  int
	sessionRepeat   string

	completeReflection string
	completeRating     int

	abandonID         string
	abandonReflection string

	listStatus string
	listFrom   string
	listTo     string
	listLimit  int

	repeatCount int
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage work sessions",
	Long:  `Schedule, start, pause, resume, complete and abandon work sessions.`,
}

var sessionScheduleCmd = &cobra.Command{
	Use:   "schedule <title>",
	Short: "Schedule a new work session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		scheduledStart := time.Now().UTC()
		if sessionAt != "" {
			parsed, err := parseWhen(sessionAt)
			if err != nil {
				return err
			}
			scheduledStart = parsed
		}

		minutes := sessionMinutes
		if minutes <= 0 {
			minutes = a.DefaultMinutes
		}

		session, err := a.Sessions.Schedule(cmd.Context(), commands.ScheduleSessionCommand{
			UserID:         a.CurrentUserID,
			Title:          strings.Join(args, " "),
			Category:       sessionCategory,
			ScheduledStart: scheduledStart,
			PlannedMinutes: minutes,
			Repeat:         sessionRepeat,
		})
		if err != nil {
			return fmt.Errorf("failed to schedule session: %w", err)
		}

		fmt.Printf("Scheduled %q for %s (%d min)\n",
			session.Title,
			session.ScheduledStart.Local().Format("Mon Jan 2 15:04"),
			session.PlannedMinutes,
		)
		if session.Repeat != nil {
			fmt.Printf("Repeats: %s\n", session.Repeat.String())
		}
		fmt.Printf("ID: %s\n", session.ID)
		return nil
	},
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <session-id>",
	Short: "Start a scheduled session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		sessionID, err := parseSessionID(args[0])
		if err != nil {
			return err
		}

		session, err := a.Sessions.Start(cmd.Context(), commands.StartSessionCommand{
			UserID:    a.CurrentUserID,
			SessionID: sessionID,
		})
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		delay := session.DelayMinutes()
		switch {
		case delay <= 0:
			fmt.Printf("Started %q on time.\n", session.Title)
		case delay == 1:
			fmt.Printf("Started %q 1 minute late.\n", session.Title)
		default:
			fmt.Printf("Started %q %d minutes late.\n", session.Title, delay)
		}
		fmt.Printf("Planned: %d min. Use 'focusflow timer' to watch progress.\n", session.PlannedMinutes)
		return nil
	},
}

var sessionPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		session, err := a.Sessions.Pause(cmd.Context(), commands.PauseSessionCommand{
			UserID: a.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to pause session: %w", err)
		}

		fmt.Printf("Paused %q.\n", session.Title)
		return nil
	},
}

var sessionResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume the paused session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		session, err := a.Sessions.Resume(cmd.Context(), commands.ResumeSessionCommand{
			UserID: a.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to resume session: %w", err)
		}

		fmt.Printf("Resumed %q. Paused so far: %s.\n", session.Title, formatPaused(session.PausedSeconds))
		return nil
	},
}

var sessionCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Complete the running session and score it",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		session, err := a.Sessions.Complete(cmd.Context(), commands.CompleteSessionCommand{
			UserID:      a.CurrentUserID,
			Reflection:  completeReflection,
			FocusRating: completeRating,
		})
		if err != nil {
			return fmt.Errorf("failed to complete session: %w", err)
		}

		fmt.Printf("Completed %q.\n", session.Title)
		if session.CompletedMinutes != nil {
			fmt.Printf("Worked: %d of %d planned minutes\n", *session.CompletedMinutes, session.PlannedMinutes)
		}
		printScore(session)
		return nil
	},
}

var sessionAbandonCmd = &cobra.Command{
	Use:   "abandon",
	Short: "Abandon a session",
	Long: `Abandon the running session, or a scheduled one when --id is given.
Abandoned sessions count against your completion rate but are never scored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		cmdInput := commands.AbandonSessionCommand{
			UserID:     a.CurrentUserID,
			Reflection: abandonReflection,
		}
		if abandonID != "" {
			sessionID, err := parseSessionID(abandonID)
			if err != nil {
				return err
			}
			cmdInput.SessionID = sessionID
		}

		session, err := a.Sessions.Abandon(cmd.Context(), cmdInput)
		if err != nil {
			return fmt.Errorf("failed to abandon session: %w", err)
		}

		fmt.Printf("Abandoned %q.\n", session.Title)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Long: `List sessions for a date range (today by default), or filter by
status with --status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		ctx := cmd.Context()

		// Sweep first so overdue entries show as missed, not scheduled.
		if _, err := a.Sessions.SweepMissed(ctx, commands.SweepMissedCommand{UserID: a.CurrentUserID}); err != nil {
			logger.Warn("missed session sweep failed", "error", err)
		}

		query := queries.ListSessionsQuery{
			UserID: a.CurrentUserID,
			Limit:  listLimit,
		}
		if listStatus != "" {
			query.Status = domain.SessionStatus(listStatus)
		}
		if listFrom != "" {
			from, err := time.ParseInLocation("2006-01-02", listFrom, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --from date %q, expected YYYY-MM-DD", listFrom)
			}
			query.From = from.UTC()
		}
		if listTo != "" {
			to, err := time.ParseInLocation("2006-01-02", listTo, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --to date %q, expected YYYY-MM-DD", listTo)
			}
			query.To = to.UTC()
		}

		sessions, err := a.Sessions.List(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		for _, session := range sessions {
			printSessionLine(session)
		}
		return nil
	},
}

var sessionRepeatCmd = &cobra.Command{
	Use:   "repeat <session-id>",
	Short: "Generate upcoming occurrences of a repeating session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		sessionID, err := parseSessionID(args[0])
		if err != nil {
			return err
		}

		created, err := a.Sessions.GenerateRepeats(cmd.Context(), commands.GenerateRepeatsCommand{
			UserID:    a.CurrentUserID,
			SessionID: sessionID,
			Count:     repeatCount,
		})
		if err != nil {
			return fmt.Errorf("failed to generate repeats: %w", err)
		}

		fmt.Printf("Created %d upcoming sessions:\n", len(created))
		for _, session := range created {
			fmt.Printf("  %s  %s\n", session.ScheduledStart.Local().Format("Mon Jan 2 15:04"), session.Title)
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		sessionID, err := parseSessionID(args[0])
		if err != nil {
			return err
		}

		session, err := a.Sessions.GetSession(cmd.Context(), queries.GetSessionQuery{
			UserID:    a.CurrentUserID,
			SessionID: sessionID,
		})
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}

		fmt.Printf("%s\n", session.Title)
		if session.Category != "" {
			fmt.Printf("Category:  %s\n", session.Category)
		}
		fmt.Printf("Status:    %s\n", session.Status)
		fmt.Printf("Scheduled: %s (%d min)\n", session.ScheduledStart.Local().Format("Mon Jan 2 15:04"), session.PlannedMinutes)
		if session.ActualStart != nil {
			fmt.Printf("Started:   %s\n", session.ActualStart.Local().Format("Mon Jan 2 15:04"))
		}
		if session.EndedAt != nil {
			fmt.Printf("Ended:     %s\n", session.EndedAt.Local().Format("Mon Jan 2 15:04"))
		}
		if session.CompletedMinutes != nil {
			fmt.Printf("Worked:    %d min", *session.CompletedMinutes)
			if session.PausedSeconds > 0 {
				fmt.Printf(" (paused %s)", formatPaused(session.PausedSeconds))
			}
			fmt.Println()
		}
		if session.Reflection != "" {
			fmt.Printf("Notes:     %s\n", session.Reflection)
		}
		if session.FocusRating > 0 {
			fmt.Printf("Felt focus: %d/5\n", session.FocusRating)
		}
		printScore(session)
		return nil
	},
}

func printSessionLine(session *domain.WorkSession) {
	score := "  -"
	if session.Score != nil {
		score = fmt.Sprintf("%3d", session.Score.Total)
	}
	fmt.Printf("%s  %-9s  %s  %-30s  %s\n",
		session.ScheduledStart.Local().Format("Jan 02 15:04"),
		session.Status,
		score,
		truncateTitle(session.Title, 30),
		session.ID,
	)
}

func printScore(session *domain.WorkSession) {
	if session.Score == nil {
		return
	}
	breakdown := session.Score
	fmt.Printf("Score: %d/100 (promptness %d, focus %d, bonus %d)\n",
		breakdown.Total, breakdown.Promptness, breakdown.Focus, breakdown.CommitmentBonus)
}

func truncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max-3]) + "..."
}

func formatPaused(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}

func parseSessionID(value string) (uuid.UUID, error) {
	sessionID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid session ID %q", value)
	}
	return sessionID, nil
}

// parseWhen accepts "15:04" (today, local time) or "2006-01-02 15:04".
func parseWhen(value string) (time.Time, error) {
	if parsed, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local); err == nil {
		return parsed.UTC(), nil
	}
	if parsed, err := time.ParseInLocation("15:04", value, time.Local); err == nil {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(),
			parsed.Hour(), parsed.Minute(), 0, 0, time.Local).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM or YYYY-MM-DD HH:MM", value)
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionScheduleCmd)
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionPauseCmd)
	sessionCmd.AddCommand(sessionResumeCmd)
	sessionCmd.AddCommand(sessionCompleteCmd)
	sessionCmd.AddCommand(sessionAbandonCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionRepeatCmd)
	sessionCmd.AddCommand(sessionShowCmd)

	sessionScheduleCmd.Flags().StringVarP(&sessionCategory, "category", "c", "", "session category")
	sessionScheduleCmd.Flags().StringVar(&sessionAt, "at", "", "scheduled start (HH:MM or YYYY-MM-DD HH:MM)")
	sessionScheduleCmd.Flags().IntVarP(&sessionMinutes, "minutes", "m", 0, "planned duration in minutes")
	sessionScheduleCmd.Flags().StringVarP(&sessionRepeat, "repeat", "r", "", "repeat rule (daily, weekdays, weekends, weekly)")

	sessionCompleteCmd.Flags().StringVar(&completeReflection, "note", "", "reflection note")
	sessionCompleteCmd.Flags().IntVar(&completeRating, "rating", 0, "felt focus rating (1-5)")

	sessionAbandonCmd.Flags().StringVar(&abandonID, "id", "", "abandon a scheduled session by ID")
	sessionAbandonCmd.Flags().StringVar(&abandonReflection, "note", "", "reflection note")

	sessionListCmd.Flags().StringVarP(&listStatus, "status", "s", "", "filter by status")
	sessionListCmd.Flags().StringVar(&listFrom, "from", "", "range start (YYYY-MM-DD)")
	sessionListCmd.Flags().StringVar(&listTo, "to", "", "range end (YYYY-MM-DD)")
	sessionListCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "maximum results")

	sessionRepeatCmd.Flags().IntVarP(&repeatCount, "count", "n", 0, "number of occurrences to create")
}
