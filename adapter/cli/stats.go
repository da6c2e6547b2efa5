package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/focusflow-dev/focusflow/internal/analytics/application/commands"
	"github.com/focusflow-dev/focusflow/internal/analytics/application/queries"
	"github.com/focusflow-dev/focusflow/internal/analytics/domain"
)

var (
	statsFresh bool
	trendsDays int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Productivity statistics",
}

var statsDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show today, this week and your streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		dashboard, err := a.Analytics.GetDashboard(cmd.Context(), queries.GetDashboardQuery{
			UserID:    a.CurrentUserID,
			SkipCache: statsFresh,
		})
		if err != nil {
			return fmt.Errorf("failed to get dashboard: %w", err)
		}

		fmt.Println("Today")
		printSnapshot(dashboard.Today)

		if dashboard.Week != nil {
			week := dashboard.Week
			fmt.Println("\nThis week")
			fmt.Printf("  Completed: %d sessions, %d min worked\n", week.SessionsCompleted, week.MinutesWorked)
			if week.SessionsMissed > 0 {
				fmt.Printf("  Missed:    %d\n", week.SessionsMissed)
			}
			if week.AvgScore > 0 {
				fmt.Printf("  Avg score: %.1f", week.AvgScore)
				if week.ScoreTrend != 0 {
					fmt.Printf(" (%+.1f%% vs last week)", week.ScoreTrend)
				}
				fmt.Println()
			}
			if week.MostProductiveDay != nil {
				fmt.Printf("  Best day:  %s\n", week.MostProductiveDay.Format("Monday"))
			}
		}

		fmt.Println("\nStreak")
		fmt.Printf("  Current: %d days, longest: %d days\n", dashboard.Streak.Current, dashboard.Streak.Longest)
		return nil
	},
}

var statsTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show score and minutes trends",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		trends, err := a.Analytics.GetTrends(cmd.Context(), queries.GetTrendsQuery{
			UserID: a.CurrentUserID,
			Days:   trendsDays,
		})
		if err != nil {
			return fmt.Errorf("failed to get trends: %w", err)
		}

		fmt.Printf("Score:   %s\n", formatTrend(trends.ScoreTrend))
		fmt.Printf("Minutes: %s\n", formatTrend(trends.MinutesTrend))

		if trends.BestDay != nil {
			fmt.Printf("\nBest day:  %s (avg %.1f)\n", trends.BestDay.SnapshotDate.Format("Mon Jan 2"), trends.BestDay.AvgScore)
		}
		if trends.WorstDay != nil {
			fmt.Printf("Worst day: %s (avg %.1f)\n", trends.WorstDay.SnapshotDate.Format("Mon Jan 2"), trends.WorstDay.AvgScore)
		}

		if len(trends.Snapshots) > 0 {
			fmt.Println("\nRecent days:")
			for _, snapshot := range trends.Snapshots {
				fmt.Printf("  %s  %d done, %3d min, avg %.0f\n",
					snapshot.SnapshotDate.Format("Jan 02"),
					snapshot.SessionsCompleted,
					snapshot.MinutesWorked,
					snapshot.AvgScore,
				)
			}
		}
		return nil
	},
}

var statsComputeCmd = &cobra.Command{
	Use:   "compute [date]",
	Short: "Recompute the snapshot for a day (today by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		date := time.Now().UTC()
		if len(args) == 1 {
			parsed, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", args[0])
			}
			date = parsed
		}

		snapshot, err := a.Analytics.ComputeSnapshot(cmd.Context(), commands.ComputeSnapshotCommand{
			UserID: a.CurrentUserID,
			Date:   date,
		})
		if err != nil {
			return fmt.Errorf("failed to compute snapshot: %w", err)
		}

		fmt.Printf("Snapshot for %s\n", snapshot.SnapshotDate.Format("Mon Jan 2 2006"))
		printSnapshot(snapshot)
		return nil
	},
}

func printSnapshot(snapshot *domain.DailySnapshot) {
	if snapshot == nil || (!snapshot.HasActivity() && snapshot.SessionsScheduled == 0) {
		fmt.Println("  No sessions yet.")
		return
	}
	fmt.Printf("  Completed: %d of %d scheduled\n", snapshot.SessionsCompleted, snapshot.SessionsScheduled)
	if snapshot.MinutesWorked > 0 {
		fmt.Printf("  Worked:    %d min\n", snapshot.MinutesWorked)
	}
	if snapshot.SessionsCompleted > 0 {
		fmt.Printf("  Avg score: %.1f (best %d)\n", snapshot.AvgScore, snapshot.BestScore)
	}
}

func formatTrend(metric queries.TrendMetric) string {
	switch metric.Direction {
	case "up":
		return fmt.Sprintf("up %.1f%% (%.1f from %.1f)", metric.Change, metric.CurrentAvg, metric.PreviousAvg)
	case "down":
		return fmt.Sprintf("down %.1f%% (%.1f from %.1f)", -metric.Change, metric.CurrentAvg, metric.PreviousAvg)
	default:
		return fmt.Sprintf("stable (%.1f)", metric.CurrentAvg)
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsDashboardCmd)
	statsCmd.AddCommand(statsTrendsCmd)
	statsCmd.AddCommand(statsComputeCmd)

	statsDashboardCmd.Flags().BoolVar(&statsFresh, "fresh", false, "bypass the dashboard cache")
	statsTrendsCmd.Flags().IntVarP(&trendsDays, "days", "d", 0, "period length in days")
}
