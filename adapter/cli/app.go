package cli

import (
	"time"

	"github.com/google/uuid"

	analyticsApp "github.com/focusflow-dev/focusflow/internal/analytics/application"
	sessionsApp "github.com/focusflow-dev/focusflow/internal/sessions/application"
)

// App bundles the services the commands need.
type App struct {
	Sessions      *sessionsApp.Service
	Analytics     *analyticsApp.Service
	CurrentUserID uuid.UUID

	// DefaultMinutes is used when --minutes is not given.
	DefaultMinutes int
	// TickInterval controls the timer refresh rate.
	TickInterval time.Duration
}

var app *App

// SetApp injects the application services used by the commands.
func SetApp(a *App) {
	if a.DefaultMinutes <= 0 {
		a.DefaultMinutes = 25
	}
	if a.TickInterval <= 0 {
		a.TickInterval = time.Second
	}
	app = a
}

// GetApp returns the configured application, or nil when not set.
func GetApp() *App {
	return app
}
