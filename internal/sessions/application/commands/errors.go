// Package commands contains write-side handlers for the sessions context.
package commands

import "errors"

var (
	// ErrSessionNotFound indicates the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoRunningSession indicates the user has no active or paused session.
	ErrNoRunningSession = errors.New("no running session found")

	// ErrSessionAlreadyRunning indicates another session is already in
	// progress for the user.
	ErrSessionAlreadyRunning = errors.New("another session is already running")

	// ErrNoRepeatRule indicates the session has no repeat rule attached.
	ErrNoRepeatRule = errors.New("session has no repeat rule")
)
