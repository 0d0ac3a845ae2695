package main

import (
	"io"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
	// SetMaxProcs adjusts GOMAXPROCS to the container CPU quota.
	SetMaxProcs func(logf func(string, ...any))
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		SetMaxProcs: func(logf func(string, ...any)) {
			// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
			// in which case Go runtime defaults apply and the program continues safely.
			_, _ = maxprocs.Set(maxprocs.Logger(logf))
		},
	}
}
