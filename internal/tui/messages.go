package tui

import "github.com/JonMunkholm/fmcsa/internal/core"

// loadedMsg delivers a snapshot for load generation gen.
type loadedMsg struct {
	gen  int
	snap *core.Snapshot
}

// loadFailedMsg reports a failed load for generation gen.
type loadFailedMsg struct {
	gen int
	err error
}
