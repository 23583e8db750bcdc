package app

import "time"

// MinPlayersToStartGame defines the minimum number of lobby players required to start a game.
// Keep this centralized so tests or local runs can adjust the rule without touching multiple call sites.
const MinPlayersToStartGame = 2

// Rules defaults; config overrides them at runtime.
const (
	DefaultWinningScore      = 5
	DefaultLeaveTimeout      = 60 * time.Second
	DefaultInactivityTimeout = time.Hour
)
