package stealth

import (
	"context"
	"math/rand/v2"
	"time"
)

// DelayProfile names a pacing configuration.
type DelayProfile string

const (
	// ProfileCautious spaces requests far apart. The default for the alert
	// watcher, which has all hour to finish a scan.
	ProfileCautious DelayProfile = "cautious"
	// ProfileNormal suits interactive one-off analyses.
	ProfileNormal DelayProfile = "normal"
	// ProfileAggressive is for local development against test servers.
	ProfileAggressive DelayProfile = "aggressive"
)

// HumanDelay inserts randomized pauses so request timing does not look
// machine-generated.
type HumanDelay struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

func NewHumanDelay(profile DelayProfile) *HumanDelay {
	switch profile {
	case ProfileCautious:
		return &HumanDelay{MinDelay: 2 * time.Second, MaxDelay: 5 * time.Second}
	case ProfileAggressive:
		return &HumanDelay{MinDelay: 200 * time.Millisecond, MaxDelay: 800 * time.Millisecond}
	default:
		return &HumanDelay{MinDelay: 500 * time.Millisecond, MaxDelay: 2 * time.Second}
	}
}

// Wait sleeps for a random duration within the configured range, or until
// the context is cancelled.
func (h *HumanDelay) Wait(ctx context.Context) error {
	select {
	case <-time.After(h.randomBetween(h.MinDelay, h.MaxDelay)):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *HumanDelay) randomBetween(min, max time.Duration) time.Duration {
	if min >= max {
		return min
	}
	return min + time.Duration(rand.Int64N(int64(max-min)))
}
