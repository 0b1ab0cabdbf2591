// Package cycle computes contribution cycle windows for a circle.
//
// A window is the half-open interval [Start, End) during which a member may
// make exactly one contribution. The computation is pure: callers re-invoke
// it per request and nothing is cached.
package cycle

import (
	"fmt"
	"time"

	"esusu/internal/models"
)

// Window is the half-open interval [Start, End) of a contribution cycle.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// For returns the cycle window containing now.
//
// With no prior contribution the window is anchored to the circle's creation
// date and advances in whole cycle lengths: start = createdAt + k*D days with
// k = floor(elapsed/D). With a prior contribution the anchor is the last
// contribution date instead, so a member who contributed mid-cycle stays
// inside the cycle that began at that contribution until D days have passed.
func For(freq models.Frequency, createdAt time.Time, lastContribution *time.Time, now time.Time) (Window, error) {
	days := freq.Days()
	if days <= 0 {
		return Window{}, fmt.Errorf("unknown frequency %q", freq)
	}
	period := time.Duration(days) * 24 * time.Hour

	anchor := createdAt
	if lastContribution != nil {
		anchor = *lastContribution
	}

	var k time.Duration
	if elapsed := now.Sub(anchor); elapsed > 0 {
		k = elapsed / period
	}

	start := anchor.Add(k * period)
	return Window{Start: start, End: start.Add(period)}, nil
}
