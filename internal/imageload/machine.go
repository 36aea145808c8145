package imageload

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the lifecycle position of one card's image.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseRetrying
	PhaseFailed
)

// maxRetries is the number of additional attempts after the first
// failure: three load attempts total.
const maxRetries = 2

// retryBaseDelay is the linear backoff unit: 1s, then 2s.
const retryBaseDelay = time.Second

// State is the full image-load state of one rendered card. It is a
// value; Step returns a new one and never mutates its input.
type State struct {
	Phase Phase

	// BaseURL is the resolved candidate URL without any cache-buster.
	// Empty when the card has no image path.
	BaseURL string

	// DisplayURL is what the renderer should fetch or show, including
	// any cache-busting query. Empty until the first load starts.
	DisplayURL string

	RetryCount int

	// Reason describes a terminal failure ("no image", "load failed"...).
	Reason string
}

// NewState builds the initial Idle state for a card, resolving the
// server-provided relative path against the asset base URL.
func NewState(assetBase, path string) State {
	return State{Phase: PhaseIdle, BaseURL: ResolveURL(assetBase, path)}
}

// ResolveURL joins the asset base URL and a server-relative image path,
// stripping leading slashes from the path. Absolute URLs pass through
// untouched; an empty path resolves to "".
func ResolveURL(assetBase, path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(assetBase, "/") + "/" + strings.TrimLeft(path, "/")
}

// IsLoading reports whether the renderer should show a spinner.
func (s State) IsLoading() bool {
	return s.Phase == PhaseLoading || s.Phase == PhaseRetrying
}

// Failed reports whether the card should show the placeholder with a
// manual retry control.
func (s State) Failed() bool { return s.Phase == PhaseFailed }

// Event is an input to Step.
type Event interface{ isEvent() }

// Mounted fires when the card appears on screen.
type Mounted struct{}

// LoadSucceeded fires when the fetched bytes decoded as an image.
type LoadSucceeded struct{}

// LoadFailed fires when the fetch or decode failed. At feeds the
// cache-busting timestamp of the next attempt.
type LoadFailed struct{ At time.Time }

// RetryTimerFired fires when a scheduled backoff delay elapses.
type RetryTimerFired struct{}

// RetryRequested is the manual retry affordance on a failed card.
type RetryRequested struct{}

func (Mounted) isEvent()         {}
func (LoadSucceeded) isEvent()   {}
func (LoadFailed) isEvent()      {}
func (RetryTimerFired) isEvent() {}
func (RetryRequested) isEvent()  {}

// Effect is a side effect requested by Step, returned as data so the
// transition function stays pure and unit-testable without a UI harness.
type Effect interface{ isEffect() }

// FetchImage asks the driver to fetch and decode the URL.
type FetchImage struct{ URL string }

// ScheduleRetry asks the driver to re-deliver a RetryTimerFired after
// Delay, cancellable on unmount.
type ScheduleRetry struct{ Delay time.Duration }

// MarkFailed asks the driver to record the URL in the failure registry.
type MarkFailed struct{ URL string }

// MarkHealthy asks the driver to clear the URL from the failure registry.
type MarkHealthy struct{ URL string }

func (FetchImage) isEffect()    {}
func (ScheduleRetry) isEffect() {}
func (MarkFailed) isEffect()    {}
func (MarkHealthy) isEffect()   {}

// Step advances the state machine:
//
//	Idle → Loading → {Loaded, Retrying, Failed};  Retrying → Loading
//
// Loaded and Failed are terminal; RetryRequested restarts a failed card
// from Idle with a fresh retry budget. failed is consulted before any
// first attempt so a URL another card already proved dead is skipped
// without a network request.
func Step(s State, ev Event, failed FailureIndex) (State, []Effect) {
	switch ev := ev.(type) {
	case Mounted:
		if s.Phase != PhaseIdle {
			return s, nil
		}
		if s.BaseURL == "" {
			s.Phase = PhaseFailed
			s.Reason = "no image"
			return s, nil
		}
		if failed != nil && failed.HasFailed(s.BaseURL) {
			s.Phase = PhaseFailed
			s.Reason = "known bad URL"
			return s, nil
		}
		s.Phase = PhaseLoading
		s.DisplayURL = s.BaseURL
		return s, []Effect{FetchImage{URL: s.DisplayURL}}

	case LoadSucceeded:
		if s.Phase != PhaseLoading {
			return s, nil
		}
		s.Phase = PhaseLoaded
		return s, []Effect{MarkHealthy{URL: s.BaseURL}}

	case LoadFailed:
		if s.Phase != PhaseLoading {
			return s, nil
		}
		if s.RetryCount >= maxRetries {
			s.Phase = PhaseFailed
			s.Reason = "load failed"
			return s, []Effect{MarkFailed{URL: s.BaseURL}}
		}
		delay := retryBaseDelay * time.Duration(s.RetryCount+1)
		s.RetryCount++
		s.Phase = PhaseRetrying
		s.DisplayURL = cacheBust(s.BaseURL, s.RetryCount, ev.At)
		return s, []Effect{
			MarkFailed{URL: s.BaseURL},
			ScheduleRetry{Delay: delay},
		}

	case RetryTimerFired:
		if s.Phase != PhaseRetrying {
			return s, nil
		}
		s.Phase = PhaseLoading
		return s, []Effect{FetchImage{URL: s.DisplayURL}}

	case RetryRequested:
		if s.Phase != PhaseFailed {
			return s, nil
		}
		// The failure that parked this card also put its URL in the
		// registry, so an explicit user retry skips the registry check.
		fresh := State{Phase: PhaseIdle, BaseURL: s.BaseURL}
		return Step(fresh, Mounted{}, nil)
	}
	return s, nil
}

// cacheBust appends the retry count and a timestamp so the next attempt
// bypasses any client-side image cache.
func cacheBust(url string, retry int, at time.Time) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sretry=%d&ts=%d", url, sep, retry, at.UnixMilli())
}
