package imageload

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Fetcher retrieves and verifies one image URL. A nil error means the
// bytes decoded as a real image.
type Fetcher func(ctx context.Context, url string) error

// Loader drives one card's state machine against real timers and
// network fetches. All state changes are observed through the onChange
// callback, which the UI uses to repaint the card.
type Loader struct {
	registry *Registry
	fetch    Fetcher
	onChange func(State)

	mu      sync.Mutex
	state   State
	timer   *time.Timer
	stopped bool
	cancel  context.CancelFunc
	ctx     context.Context
}

// NewLoader creates a loader for one card. registry may be shared by
// every card of a list screen; onChange may be nil.
func NewLoader(assetBase, path string, registry *Registry, fetch Fetcher, onChange func(State)) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		registry: registry,
		fetch:    fetch,
		onChange: onChange,
		state:    NewState(assetBase, path),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the first load attempt. Call once, when the card mounts.
func (l *Loader) Start() { l.apply(Mounted{}) }

// Retry is the manual retry affordance: it resets the retry budget and
// restarts a failed card.
func (l *Loader) Retry() { l.apply(RetryRequested{}) }

// Stop cancels any pending retry timer and in-flight fetch. No state
// update is delivered after Stop returns; call when the card unmounts.
func (l *Loader) Stop() {
	l.mu.Lock()
	l.stopped = true
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.mu.Unlock()
	l.cancel()
}

// State returns a snapshot of the card's current load state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loader) apply(ev Event) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	next, effects := Step(l.state, ev, l.registry)
	l.state = next
	l.mu.Unlock()

	if l.onChange != nil {
		l.onChange(next)
	}
	for _, eff := range effects {
		l.run(eff)
	}
}

func (l *Loader) run(eff Effect) {
	switch eff := eff.(type) {
	case FetchImage:
		go func() {
			if err := l.fetch(l.ctx, eff.URL); err != nil {
				l.apply(LoadFailed{At: time.Now()})
				return
			}
			l.apply(LoadSucceeded{})
		}()
	case ScheduleRetry:
		l.mu.Lock()
		if !l.stopped {
			l.timer = time.AfterFunc(eff.Delay, func() {
				l.apply(RetryTimerFired{})
			})
		}
		l.mu.Unlock()
	case MarkFailed:
		l.registry.RecordFailure(eff.URL)
	case MarkHealthy:
		l.registry.RecordSuccess(eff.URL)
	}
}

// HTTPFetcher builds a Fetcher that GETs the URL and confirms the body
// decodes as an image, so a 200 with an HTML error page still counts
// as a failure.
func HTTPFetcher(client *http.Client) Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, url string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("image fetch: unexpected status %d", resp.StatusCode)
		}
		if _, _, err := image.Decode(resp.Body); err != nil {
			return fmt.Errorf("image decode: %w", err)
		}
		return nil
	}
}
