package imageload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestLoaderSuccess(t *testing.T) {
	reg := NewRegistry()
	fetch := func(ctx context.Context, url string) error { return nil }

	l := NewLoader("http://host/storage", "a.png", reg, fetch, nil)
	l.Start()

	waitFor(t, func() bool { return l.State().Phase == PhaseLoaded })
	assert.False(t, reg.HasFailed("http://host/storage/a.png"))
}

func TestLoaderWithoutImagePathNeverFetches(t *testing.T) {
	var calls atomic.Int32
	fetch := func(ctx context.Context, url string) error {
		calls.Add(1)
		return nil
	}

	l := NewLoader("http://host/storage", "", NewRegistry(), fetch, nil)
	l.Start()

	assert.Equal(t, PhaseFailed, l.State().Phase)
	assert.Equal(t, int32(0), calls.Load())
}

func TestLoaderStopSuppressesUpdates(t *testing.T) {
	release := make(chan struct{})
	fetch := func(ctx context.Context, url string) error {
		<-release
		return nil
	}

	l := NewLoader("http://host/storage", "a.png", NewRegistry(), fetch, nil)
	l.Start()
	require.Equal(t, PhaseLoading, l.State().Phase)

	l.Stop()
	close(release)

	// The fetch resolved after Stop; the state must not move.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, PhaseLoading, l.State().Phase)
}

func TestLoaderRecordsFailureInSharedRegistry(t *testing.T) {
	reg := NewRegistry()
	fetch := func(ctx context.Context, url string) error { return errors.New("boom") }

	l := NewLoader("http://host/storage", "a.png", reg, fetch, nil)
	l.Start()

	waitFor(t, func() bool { return reg.HasFailed("http://host/storage/a.png") })
	l.Stop()

	// A sibling card for the same URL fails without a fetch.
	var calls atomic.Int32
	counting := func(ctx context.Context, url string) error {
		calls.Add(1)
		return nil
	}
	sibling := NewLoader("http://host/storage", "a.png", reg, counting, nil)
	sibling.Start()

	assert.Equal(t, PhaseFailed, sibling.State().Phase)
	assert.Equal(t, int32(0), calls.Load())
}

func TestHTTPFetcherDecodesRealImages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(buf.Bytes())
		case "/garbage.png":
			_, _ = w.Write([]byte("<html>not an image</html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	fetch := HTTPFetcher(srv.Client())

	assert.NoError(t, fetch(context.Background(), srv.URL+"/ok.png"))
	assert.Error(t, fetch(context.Background(), srv.URL+"/garbage.png"))
	assert.Error(t, fetch(context.Background(), srv.URL+"/missing.png"))
}
