package gacha

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrolucas/crimson/internal/httpx"
	"github.com/pedrolucas/crimson/internal/models"
)

type fakeItemAPI struct {
	items []models.GachaItem
	err   error

	listCalls   int
	createCalls int
	updateCalls int
	removeCalls int
	removedID   int
}

func (f *fakeItemAPI) List(context.Context) ([]models.GachaItem, error) {
	f.listCalls++
	return f.items, f.err
}

func (f *fakeItemAPI) Create(context.Context, models.GachaItem, *models.ImageAsset) error {
	f.createCalls++
	return f.err
}

func (f *fakeItemAPI) Update(context.Context, int, models.GachaItem) error {
	f.updateCalls++
	return f.err
}

func (f *fakeItemAPI) Remove(_ context.Context, id int) error {
	f.removeCalls++
	f.removedID = id
	return f.err
}

type fakeSession struct {
	token   string
	err     error
	cleared bool
}

func (f *fakeSession) Token() (string, error) { return f.token, f.err }
func (f *fakeSession) Save(t string) error    { f.token = t; return nil }
func (f *fakeSession) Clear() error           { f.cleared = true; f.token = ""; return nil }

func TestListWithoutTokenSkipsNetwork(t *testing.T) {
	api := &fakeItemAPI{}
	ctl := NewController(api, &fakeSession{})

	err := ctl.List(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, api.listCalls)
}

func TestUnauthorizedClearsTokenAndExpiresSession(t *testing.T) {
	api := &fakeItemAPI{err: &httpx.APIError{Status: 401, Message: "Unauthenticated."}}
	sess := &fakeSession{token: "stale"}
	ctl := NewController(api, sess)

	err := ctl.List(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, sess.cleared)
	assert.Empty(t, sess.token)
}

func TestListCachesItems(t *testing.T) {
	api := &fakeItemAPI{items: []models.GachaItem{
		{ID: 7, Name: "Wriothesley"},
		{ID: 9, Name: "Poco"},
	}}
	ctl := NewController(api, &fakeSession{token: "tok"})

	require.NoError(t, ctl.List(context.Background()))
	items := ctl.Items()
	require.Len(t, items, 2)

	// Items hands out a copy, not the cache itself.
	items[0].Name = "mutated"
	assert.Equal(t, "Wriothesley", ctl.Items()[0].Name)
}

func TestRemoveDropsFromCacheWithoutRefetch(t *testing.T) {
	api := &fakeItemAPI{items: []models.GachaItem{
		{ID: 7, Name: "Wriothesley"},
		{ID: 9, Name: "Poco"},
	}}
	ctl := NewController(api, &fakeSession{token: "tok"})
	require.NoError(t, ctl.List(context.Background()))

	require.NoError(t, ctl.Remove(context.Background(), 7))

	assert.Equal(t, 7, api.removedID)
	assert.Equal(t, 1, api.listCalls)
	items := ctl.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 9, items[0].ID)
}

func TestCreateValidationFailureSkipsNetwork(t *testing.T) {
	api := &fakeItemAPI{}
	ctl := NewController(api, &fakeSession{token: "tok"})

	err := ctl.Create(context.Background(), Form{DropRateText: "0.5"}, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "nome", verr.Field)
	assert.Zero(t, api.createCalls)
}

func TestUpdateValidationRunsBeforeTokenCheck(t *testing.T) {
	api := &fakeItemAPI{}
	ctl := NewController(api, &fakeSession{})

	err := ctl.Update(context.Background(), 7, Form{Name: "Poco", DropRateText: "0"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "taxa_drop", verr.Field)
}

func TestNonAuthErrorsPassThrough(t *testing.T) {
	wire := errors.New("boom")
	api := &fakeItemAPI{err: wire}
	ctl := NewController(api, &fakeSession{token: "tok"})

	err := ctl.List(context.Background())
	assert.ErrorIs(t, err, wire)
}
