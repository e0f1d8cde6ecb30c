package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/workshop-ledger/internal/model"
	"github.com/Veraticus/workshop-ledger/internal/sheets"
	"github.com/Veraticus/workshop-ledger/internal/storage"
	"github.com/Veraticus/workshop-ledger/internal/testutil"
)

const w1Body = `[["Name","Phone","Payment Status","Amount"],["Asha","9990001111","Yes","1500"],["Ravi","9990002222","pending","0"],["","","",""]]`

func setupIntegration(t *testing.T, handler http.HandlerFunc) (*Syncer, *storage.SQLiteStorage, *model.Workshop) {
	t.Helper()

	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
		Workshops: []model.Workshop{{Title: "Clay basics", SheetURL: w1Sheet}},
	})
	store, workshop := db.Storage, db.Workshops[0]

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	fetcher, err := sheets.NewProxyFetcher(sheets.Config{ProxyEndpoint: server.URL + "/api/gsheet"}, nil)
	require.NoError(t, err)

	return NewSyncer(fetcher, store, nil, nil), store, workshop
}

func TestIntegration_ResyncIsIdempotent(t *testing.T) {
	syncer, store, workshop := setupIntegration(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, w1Sheet, r.URL.Query().Get("url"))
		_, _ = w.Write([]byte(w1Body))
	})
	ctx := context.Background()

	for range 2 {
		result, err := syncer.SyncWorkshop(ctx, workshop.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Succeeded)
	}

	registrations, err := store.GetRegistrations(ctx, workshop.ID)
	require.NoError(t, err)
	require.Len(t, registrations, 2)

	assert.Equal(t, 2, registrations[0].RawRowIndex)
	assert.Equal(t, "Asha", *registrations[0].FullName)
	assert.Equal(t, "paid", *registrations[0].PaymentConfirmed)
	assert.Equal(t, 1500.0, registrations[0].AmountRs)
	assert.Equal(t, 3, registrations[1].RawRowIndex)
	assert.Equal(t, "unpaid", *registrations[1].PaymentConfirmed)

	stored, err := store.GetWorkshop(ctx, workshop.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastSyncedAt)
}

func TestIntegration_BadGateway(t *testing.T) {
	syncer, store, workshop := setupIntegration(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("Bad Gateway"))
	})
	ctx := context.Background()

	_, err := syncer.SyncWorkshop(ctx, workshop.ID)

	var fetchErr *sheets.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusBadGateway, fetchErr.StatusCode)
	assert.Equal(t, "Bad Gateway", fetchErr.Snippet)

	registrations, err := store.GetRegistrations(ctx, workshop.ID)
	require.NoError(t, err)
	assert.Empty(t, registrations)
}

func TestIntegration_HTMLErrorPage(t *testing.T) {
	syncer, store, workshop := setupIntegration(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<!DOCTYPE html><html><body><div>Sorry, unable to open the file at this time.</div></body></html>"))
	})
	ctx := context.Background()

	_, err := syncer.SyncWorkshop(ctx, workshop.ID)

	var malformed *sheets.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "Sorry, unable to open the file at this time.", malformed.Text)

	registrations, err := store.GetRegistrations(ctx, workshop.ID)
	require.NoError(t, err)
	assert.Empty(t, registrations)
}
