package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gourmetmap/pkg/gourmet"
)

const testPassword = "kaiware"

func f(v float64) *float64 { return &v }

func seedImage() gourmet.TableImage {
	return gourmet.TableImage{
		{Name: "Gyoza Center", Genre: "chinese", Area: "north-exit", Rating: 4, Note: "good gyoza", CreatedAt: "2026-01-10 12:00"},
		{Name: "Dandelion Bakery", Genre: "cafe", Area: "south-exit", Rating: 5, Address: "Shibasaki-cho", CreatedAt: "2026-02-01 09:30"},
		{Name: "Ramen Tatsu", Genre: "ramen", Area: "station-inner", Rating: 3, CreatedAt: "2026-03-15 18:45", Latitude: f(35.698), Longitude: f(139.413)},
	}
}

func newTestServer(store *mockStore, geocoder *mockGeocoder) http.Handler {
	return GetRouter(New(store, geocoder, testPassword))
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-App-Password", testPassword)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) *gourmet.View {
	t.Helper()
	var view gourmet.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return &view
}

func TestPasswordGate(t *testing.T) {
	store := &mockStore{Values: gourmet.Denormalize(seedImage())}
	h := newTestServer(store, &mockGeocoder{})

	req := httptest.NewRequest(http.MethodGet, "/venues", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req.Header.Set("X-App-Password", "wrong")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, h, http.MethodGet, "/venues", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetVenues(t *testing.T) {
	store := &mockStore{Values: gourmet.Denormalize(seedImage())}
	h := newTestServer(store, &mockGeocoder{})

	w := doJSON(t, h, http.MethodGet, "/venues", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeView(t, w)
	require.Len(t, view.Rows, 3)
	assert.False(t, view.Rows[0].Delete)

	w = doJSON(t, h, http.MethodGet, "/venues?q=gyoza", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeView(t, w)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Gyoza Center", view.Rows[0].Name)
	assert.Equal(t, "gyoza", view.Query)
}

func TestCommitEndToEnd(t *testing.T) {
	store := &mockStore{Values: gourmet.Denormalize(seedImage())}
	h := newTestServer(store, &mockGeocoder{})

	// Filter matches 1 of 3 rows; committing with that filter active is
	// rejected and all 3 rows are still present on reload.
	filtered := decodeView(t, doJSON(t, h, http.MethodGet, "/venues?q=gyoza", nil))
	require.Len(t, filtered.Rows, 1)

	w := doJSON(t, h, http.MethodPost, "/venues/commit", filtered)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "filter_active")
	assert.Empty(t, store.OverwriteCalls)

	reload := decodeView(t, doJSON(t, h, http.MethodGet, "/venues", nil))
	require.Len(t, reload.Rows, 3)

	// Clear the filter, flag one row for deletion, commit: reload yields 2
	// rows, remaining rows unchanged and in original relative order.
	reload.Rows[1].Delete = true
	w = doJSON(t, h, http.MethodPost, "/venues/commit", reload)
	require.Equal(t, http.StatusOK, w.Code)

	after := decodeView(t, doJSON(t, h, http.MethodGet, "/venues", nil))
	require.Len(t, after.Rows, 2)
	assert.Equal(t, "Gyoza Center", after.Rows[0].Name)
	assert.Equal(t, "Ramen Tatsu", after.Rows[1].Name)
}

func TestCommitValidationRejected(t *testing.T) {
	store := &mockStore{Values: gourmet.Denormalize(seedImage())}
	h := newTestServer(store, &mockGeocoder{})

	view := decodeView(t, doJSON(t, h, http.MethodGet, "/venues", nil))
	view.Rows[0].Rating = 6
	w := doJSON(t, h, http.MethodPost, "/venues/commit", view)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.OverwriteCalls)
}

func TestCommitStoreFault(t *testing.T) {
	store := &mockStore{Values: gourmet.Denormalize(seedImage())}
	store.OverwriteErr = &gourmet.StoreError{Op: "overwrite", Err: assert.AnError}
	h := newTestServer(store, &mockGeocoder{})

	view := decodeView(t, doJSON(t, h, http.MethodGet, "/venues", nil))
	w := doJSON(t, h, http.MethodPost, "/venues/commit", view)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestPostVenue(t *testing.T) {
	store := &mockStore{Values: gourmet.Denormalize(seedImage())}
	geocoder := &mockGeocoder{}
	h := newTestServer(store, geocoder)

	w := doJSON(t, h, http.MethodPost, "/venues", gourmet.FormInput{
		Name: "Cafe Hana", Genre: "cafe", Area: "green-springs", Rating: 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.AppendCalls, 1)
	// No address: the geocoder is never consulted.
	assert.Empty(t, geocoder.Calls)

	var result gourmet.AppendResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Cafe Hana", result.Record.Name)
	assert.NotEmpty(t, result.Record.CreatedAt)
}

func TestPostVenueGeocoded(t *testing.T) {
	store := &mockStore{Values: gourmet.Denormalize(seedImage())}
	geocoder := &mockGeocoder{
		ResolveFunc: func(_ context.Context, address string) (*gourmet.Location, error) {
			return &gourmet.Location{Latitude: 35.7, Longitude: 139.41, Label: "Akebono-cho, Tachikawa"}, nil
		},
	}
	h := newTestServer(store, geocoder)

	w := doJSON(t, h, http.MethodPost, "/venues", gourmet.FormInput{
		Name: "Gyoza Annex", Genre: "chinese", Area: "north-exit", Rating: 4, Address: "Akebono-cho 2-1-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var result gourmet.AppendResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Akebono-cho, Tachikawa", result.ResolvedLabel)
	require.True(t, result.Record.HasCoordinates())
}

func TestPostVenueEmptyName(t *testing.T) {
	store := &mockStore{Values: gourmet.Denormalize(seedImage())}
	h := newTestServer(store, &mockGeocoder{})

	w := doJSON(t, h, http.MethodPost, "/venues", gourmet.FormInput{Genre: "cafe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.AppendCalls)
}

func TestGetMap(t *testing.T) {
	store := &mockStore{Values: gourmet.Denormalize(seedImage())}
	h := newTestServer(store, &mockGeocoder{})

	w := doJSON(t, h, http.MethodGet, "/map", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Markers []Marker `json:"markers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	// Only the row with both coordinates gets a marker.
	require.Len(t, payload.Markers, 1)
	m := payload.Markers[0]
	assert.Equal(t, "Ramen Tatsu", m.Name)
	assert.InDelta(t, 35.698, m.Latitude, 1e-9)
	assert.Contains(t, m.MapsURL, "35.698,139.413")
}
