package api

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"gourmetmap/pkg/gourmet"
)

// API holds the wired core components behind the HTTP surface.
type API struct {
	store     gourmet.Store
	committer *gourmet.Committer
	appender  *gourmet.Appender
	password  string
}

func New(store gourmet.Store, geocoder gourmet.Geocoder, password string) *API {
	return &API{
		store:     store,
		committer: gourmet.NewCommitter(store),
		appender:  gourmet.NewAppender(store, geocoder),
		password:  password,
	}
}

// requirePassword gates every table operation behind the shared app
// password, checked against the X-App-Password header. An empty
// configured password disables the gate.
func (a *API) requirePassword(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.password != "" && r.Header.Get("X-App-Password") != a.password {
			sendError(w, http.StatusUnauthorized, "unauthorized", "wrong or missing password")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// getVenues loads a fresh table image and returns the optionally filtered
// editable view. The filter never mutates the table; it only narrows what
// the session sees.
func (a *API) getVenues(w http.ResponseWriter, r *http.Request) {
	values, err := a.store.ReadAll(r.Context())
	if err != nil {
		log.Errorf("load failed: %v", err)
		sendError(w, http.StatusBadGateway, "store_error", err.Error())
		return
	}
	image := gourmet.Normalize(values)
	view := gourmet.Project(image, r.URL.Query().Get("q"))
	sendJSON(w, http.StatusOK, view)
}

// postCommit consumes one edited view. Refused with 409 while a filter is
// active; the edits are applied all-or-nothing otherwise.
func (a *API) postCommit(w http.ResponseWriter, r *http.Request) {
	var view gourmet.View
	if err := json.NewDecoder(r.Body).Decode(&view); err != nil {
		sendError(w, http.StatusBadRequest, "bad_request", "malformed view payload")
		return
	}

	image, err := a.committer.Commit(r.Context(), &view)
	switch {
	case err == nil:
		sendJSON(w, http.StatusOK, map[string]interface{}{"rows": image})
	case errors.Is(err, gourmet.ErrFilterActive):
		sendError(w, http.StatusConflict, "filter_active", err.Error())
	case gourmet.IsValidation(err):
		sendError(w, http.StatusBadRequest, "validation", err.Error())
	default:
		log.Errorf("commit failed: %v", err)
		sendError(w, http.StatusBadGateway, "store_error", err.Error())
	}
}

// postVenue registers one new venue via the append primitive.
func (a *API) postVenue(w http.ResponseWriter, r *http.Request) {
	var in gourmet.FormInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		sendError(w, http.StatusBadRequest, "bad_request", "malformed form payload")
		return
	}

	result, err := a.appender.Append(r.Context(), in)
	switch {
	case err == nil:
		sendJSON(w, http.StatusCreated, result)
	case gourmet.IsValidation(err):
		sendError(w, http.StatusBadRequest, "validation", err.Error())
	default:
		log.Errorf("append failed: %v", err)
		sendError(w, http.StatusBadGateway, "store_error", err.Error())
	}
}

// getMap returns one marker per venue with coordinates.
func (a *API) getMap(w http.ResponseWriter, r *http.Request) {
	values, err := a.store.ReadAll(r.Context())
	if err != nil {
		log.Errorf("load failed: %v", err)
		sendError(w, http.StatusBadGateway, "store_error", err.Error())
		return
	}
	image := gourmet.Normalize(values)
	markers := []Marker{}
	for i := range image {
		if m, ok := markerFor(&image[i]); ok {
			markers = append(markers, m)
		}
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"markers": markers})
}

func sendJSON(w http.ResponseWriter, status int, body interface{}) {
	b, err := json.Marshal(body)
	if err != nil {
		log.Errorf("marshalling response: %v", err)
		sendResponse(w, http.StatusInternalServerError, []byte(`{"error":"internal"}`))
		return
	}
	sendResponse(w, status, b)
}

func sendError(w http.ResponseWriter, status int, code, message string) {
	sendJSON(w, status, map[string]string{"code": code, "error": message})
}

func sendResponse(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
