package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetRouter initialises a new http router and applies all routes
func GetRouter(a *API) http.Handler {
	r := chi.NewRouter()
	return applyRoutes(r, a)
}

func applyRoutes(r chi.Router, a *API) chi.Router {
	r.Route("/", func(r chi.Router) {
		r.Use(a.requirePassword)
		r.Get("/venues", a.getVenues)
		r.Post("/venues", a.postVenue)
		r.Post("/venues/commit", a.postCommit)
		r.Get("/map", a.getMap)
	})

	return r
}
