package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches the REST API under /api/v1.
func (h *Handlers) MountRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", h.handleChat)
		r.Get("/chat/{threadID}/history", h.handleChatHistory)

		r.Route("/wardrobe", func(r chi.Router) {
			r.Get("/items", h.handleListItems)
			r.Post("/items", h.handleCreateItem)
			r.Delete("/items", h.handleClearItems)
			r.Delete("/items/{itemID}", h.handleDeleteItem)
			r.Get("/stats", h.handleStats)
			r.Get("/search", h.handleSearch)
			r.Post("/seed", h.handleSeed)
		})

		r.Get("/weather", h.handleWeather)
	})
}

// Health reports process liveness.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
