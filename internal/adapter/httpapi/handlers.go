package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/joris-vdw/StyleCast/internal/domain/chat"
	"github.com/joris-vdw/StyleCast/internal/domain/outfit"
	"github.com/joris-vdw/StyleCast/internal/domain/wardrobe"
	"github.com/joris-vdw/StyleCast/internal/domain/weather"
	"github.com/joris-vdw/StyleCast/internal/service"
)

// Handlers bundles the services the REST surface dispatches to.
type Handlers struct {
	Stylist  *service.StylistService
	Wardrobe *service.WardrobeService
	Weather  *service.WeatherService
	Logger   *slog.Logger
}

type chatRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id,omitempty"`
}

type chatResponse struct {
	ThreadID     string            `json:"thread_id"`
	Action       chat.Action       `json:"action"`
	Reply        string            `json:"reply"`
	ResponseType string            `json:"response_type,omitempty"`
	Confidence   float64           `json:"confidence,omitempty"`
	Suggestions  []string          `json:"suggestions,omitempty"`
	Location     string            `json:"location,omitempty"`
	Weather      *weather.Snapshot `json:"weather,omitempty"`
	Analysis     *weather.Analysis `json:"analysis,omitempty"`
	Outfit       *outfit.Outfit    `json:"outfit,omitempty"`
	Errors       []chat.StageError `json:"errors,omitempty"`
}

func (h *Handlers) handleChat(w http.ResponseWriter, r *http.Request) {
	req, err := readJSON[chatRequest](w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	state := h.Stylist.ProcessRequest(r.Context(), req.Message, req.ThreadID)

	resp := chatResponse{
		ThreadID: state.ThreadID,
		Action:   state.Action,
		Reply:    state.ReplyText(),
		Location: state.Location,
		Weather:  state.Weather,
		Analysis: state.Analysis,
		Outfit:   state.Outfit,
		Errors:   state.Errors,
	}
	if state.Reply != nil {
		resp.ResponseType = state.Reply.ResponseType
		resp.Confidence = state.Reply.Confidence
		resp.Suggestions = state.Reply.Suggestions
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	history := h.Stylist.History(threadID)
	writeJSON(w, http.StatusOK, map[string]any{
		"thread_id": threadID,
		"exchanges": history,
	})
}

func (h *Handlers) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Wardrobe.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handlers) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	req, err := readJSON[wardrobe.CreateRequest](w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.Wardrobe.Add(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handlers) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "itemID")
	deleted, err := h.Wardrobe.Remove(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) handleClearItems(w http.ResponseWriter, r *http.Request) {
	if err := h.Wardrobe.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Wardrobe.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.Wardrobe.Search(r.Context(), query, category, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handlers) handleSeed(w http.ResponseWriter, r *http.Request) {
	added, err := h.Wardrobe.SeedStarter(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"added": added})
}

func (h *Handlers) handleWeather(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		writeError(w, http.StatusBadRequest, "location query parameter is required")
		return
	}

	snap, err := h.Weather.Fetch(r.Context(), location)
	if err != nil {
		if errors.Is(err, weather.ErrLocationNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.Error("weather fetch failed", "location", location, "error", err)
		writeError(w, http.StatusBadGateway, "weather provider unavailable")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
