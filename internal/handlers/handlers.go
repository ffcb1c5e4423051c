package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dconn.dev/hexboard/internal/codec"
	"dconn.dev/hexboard/internal/config"
	"dconn.dev/hexboard/internal/generation"
	"dconn.dev/hexboard/internal/middleware"
	"dconn.dev/hexboard/internal/persistence"
	"dconn.dev/hexboard/internal/render"
	"dconn.dev/hexboard/internal/services"
)

// SetupRoutes configures all routes and returns the router
func SetupRoutes(cfg *config.Config, svc *services.BoardService) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)

	renderer := render.NewRenderer(cfg.Render.Width, cfg.Render.Height)

	sessionHandler := NewSessionHandler(svc, renderer, cfg.Server.PublicURL)
	boardHandler := NewBoardHandler(svc, renderer)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/maps", boardHandler.ListMaps)

		r.Post("/sessions", sessionHandler.CreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Post("/generate", sessionHandler.Generate)
			r.Post("/back", sessionHandler.Back)
			r.Post("/forward", sessionHandler.Forward)
			r.Get("/board.png", sessionHandler.BoardPNG)
			r.Post("/share", sessionHandler.Share)
		})

		r.Get("/boards/decode", boardHandler.Decode)

		r.Get("/shares", boardHandler.ListShares)
		r.Get("/shares/{slug}", boardHandler.GetShare)

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := svc.Ping(r.Context()); err != nil {
				slog.Error("health check failed", "error", err)
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	r.Get("/board.png", boardHandler.PreviewPNG)

	return r
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding JSON", "error", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondErr maps a service error to its status code
func respondErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	respondError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, persistence.ErrShareNotFound):
		return http.StatusNotFound
	case errors.Is(err, codec.ErrDecode),
		errors.Is(err, services.ErrUnknownMap):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoBoard):
		return http.StatusConflict
	case errors.Is(err, generation.ErrNoDefinition),
		errors.Is(err, generation.ErrInvalidDefinition),
		errors.Is(err, generation.ErrPlacementExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrSharingDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// parseIntParam parses an integer query parameter with a default value
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// clamp limits a value to a range
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// writePNG renders tiles with the requested width and height, clamped to
// sensible bounds
func writePNG(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, tiles []generation.TileState, extent generation.Bounds) {
	defW, defH := renderer.Size()
	width := clamp(parseIntParam(r, "width", defW), 100, 2000)
	height := clamp(parseIntParam(r, "height", defH), 100, 2000)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := renderer.PNG(w, tiles, extent, width, height); err != nil {
		slog.Error("rendering board", "error", err)
	}
}
