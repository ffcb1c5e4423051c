package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"dconn.dev/hexboard/internal/codec"
	"dconn.dev/hexboard/internal/models"
	"dconn.dev/hexboard/internal/persistence"
	"dconn.dev/hexboard/internal/render"
	"dconn.dev/hexboard/internal/services"
)

// BoardHandler handles map listing, decoding and share lookups
type BoardHandler struct {
	boardService *services.BoardService
	renderer     *render.Renderer
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(bs *services.BoardService, renderer *render.Renderer) *BoardHandler {
	return &BoardHandler{boardService: bs, renderer: renderer}
}

// ListMaps handles GET /api/maps
func (h *BoardHandler) ListMaps(w http.ResponseWriter, r *http.Request) {
	defs := h.boardService.Catalog().All()
	maps := make([]models.MapInfo, len(defs))
	for i, def := range defs {
		maps[i] = models.NewMapInfo(def)
	}
	respondJSON(w, http.StatusOK, maps)
}

// Decode handles GET /api/boards/decode?board=&format=compact|legacy
func (h *BoardHandler) Decode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := strings.ToLower(q.Get("format"))
	if format != "" && format != "compact" && format != "legacy" {
		respondError(w, http.StatusBadRequest, "format must be compact or legacy")
		return
	}

	decoded, err := h.boardService.Decode(q.Get("board"), format == "legacy")
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, decodeResponse(decoded))
}

// PreviewPNG handles GET /board.png?board= or ?map=
func (h *BoardHandler) PreviewPNG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	preview, err := h.boardService.Preview(q.Get("map"), q.Get("board"))
	if err != nil {
		respondErr(w, err)
		return
	}
	writePNG(w, r, h.renderer, preview.Tiles, preview.Extent)
}

// ListShares handles GET /api/shares?limit=
func (h *BoardHandler) ListShares(w http.ResponseWriter, r *http.Request) {
	limit := clamp(parseIntParam(r, "limit", 20), 1, 100)
	shares, err := h.boardService.RecentShares(r.Context(), limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	out := make([]models.ShareResponse, len(shares))
	for i := range shares {
		out[i] = shareResponse(h.boardService, &shares[i])
	}
	respondJSON(w, http.StatusOK, out)
}

// GetShare handles GET /api/shares/{slug}
func (h *BoardHandler) GetShare(w http.ResponseWriter, r *http.Request) {
	share, err := h.boardService.GetShare(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, shareResponse(h.boardService, share))
}

func decodeResponse(d *services.DecodedBoard) models.DecodeResponse {
	return models.DecodeResponse{
		Map:    d.MapName,
		Tiles:  models.NewTiles(d.Tiles),
		Extent: d.Extent,
		Fair:   d.Fair,
		Code:   codec.EncodeCompact(d.Tiles),
	}
}

func shareResponse(bs *services.BoardService, s *persistence.Share) models.ShareResponse {
	link, err := bs.ShareURL(s.Code)
	if err != nil {
		slog.Warn("building share url", "slug", s.Slug, "error", err)
	}
	created := s.Created()
	return models.ShareResponse{
		Slug:      s.Slug,
		Code:      s.Code,
		Map:       s.MapName,
		Tiles:     s.Tiles,
		URL:       link,
		CreatedAt: created.UTC().Format(time.RFC3339),
		Age:       humanize.Time(created),
	}
}
