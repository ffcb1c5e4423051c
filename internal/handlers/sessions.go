package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dconn.dev/hexboard/internal/models"
	"dconn.dev/hexboard/internal/render"
	"dconn.dev/hexboard/internal/services"
)

// SessionHandler handles session endpoints
type SessionHandler struct {
	boardService *services.BoardService
	renderer     *render.Renderer
	publicURL    string
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(bs *services.BoardService, renderer *render.Renderer, publicURL string) *SessionHandler {
	return &SessionHandler{boardService: bs, renderer: renderer, publicURL: publicURL}
}

// CreateSession handles POST /api/sessions?map=&board=
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sess, err := h.boardService.CreateSession(q.Get("map"), q.Get("board"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.response(sess))
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.boardService.Session(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.response(sess))
}

// Generate handles POST /api/sessions/{id}/generate?map=
func (h *SessionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	sess, err := h.boardService.Regenerate(chi.URLParam(r, "id"), r.URL.Query().Get("map"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.response(sess))
}

// Back handles POST /api/sessions/{id}/back
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, (*services.Session).GoBack)
}

// Forward handles POST /api/sessions/{id}/forward
func (h *SessionHandler) Forward(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, (*services.Session).GoForward)
}

// navigate moves through history. Moving past either end is not an error;
// the unchanged state is returned.
func (h *SessionHandler) navigate(w http.ResponseWriter, r *http.Request, move func(*services.Session) bool) {
	sess, err := h.boardService.Session(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	move(sess)
	respondJSON(w, http.StatusOK, h.response(sess))
}

// BoardPNG handles GET /api/sessions/{id}/board.png
func (h *SessionHandler) BoardPNG(w http.ResponseWriter, r *http.Request) {
	sess, err := h.boardService.Session(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	st := sess.State()
	if len(st.Tiles) == 0 {
		respondErr(w, services.ErrNoBoard)
		return
	}
	writePNG(w, r, h.renderer, st.Tiles, st.Extent)
}

// Share handles POST /api/sessions/{id}/share
func (h *SessionHandler) Share(w http.ResponseWriter, r *http.Request) {
	share, err := h.boardService.Share(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, shareResponse(h.boardService, share))
}

func (h *SessionHandler) response(sess *services.Session) models.SessionResponse {
	st := sess.State()
	resp := models.SessionResponse{
		ID:            st.ID,
		Map:           st.MapName,
		Tiles:         models.NewTiles(st.Tiles),
		Extent:        st.Extent,
		Code:          st.Code,
		CanGoBack:     st.CanGoBack,
		CanGoForward:  st.CanGoForward,
		HistoryLength: st.HistoryLen,
		HistoryIndex:  st.HistoryIndex,
	}
	if st.Code != "" {
		link, err := h.boardService.ShareURL(st.Code)
		if err != nil {
			slog.Warn("building share url", "public_url", h.publicURL, "error", err)
		}
		resp.ShareURL = link
	}
	return resp
}
