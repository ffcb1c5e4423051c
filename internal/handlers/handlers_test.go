package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"dconn.dev/hexboard/internal/codec"
	"dconn.dev/hexboard/internal/config"
	"dconn.dev/hexboard/internal/generation"
	"dconn.dev/hexboard/internal/models"
	"dconn.dev/hexboard/internal/persistence"
	"dconn.dev/hexboard/internal/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.PublicURL = "https://boards.example/"

	db, err := persistence.Open(context.Background(), filepath.Join(t.TempDir(), "shares.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := services.NewBoardService(generation.NewCatalog(), db, services.Options{PublicURL: cfg.Server.PublicURL})
	srv := httptest.NewServer(SetupRoutes(cfg, svc))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, target string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decoding body: %v", method, target, err)
		}
	}
	return resp.StatusCode
}

func TestHealthAndMaps(t *testing.T) {
	srv := newTestServer(t)

	var health map[string]string
	if code := do(t, http.MethodGet, srv.URL+"/api/health", &health); code != http.StatusOK || health["status"] != "ok" {
		t.Fatalf("health: %d %v", code, health)
	}

	var maps []models.MapInfo
	if code := do(t, http.MethodGet, srv.URL+"/api/maps", &maps); code != http.StatusOK {
		t.Fatalf("maps: %d", code)
	}
	if len(maps) != 2 || maps[0].Name != "standard" || maps[1].Tiles != 30 {
		t.Fatalf("unexpected maps %+v", maps)
	}
	if maps[0].Resources["desert"] != 1 || maps[0].Numbers[12] != 1 {
		t.Fatalf("standard quotas wrong: %+v", maps[0])
	}
}

func TestHealthReportsClosedStore(t *testing.T) {
	db, err := persistence.Open(context.Background(), filepath.Join(t.TempDir(), "shares.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	db.Close()

	svc := services.NewBoardService(generation.NewCatalog(), db, services.Options{})
	srv := httptest.NewServer(SetupRoutes(config.Default(), svc))
	defer srv.Close()

	var health map[string]string
	if code := do(t, http.MethodGet, srv.URL+"/api/health", &health); code != http.StatusServiceUnavailable || health["status"] != "unavailable" {
		t.Fatalf("health: %d %v", code, health)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var s models.SessionResponse
	if code := do(t, http.MethodPost, srv.URL+"/api/sessions", &s); code != http.StatusCreated {
		t.Fatalf("create: %d", code)
	}
	if s.ID == "" || s.Map != "standard" || len(s.Tiles) != 19 || s.HistoryLength != 1 {
		t.Fatalf("unexpected session %+v", s)
	}
	if s.CanGoBack || s.CanGoForward {
		t.Fatalf("new session should not navigate")
	}
	link, err := url.Parse(s.ShareURL)
	if err != nil || link.Host != "boards.example" || link.Query().Get("board") != s.Code {
		t.Fatalf("bad share url %q", s.ShareURL)
	}
	first := s.Code

	base := srv.URL + "/api/sessions/" + s.ID
	if code := do(t, http.MethodPost, base+"/generate?map=expanded", &s); code != http.StatusOK {
		t.Fatalf("generate: %d", code)
	}
	if s.Map != "expanded" || len(s.Tiles) != 30 || !s.CanGoBack || s.HistoryIndex != 1 {
		t.Fatalf("unexpected state after generate %+v", s)
	}

	if code := do(t, http.MethodPost, base+"/back", &s); code != http.StatusOK {
		t.Fatalf("back: %d", code)
	}
	if s.Code != first || !s.CanGoForward || s.Map != "standard" {
		t.Fatalf("back did not restore the first board")
	}
	if code := do(t, http.MethodPost, base+"/back", &s); code != http.StatusOK || s.HistoryIndex != 0 {
		t.Fatalf("back at start: %d index=%d", code, s.HistoryIndex)
	}
	if code := do(t, http.MethodPost, base+"/forward", &s); code != http.StatusOK || s.HistoryIndex != 1 {
		t.Fatalf("forward: %d index=%d", code, s.HistoryIndex)
	}

	var got models.SessionResponse
	if code := do(t, http.MethodGet, base, &got); code != http.StatusOK || got.Code != s.Code {
		t.Fatalf("get: %d", code)
	}

	for _, tile := range got.Tiles {
		if tile.Resource == "desert" && tile.Number != nil {
			t.Fatalf("desert tile carries a number")
		}
		if tile.Resource != "desert" && tile.Number == nil {
			t.Fatalf("%s tile has no number", tile.Resource)
		}
		if tile.HighlyProductive != (tile.Number != nil && (*tile.Number == 6 || *tile.Number == 8)) {
			t.Fatalf("highly_productive flag wrong for %+v", tile)
		}
	}
}

func TestSessionErrors(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/sessions/missing", http.StatusNotFound},
		{http.MethodPost, "/api/sessions/missing/back", http.StatusNotFound},
		{http.MethodPost, "/api/sessions?map=atlantis", http.StatusBadRequest},
		{http.MethodPost, "/api/sessions?board=%25%25%25", http.StatusBadRequest},
		{http.MethodGet, "/api/shares/unknown", http.StatusNotFound},
		{http.MethodGet, "/api/boards/decode?board=", http.StatusBadRequest},
		{http.MethodGet, "/api/boards/decode?board=abc&format=xml", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var body map[string]string
			if code := do(t, tc.method, srv.URL+tc.path, &body); code != tc.want {
				t.Fatalf("expected %d, got %d (%v)", tc.want, code, body)
			}
			if body["error"] == "" {
				t.Fatalf("error body missing")
			}
		})
	}
}

func TestCreateFromSharedBoard(t *testing.T) {
	srv := newTestServer(t)

	board, err := generation.NewBoardGenerator(generation.ExpandedMap(), generation.NewRNG(3)).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	code := codec.EncodeCompact(board.Snapshot())

	var s models.SessionResponse
	if status := do(t, http.MethodPost, srv.URL+"/api/sessions?board="+url.QueryEscape(code), &s); status != http.StatusCreated {
		t.Fatalf("create: %d", status)
	}
	if s.Map != "expanded" || s.Code != code || s.HistoryLength != 1 {
		t.Fatalf("shared board not loaded: map=%s len=%d", s.Map, s.HistoryLength)
	}
}

func TestDecodeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	board, _ := generation.NewBoardGenerator(generation.StandardMap(), generation.NewRNG(8)).Generate()
	legacy := codec.EncodeLegacy(board.Snapshot())

	var d models.DecodeResponse
	path := fmt.Sprintf("%s/api/boards/decode?format=legacy&board=%s", srv.URL, url.QueryEscape(legacy))
	if code := do(t, http.MethodGet, path, &d); code != http.StatusOK {
		t.Fatalf("decode: %d", code)
	}
	if d.Map != "standard" || !d.Fair || len(d.Tiles) != 19 {
		t.Fatalf("unexpected decode %+v", d)
	}
	if d.Code != codec.EncodeCompact(board.Snapshot()) {
		t.Fatalf("decode should return the compact code")
	}
}

func TestShareEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var s models.SessionResponse
	do(t, http.MethodPost, srv.URL+"/api/sessions", &s)

	var share models.ShareResponse
	if code := do(t, http.MethodPost, srv.URL+"/api/sessions/"+s.ID+"/share", &share); code != http.StatusCreated {
		t.Fatalf("share: %d", code)
	}
	if share.Slug == "" || share.Code != s.Code || share.Map != "standard" || share.Age == "" {
		t.Fatalf("unexpected share %+v", share)
	}

	var got models.ShareResponse
	if code := do(t, http.MethodGet, srv.URL+"/api/shares/"+share.Slug, &got); code != http.StatusOK || got.Code != s.Code {
		t.Fatalf("get share: %d", code)
	}

	var list []models.ShareResponse
	if code := do(t, http.MethodGet, srv.URL+"/api/shares", &list); code != http.StatusOK || len(list) != 1 {
		t.Fatalf("list shares: %d %d", code, len(list))
	}
}

func TestPNGEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var s models.SessionResponse
	do(t, http.MethodPost, srv.URL+"/api/sessions?map=expanded", &s)

	paths := []string{
		"/api/sessions/" + s.ID + "/board.png?width=300&height=200",
		"/board.png?map=standard&width=300&height=200",
		"/board.png?board=" + url.QueryEscape(s.Code) + "&width=300&height=200",
		"/board.png?width=5&height=99999",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			resp, err := http.Get(srv.URL + p)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
				t.Fatalf("status %d content type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
			}
			img, err := png.Decode(resp.Body)
			if err != nil {
				t.Fatalf("not a png: %v", err)
			}
			b := img.Bounds()
			if p == paths[3] {
				if b.Dx() != 100 || b.Dy() != 2000 {
					t.Fatalf("size should be clamped, got %dx%d", b.Dx(), b.Dy())
				}
				return
			}
			if b.Dx() != 300 || b.Dy() != 200 {
				t.Fatalf("image is %dx%d", b.Dx(), b.Dy())
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrapped: %w", services.ErrSessionNotFound), http.StatusNotFound},
		{persistence.ErrShareNotFound, http.StatusNotFound},
		{codec.ErrDecode, http.StatusBadRequest},
		{generation.ErrInvalidDefinition, http.StatusUnprocessableEntity},
		{generation.ErrPlacementExhausted, http.StatusUnprocessableEntity},
		{services.ErrNoBoard, http.StatusConflict},
		{services.ErrSharingDisabled, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
