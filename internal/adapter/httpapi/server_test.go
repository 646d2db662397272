package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jalmitra/groundwater-advisory/internal/advisory"
	"github.com/jalmitra/groundwater-advisory/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- stubs ---

type stubResolver struct {
	resolution domain.Resolution
	textErr    error
	matches    []domain.Match
	coordErr   error
	readyErr   error
	textCalls  int
	coordCalls int
	lastQuery  string
	lastLat    float64
	lastLon    float64
}

func (s *stubResolver) ResolveText(_ context.Context, query string, lat, lon float64) (domain.Resolution, error) {
	s.textCalls++
	s.lastQuery = query
	s.lastLat = lat
	s.lastLon = lon
	return s.resolution, s.textErr
}

func (s *stubResolver) ResolveCoordinates(_ context.Context, lat, lon, _ float64) ([]domain.Match, error) {
	s.coordCalls++
	s.lastLat = lat
	s.lastLon = lon
	return s.matches, s.coordErr
}

func (s *stubResolver) CheckReadiness(_ context.Context) error { return s.readyErr }

type stubAdvisor struct {
	insights advisory.Insights
	language string
}

func (s *stubAdvisor) Generate(_ context.Context, _ domain.Block, language string) advisory.Insights {
	s.language = language
	return s.insights
}

type stubSynthesizer struct {
	id    string
	err   error
	path  string
	found bool
}

func (s *stubSynthesizer) Synthesize(_ context.Context, _, _ string) (string, error) {
	return s.id, s.err
}

func (s *stubSynthesizer) Lookup(_ string) (string, bool) { return s.path, s.found }

type stubAudit struct {
	mu       sync.Mutex
	events   int
	language string
	done     chan struct{}
}

func (s *stubAudit) PublishResolution(_ context.Context, _ domain.Resolution, language string) error {
	s.mu.Lock()
	s.events++
	s.language = language
	s.mu.Unlock()
	if s.done != nil {
		close(s.done)
	}
	return nil
}

func matchedResolution() domain.Resolution {
	return domain.Resolution{
		Block: domain.Block{
			ID: 7, BlockName: "Block 3", District: "Ludhiana District", State: "Punjab",
			RiskLevel: domain.RiskYellow, DepthToWater: 14.2,
		},
		Query:           "ludhiana block 3",
		MatchedLocation: "Block 3, Ludhiana District",
		ConfidenceScore: 0.82,
		Strategy:        domain.StrategyFuzzy,
		ResolvedAt:      time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC),
	}
}

func newTestServer(resolver Resolver, advisor AdvisoryGenerator, tts Synthesizer, audit AuditSink) *Server {
	return NewServer(":0", resolver, advisor, tts, audit, "hi", discardLogger())
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (envelope, map[string]any) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	data, _ := env.Data.(map[string]any)
	return env, data
}

// --- water level ---

func TestWaterLevel_TextMatch(t *testing.T) {
	resolver := &stubResolver{resolution: matchedResolution()}
	advisor := &stubAdvisor{insights: advisory.Insights{FarmerMessage: "msg", Action: "act", Explanation: "why"}}
	s := newTestServer(resolver, advisor, nil, nil)

	rec := postJSON(t, s, "/api/water-level", map[string]any{"location": "ludhiana block 3", "language": "pa"})
	require.Equal(t, http.StatusOK, rec.Code)

	env, data := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "ludhiana block 3", data["location"])
	assert.Equal(t, "Block 3, Ludhiana District", data["matchedLocation"])
	assert.Equal(t, 0.82, data["confidenceScore"])
	assert.Equal(t, "Yellow", data["riskLevel"])
	assert.Equal(t, "msg", data["farmerMessage"])
	assert.Equal(t, "block catalog (fuzzy match)", data["dataSource"])
	assert.Equal(t, "pa", advisor.language)
	assert.Equal(t, 1, resolver.textCalls)
	assert.Zero(t, resolver.coordCalls)
}

func TestWaterLevel_DefaultLanguage(t *testing.T) {
	resolver := &stubResolver{resolution: matchedResolution()}
	advisor := &stubAdvisor{}
	s := newTestServer(resolver, advisor, nil, nil)

	rec := postJSON(t, s, "/api/water-level", map[string]any{"location": "ludhiana"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi", advisor.language)
}

func TestWaterLevel_CoordinateFallback(t *testing.T) {
	resolver := &stubResolver{
		textErr: domain.ErrNoMatch,
		matches: []domain.Match{{
			Block:      domain.Block{ID: 4, BlockName: "Block 1", District: "Jaipur District", RiskLevel: domain.RiskRed},
			Confidence: 0.9,
			DistanceKm: 4.7,
		}},
	}
	s := newTestServer(resolver, &stubAdvisor{}, nil, nil)

	rec := postJSON(t, s, "/api/water-level", map[string]any{
		"location": "unknown village", "latitude": 26.91, "longitude": 75.78,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	_, data := decodeEnvelope(t, rec)
	assert.Equal(t, "Block 1, Jaipur District", data["matchedLocation"])
	assert.Equal(t, 4.7, data["distanceKm"])
	assert.Equal(t, "block catalog (coordinate match)", data["dataSource"])
	assert.Equal(t, 1, resolver.textCalls)
	assert.Equal(t, 1, resolver.coordCalls)
}

func TestWaterLevel_CoordinatesOnly(t *testing.T) {
	resolver := &stubResolver{
		matches: []domain.Match{{Block: domain.Block{ID: 4, RiskLevel: domain.RiskRed}, Confidence: 0.9}},
	}
	s := newTestServer(resolver, &stubAdvisor{}, nil, nil)

	rec := postJSON(t, s, "/api/water-level", map[string]any{"latitude": 26.91, "longitude": 75.78})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, resolver.textCalls)
	assert.Equal(t, 1, resolver.coordCalls)
}

func TestWaterLevel_TextMatchIsAuthoritative(t *testing.T) {
	// A successful text match never consults coordinates, even valid ones.
	resolver := &stubResolver{resolution: matchedResolution()}
	s := newTestServer(resolver, &stubAdvisor{}, nil, nil)

	rec := postJSON(t, s, "/api/water-level", map[string]any{
		"location": "ludhiana", "latitude": 26.91, "longitude": 75.78,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, resolver.textCalls)
	assert.Zero(t, resolver.coordCalls)
}

func TestWaterLevel_NoMatchAnywhere(t *testing.T) {
	resolver := &stubResolver{textErr: domain.ErrNoMatch, matches: nil}
	s := newTestServer(resolver, &stubAdvisor{}, nil, nil)

	rec := postJSON(t, s, "/api/water-level", map[string]any{
		"location": "nowhere", "latitude": 26.91, "longitude": 75.78,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	env, _ := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "location not recognized", env.Message)
}

func TestWaterLevel_NoInput(t *testing.T) {
	s := newTestServer(&stubResolver{}, &stubAdvisor{}, nil, nil)

	rec := postJSON(t, s, "/api/water-level", map[string]any{"latitude": 999.0, "longitude": 75.78})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWaterLevel_BadBody(t *testing.T) {
	s := newTestServer(&stubResolver{}, &stubAdvisor{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/water-level", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWaterLevel_ResolverError(t *testing.T) {
	resolver := &stubResolver{textErr: errors.New("boom")}
	s := newTestServer(resolver, &stubAdvisor{}, nil, nil)

	rec := postJSON(t, s, "/api/water-level", map[string]any{"location": "ludhiana"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWaterLevel_PublishesAudit(t *testing.T) {
	audit := &stubAudit{done: make(chan struct{})}
	resolver := &stubResolver{resolution: matchedResolution()}
	s := newTestServer(resolver, &stubAdvisor{}, nil, audit)

	rec := postJSON(t, s, "/api/water-level", map[string]any{"location": "ludhiana", "language": "pa"})
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case <-audit.done:
	case <-time.After(time.Second):
		t.Fatal("audit event not published")
	}
	audit.mu.Lock()
	defer audit.mu.Unlock()
	assert.Equal(t, 1, audit.events)
	assert.Equal(t, "pa", audit.language)
}

// --- audio ---

func TestGenerateAudio(t *testing.T) {
	tts := &stubSynthesizer{id: "4b8e2f0a-9c31-4a6e-8f2d-1c5b7e9a0d42"}
	s := newTestServer(&stubResolver{}, &stubAdvisor{}, tts, nil)

	rec := postJSON(t, s, "/api/generate-audio", map[string]any{"text": "पानी बचाओ", "language": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)

	_, data := decodeEnvelope(t, rec)
	assert.Equal(t, tts.id, data["audio_id"])
	assert.Equal(t, "/api/audio/"+tts.id, data["url"])
}

func TestGenerateAudio_MissingText(t *testing.T) {
	s := newTestServer(&stubResolver{}, &stubAdvisor{}, &stubSynthesizer{}, nil)

	rec := postJSON(t, s, "/api/generate-audio", map[string]any{"language": "hi"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateAudio_Disabled(t *testing.T) {
	s := newTestServer(&stubResolver{}, &stubAdvisor{}, nil, nil)

	rec := postJSON(t, s, "/api/generate-audio", map[string]any{"text": "hello"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGenerateAudio_SynthesizerError(t *testing.T) {
	s := newTestServer(&stubResolver{}, &stubAdvisor{}, &stubSynthesizer{err: errors.New("blocked")}, nil)

	rec := postJSON(t, s, "/api/generate-audio", map[string]any{"text": "hello"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServeAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp3")
	require.NoError(t, os.WriteFile(path, []byte("mp3-bytes"), 0o644))

	tts := &stubSynthesizer{path: path, found: true}
	s := newTestServer(&stubResolver{}, &stubAdvisor{}, tts, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/audio/some-id", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "mp3-bytes", rec.Body.String())
}

func TestServeAudio_NotFound(t *testing.T) {
	s := newTestServer(&stubResolver{}, &stubAdvisor{}, &stubSynthesizer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/audio/missing", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// --- operational routes ---

func TestHealthz(t *testing.T) {
	s := newTestServer(&stubResolver{}, &stubAdvisor{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	s := newTestServer(&stubResolver{}, &stubAdvisor{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz_NotReady(t *testing.T) {
	s := newTestServer(&stubResolver{readyErr: errors.New("catalog not loaded")}, &stubAdvisor{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRoot(t *testing.T) {
	s := newTestServer(&stubResolver{}, &stubAdvisor{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "groundwater advisory")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&stubResolver{}, &stubAdvisor{}, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/water-level", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
