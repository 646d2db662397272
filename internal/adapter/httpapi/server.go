// Package httpapi exposes the advisory service over HTTP: the water-level
// analysis endpoint, audio generation and serving, and the operational
// health, readiness, and metrics routes.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jalmitra/groundwater-advisory/internal/advisory"
	"github.com/jalmitra/groundwater-advisory/internal/domain"
)

// auditTimeout bounds the fire-and-forget audit publish so a slow broker
// never holds a goroutine for long.
const auditTimeout = 5 * time.Second

// Resolver answers location queries. Implemented by match.Resolver.
type Resolver interface {
	ResolveText(ctx context.Context, query string, lat, lon float64) (domain.Resolution, error)
	ResolveCoordinates(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Match, error)
	CheckReadiness(ctx context.Context) error
}

// AdvisoryGenerator produces farmer-facing insights for a matched block.
type AdvisoryGenerator interface {
	Generate(ctx context.Context, b domain.Block, language string) advisory.Insights
}

// Synthesizer converts text to cached speech audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string) (string, error)
	Lookup(id string) (string, bool)
}

// AuditSink receives resolution audit events. Implemented by the Kafka writer.
type AuditSink interface {
	PublishResolution(ctx context.Context, res domain.Resolution, language string) error
}

// Server exposes the advisory API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	resolver   Resolver
	advisor    AdvisoryGenerator
	tts        Synthesizer // nil when TTS is disabled
	audit      AuditSink   // nil when audit publishing is disabled
	defaultLng string
	logger     *slog.Logger
}

// NewServer creates the API server. tts and audit may be nil to disable those
// features.
func NewServer(addr string, resolver Resolver, advisor AdvisoryGenerator, tts Synthesizer, audit AuditSink, defaultLanguage string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      corsMiddleware(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		resolver:   resolver,
		advisor:    advisor,
		tts:        tts,
		audit:      audit,
		defaultLng: defaultLanguage,
		logger:     logger,
	}

	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("POST /api/water-level", s.handleWaterLevel)
	mux.HandleFunc("POST /api/generate-audio", s.handleGenerateAudio)
	mux.HandleFunc("GET /api/audio/{id}", s.handleAudio)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// --- request/response types ---

type waterLevelRequest struct {
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Language  string  `json:"language"`
}

// waterLevelData flattens the matched block, the generated insights, and the
// resolution audit fields into the single object the frontend consumes.
type waterLevelData struct {
	domain.Block
	advisory.Insights

	Location          string  `json:"location"`
	SearchedLatitude  float64 `json:"searchedLatitude"`
	SearchedLongitude float64 `json:"searchedLongitude"`
	MatchedLocation   string  `json:"matchedLocation"`
	ConfidenceScore   float64 `json:"confidenceScore"`
	DistanceKm        float64 `json:"distanceKm,omitempty"`
	DataSource        string  `json:"dataSource"`
}

type generateAudioRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

// --- handlers ---

func (s *Server) handleWaterLevel(w http.ResponseWriter, r *http.Request) {
	var req waterLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coordsValid := domain.ValidateCoordinates(req.Latitude, req.Longitude) == nil
	if req.Location == "" && !coordsValid {
		respondError(w, http.StatusBadRequest, "location text or valid coordinates required")
		return
	}

	language := req.Language
	if language == "" {
		language = s.defaultLng
	}

	res, distanceKm, err := s.resolve(r.Context(), req, coordsValid)
	if err != nil {
		if errors.Is(err, domain.ErrNoMatch) {
			respondError(w, http.StatusNotFound, "location not recognized")
			return
		}
		s.logger.Error("resolution failed", "location", req.Location, "error", err)
		respondError(w, http.StatusInternalServerError, "error processing request")
		return
	}

	insights := s.advisor.Generate(r.Context(), res.Block, language)
	s.publishAudit(res, language)

	data := waterLevelData{
		Block:             res.Block,
		Insights:          insights,
		Location:          req.Location,
		SearchedLatitude:  res.SearchedLatitude,
		SearchedLongitude: res.SearchedLongitude,
		MatchedLocation:   res.MatchedLocation,
		ConfidenceScore:   res.ConfidenceScore,
		DistanceKm:        distanceKm,
		DataSource:        fmt.Sprintf("block catalog (%s match)", res.Strategy),
	}
	respondSuccess(w, data, "water level analysis completed successfully")
}

// resolve applies the text-first precedence policy: text resolution is
// authoritative when a location string is present; coordinates are consulted
// only when text matching exhausts every strategy, or when no text was given
// at all. The returned distance is non-zero only for coordinate matches.
func (s *Server) resolve(ctx context.Context, req waterLevelRequest, coordsValid bool) (domain.Resolution, float64, error) {
	if req.Location != "" {
		res, err := s.resolver.ResolveText(ctx, req.Location, req.Latitude, req.Longitude)
		if err == nil || !errors.Is(err, domain.ErrNoMatch) || !coordsValid {
			return res, 0, err
		}
	}

	matches, err := s.resolver.ResolveCoordinates(ctx, req.Latitude, req.Longitude, 0)
	if err != nil {
		return domain.Resolution{}, 0, err
	}
	if len(matches) == 0 {
		return domain.Resolution{}, 0, domain.ErrNoMatch
	}
	nearest := matches[0]
	res := domain.NewResolution(nearest, domain.StrategyCoordinate, req.Location, req.Latitude, req.Longitude)
	return res, nearest.DistanceKm, nil
}

func (s *Server) publishAudit(res domain.Resolution, language string) {
	if s.audit == nil {
		return
	}
	// Fire-and-forget: audit publishing never delays or fails a request.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		if err := s.audit.PublishResolution(ctx, res, language); err != nil {
			s.logger.Warn("audit publish failed", "block_id", res.Block.ID, "error", err)
		}
	}()
}

func (s *Server) handleGenerateAudio(w http.ResponseWriter, r *http.Request) {
	if s.tts == nil {
		respondError(w, http.StatusServiceUnavailable, "audio generation is disabled")
		return
	}

	var req generateAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	id, err := s.tts.Synthesize(r.Context(), req.Text, req.Language)
	if err != nil {
		s.logger.Error("audio generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "error generating audio")
		return
	}

	respondSuccess(w, map[string]string{
		"audio_id": id,
		"url":      "/api/audio/" + id,
	}, "audio generated successfully")
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	if s.tts == nil {
		respondError(w, http.StatusServiceUnavailable, "audio generation is disabled")
		return
	}

	path, ok := s.tts.Lookup(r.PathValue("id"))
	if !ok {
		respondError(w, http.StatusNotFound, "audio file not found")
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "groundwater advisory",
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.resolver.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// --- helpers ---

// corsMiddleware allows the browser frontend to call the API from another origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondSuccess(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Message: message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
