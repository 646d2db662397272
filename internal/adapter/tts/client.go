package tts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jalmitra/groundwater-advisory/internal/observability"
)

// maxChunkRunes bounds the text length per TTS request; the endpoint rejects
// long inputs. Chunks are concatenated MP3 streams, which players accept.
const maxChunkRunes = 200

// supported language codes; anything else synthesizes as Hindi.
var languageCodes = map[string]string{
	"hi": "hi",
	"pa": "pa",
}

// Synthesizer converts advisory text to speech through the Google Translate
// TTS endpoint and stores the result in the audio cache.
type Synthesizer struct {
	httpClient *http.Client
	baseURL    string
	store      *Store
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewSynthesizer creates a Synthesizer writing into the given store.
func NewSynthesizer(store *Store, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://translate.google.com/translate_tts",
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Synthesize renders text as MP3 speech in the given language and returns the
// cached audio id.
func (s *Synthesizer) Synthesize(ctx context.Context, text, language string) (string, error) {
	lang, ok := languageCodes[language]
	if !ok {
		lang = "hi"
	}

	var audio []byte
	for i, chunk := range splitChunks(text, maxChunkRunes) {
		data, err := s.fetchChunk(ctx, chunk, lang, i)
		if err != nil {
			s.metrics.TTSRequests.WithLabelValues("error").Inc()
			return "", err
		}
		audio = append(audio, data...)
	}
	if len(audio) == 0 {
		s.metrics.TTSRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("no audio produced for empty text")
	}

	id, err := s.store.Save(audio)
	if err != nil {
		s.metrics.TTSRequests.WithLabelValues("error").Inc()
		return "", err
	}

	s.metrics.TTSRequests.WithLabelValues("success").Inc()
	s.logger.Debug("audio synthesized", "audio_id", id, "language", lang, "chars", len(text))
	return id, nil
}

// Lookup resolves an audio id to its cached file path.
func (s *Synthesizer) Lookup(id string) (string, bool) {
	return s.store.Path(id)
}

func (s *Synthesizer) fetchChunk(ctx context.Context, chunk, lang string, idx int) ([]byte, error) {
	params := url.Values{
		"ie":      {"UTF-8"},
		"client":  {"tw-ob"},
		"q":       {chunk},
		"tl":      {lang},
		"idx":     {fmt.Sprintf("%d", idx)},
		"textlen": {fmt.Sprintf("%d", len([]rune(chunk)))},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts API error: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return data, nil
}

// splitChunks breaks text into whitespace-respecting chunks of at most
// maxRunes runes. A single word longer than maxRunes becomes its own chunk.
func splitChunks(text string, maxRunes int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, w := range words {
		wLen := len([]rune(w))
		if currentLen > 0 && currentLen+1+wLen > maxRunes {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(w)
		currentLen += wLen
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
