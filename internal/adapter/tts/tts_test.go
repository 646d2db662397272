package tts

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jalmitra/groundwater-advisory/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), observability.NewMetricsForTesting())
	require.NoError(t, err)
	return store
}

func TestStore_SaveAndPath(t *testing.T) {
	store := testStore(t)

	id, err := store.Save([]byte("mp3-bytes"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	path, ok := store.Path(id)
	require.True(t, ok)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), data)
}

func TestStore_PathRejectsMalformedID(t *testing.T) {
	store := testStore(t)

	_, ok := store.Path("../../etc/passwd")
	assert.False(t, ok)
	_, ok = store.Path("not-a-uuid")
	assert.False(t, ok)
}

func TestStore_PathMiss(t *testing.T) {
	store := testStore(t)

	_, ok := store.Path("4b8e2f0a-9c31-4a6e-8f2d-1c5b7e9a0d42")
	assert.False(t, ok)
}

func testSynthesizer(store *Store, serverURL string) *Synthesizer {
	s := NewSynthesizer(store, 5*time.Second, observability.NewMetricsForTesting(), discardLogger())
	s.baseURL = serverURL
	return s
}

func TestSynthesize(t *testing.T) {
	var gotLang, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("tl")
		gotText = r.URL.Query().Get("q")
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	store := testStore(t)
	s := testSynthesizer(store, server.URL)

	id, err := s.Synthesize(context.Background(), "पानी बचाओ", "hi")
	require.NoError(t, err)

	assert.Equal(t, "hi", gotLang)
	assert.Equal(t, "पानी बचाओ", gotText)

	path, ok := s.Lookup(id)
	require.True(t, ok)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("audio"), data)
}

func TestSynthesize_ChunksLongText(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("x"))
	}))
	defer server.Close()

	s := testSynthesizer(testStore(t), server.URL)

	// ~500 runes of words forces at least three chunks of 200.
	text := strings.TrimSpace(strings.Repeat("word ", 100))
	_, err := s.Synthesize(context.Background(), text, "pa")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, requests, 3)
}

func TestSynthesize_UnknownLanguageFallsBackToHindi(t *testing.T) {
	var gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("tl")
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	s := testSynthesizer(testStore(t), server.URL)

	_, err := s.Synthesize(context.Background(), "hello", "de")
	require.NoError(t, err)
	assert.Equal(t, "hi", gotLang)
}

func TestSynthesize_EmptyText(t *testing.T) {
	s := testSynthesizer(testStore(t), "http://unused.invalid")

	_, err := s.Synthesize(context.Background(), "   ", "hi")
	require.Error(t, err)
}

func TestSynthesize_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	s := testSynthesizer(testStore(t), server.URL)

	_, err := s.Synthesize(context.Background(), "hello", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestSplitChunks(t *testing.T) {
	assert.Nil(t, splitChunks("", 10))
	assert.Equal(t, []string{"one two"}, splitChunks("one two", 10))
	assert.Equal(t, []string{"one two", "six"}, splitChunks("one two six", 7))

	// A word longer than the limit still becomes a chunk.
	long := strings.Repeat("a", 15)
	assert.Equal(t, []string{long}, splitChunks(long, 10))
}
