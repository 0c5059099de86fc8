package aisearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-alerts/internal/models"
)

// fakeUpstream — сервер, отвечающий телом generateContent с заданным payload.
func fakeUpstream(t *testing.T, payload string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.URL.Path, ":generateContent")

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": payload}}}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

// TestSearch_ParsesPayload — happy-path: строгий JSON модели мапится в items.
func TestSearch_ParsesPayload(t *testing.T) {
	t.Parallel()

	payload := `{"items":[
		{"title":"<b>Ceasefire</b> holds","url":"https://reuters.com/world/story","source":"Reuters","summary":"Talks &amp; progress.","publishedAt":"2026-08-27T10:30:00Z"},
		{"title":"No link item","url":"about:blank","source":"","summary":"","publishedAt":""},
		{"title":"","url":"https://dropped.example/empty-title","source":"","summary":"","publishedAt":""}
	]}`

	srv := fakeUpstream(t, payload)
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "test-model", "test-key", 2*time.Second)

	items, err := c.Search(context.Background(), "ceasefire", nil, "en")
	require.NoError(t, err)
	require.Len(t, items, 1)

	it := items[0]
	require.Equal(t, "Ceasefire holds", it.Title)
	require.Equal(t, "https://reuters.com/world/story", it.Link)
	require.Equal(t, "Reuters", it.Source)
	require.Equal(t, "Talks & progress.", it.Summary)
	require.Equal(t, "en", it.Language)
	require.Equal(t, models.OriginAISearch, it.Origin)
	require.Equal(t, time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC), it.PublishedAt)
}

// TestSearch_SourceFallback — пустой source выводится из hostname ссылки.
func TestSearch_SourceFallback(t *testing.T) {
	t.Parallel()

	payload := `{"items":[{"title":"story","url":"https://www.haaretz.com/israel-news/story","source":"","summary":"","publishedAt":""}]}`

	srv := fakeUpstream(t, payload)
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "test-model", "test-key", 2*time.Second)

	items, err := c.Search(context.Background(), "story", nil, "he")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "haaretz", items[0].Source)
}

// TestSearch_UpstreamError — не-200 отдаётся ошибкой, не пустым успехом.
func TestSearch_UpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "test-model", "test-key", 2*time.Second)

	_, err := c.Search(context.Background(), "anything", nil, "en")
	require.Error(t, err)
}

// TestSearch_MalformedPayload — не-JSON в тексте кандидата отдаётся ошибкой.
func TestSearch_MalformedPayload(t *testing.T) {
	t.Parallel()

	srv := fakeUpstream(t, "sorry, here is some prose instead of JSON")
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "test-model", "test-key", 2*time.Second)

	_, err := c.Search(context.Background(), "anything", nil, "en")
	require.Error(t, err)
}

// TestSearch_EmptyCandidates — пустой ответ модели отдаётся ошибкой.
func TestSearch_EmptyCandidates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "test-model", "test-key", 2*time.Second)

	_, err := c.Search(context.Background(), "anything", nil, "en")
	require.Error(t, err)
}

// Test_buildPrompt — промпт содержит слово, источники и локаль.
func Test_buildPrompt(t *testing.T) {
	t.Parallel()

	p := buildPrompt("ceasefire", []string{"https://wire.example/rss"}, "he")

	require.Contains(t, p, "ceasefire")
	require.Contains(t, p, "https://wire.example/rss")
	require.Contains(t, p, "he")
	require.Contains(t, p, `"items"`)
}
