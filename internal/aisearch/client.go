// aisearch — клиент генеративного AI-поиска новостей.
//
// Апстрим — Gemini generateContent: модель выполняет веб-поиск по ключевому
// слову и возвращает структурированную сводку строгим JSON (response_mime_type
// задан явно). Для сервиса это непрозрачный источник: либо корректный список
// items, либо ничего пригодного — любые сбои деградируют к пустому результату
// на стороне вызывающего.
package aisearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/news-alerts/internal/links"
	"github.com/pribylovaa/news-alerts/internal/models"
	"github.com/pribylovaa/news-alerts/internal/sanitize"
)

const (
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel    = "gemini-1.5-flash"
	defaultTimeout  = 20 * time.Second

	summaryLimit = 300
	maxBodyBytes = 4 << 20
)

// Client — HTTP-клиент апстрима. Создаётся один раз на процесс.
type Client struct {
	httpClient *http.Client
	endpoint   string
	model      string
	apiKey     string
	timeout    time.Duration
}

// New создаёт клиент. Пустые endpoint/model заменяются дефолтами,
// нулевой таймаут — 20s. apiKey обязателен для реальных запросов,
// но валидируется конфигом, не здесь.
func New(httpClient *http.Client, endpoint, model, apiKey string, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	if model == "" {
		model = defaultModel
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		model:      model,
		apiKey:     apiKey,
		timeout:    timeout,
	}
}

// Формат generateContent: многослойные обёртки вокруг одного текстового part.
type (
	generateRequest struct {
		Contents         []content        `json:"contents"`
		GenerationConfig generationConfig `json:"generationConfig"`
	}

	content struct {
		Parts []part `json:"parts"`
	}

	part struct {
		Text string `json:"text"`
	}

	generationConfig struct {
		ResponseMIMEType string `json:"response_mime_type"`
	}

	generateResponse struct {
		Candidates []struct {
			Content content `json:"content"`
		} `json:"candidates"`
	}
)

// searchPayload — JSON, который модель обязана вернуть по промпту.
type searchPayload struct {
	Items []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Source      string `json:"source"`
		Summary     string `json:"summary"`
		PublishedAt string `json:"publishedAt"`
	} `json:"items"`
}

// Search запрашивает у модели свежие новости по ключевому слову.
// customSources — необязательный список предпочтительных источников,
// locale — язык, на котором нужны заголовки и сводки.
//
// Возвращает items с Origin = ai-search; записи без title или url
// отбрасываются по общим инвариантам FeedItem.
func (c *Client) Search(ctx context.Context, keyword string, customSources []string, locale string) ([]models.FeedItem, error) {
	const op = "aisearch.Search"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: buildPrompt(keyword, customSources, locale)}}}},
		GenerationConfig: generationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal: %w", op, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read_body: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status=%d", op, resp.StatusCode)
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%s: empty candidates", op)
	}

	var payload searchPayload
	if err := json.Unmarshal([]byte(gr.Candidates[0].Content.Parts[0].Text), &payload); err != nil {
		return nil, fmt.Errorf("%s: decode_payload: %w", op, err)
	}

	now := time.Now().UTC()

	out := make([]models.FeedItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		title := sanitize.Text(it.Title)
		link := strings.TrimSpace(it.URL)

		if title == "" || !strings.HasPrefix(link, "http") {
			continue
		}

		source := sanitize.Text(it.Source)
		if source == "" {
			source = links.SourceLabel(link)
		}

		published := now
		if t, err := time.Parse(time.RFC3339, it.PublishedAt); err == nil {
			published = t.UTC()
		}

		out = append(out, models.FeedItem{
			Title:       title,
			Link:        link,
			Source:      source,
			Summary:     sanitize.Truncate(sanitize.Text(it.Summary), summaryLimit),
			Language:    locale,
			Origin:      models.OriginAISearch,
			PublishedAt: published,
		})
	}

	return out, nil
}

// buildPrompt собирает промпт веб-поиска. Модель отвечает строгим JSON —
// схема описана прямо в тексте, response_mime_type подстраховывает формат.
func buildPrompt(keyword string, customSources []string, locale string) string {
	var b strings.Builder

	b.WriteString("You are a news search engine. Find the most recent news items (last 24 hours) about: ")
	b.WriteString(keyword)
	b.WriteString(".\n")

	if len(customSources) > 0 {
		b.WriteString("Prefer these sources: ")
		b.WriteString(strings.Join(customSources, ", "))
		b.WriteString(".\n")
	}

	if locale != "" {
		b.WriteString("Write title and summary in the language with code ")
		b.WriteString(locale)
		b.WriteString(".\n")
	}

	b.WriteString(`Respond with JSON only, schema: {"items":[{"title":string,"url":string,"source":string,"summary":string,"publishedAt":string(RFC3339)}]}. `)
	b.WriteString("Up to 10 items, real article URLs only, no markdown.")

	return b.String()
}
