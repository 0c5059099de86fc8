package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/news-alerts/internal/links"
	"github.com/pribylovaa/news-alerts/internal/models"
	"github.com/pribylovaa/news-alerts/pkg/log"
)

// Query — нормализуемые параметры одного прохода агрегации.
type Query struct {
	// Keyword — ключевое слово. Обязательно.
	Keyword string
	// Locales — запрошенные локали; пустой список заменяется дефолтом конфига.
	Locales []string
	// Hours — окно свежести в часах; вне диапазона — нормализуется.
	Hours int
}

// SearchNews — один проход агрегации: план запросов, параллельная загрузка,
// слияние, дедуп, сортировка, фильтр окна свежести, лимит.
//
// Семантика сбоев: ошибки апстримов не эскалируются — запрос, не собравший
// ни одного успешного ответа, даёт пустую выдачу и Total = 0, не ошибку.
// Единственная ошибка уровня операции — пустое ключевое слово.
func (s *Service) SearchNews(ctx context.Context, q Query) (*models.SearchResult, error) {
	const op = "service.SearchNews"

	q = s.normalize(q)
	if q.Keyword == "" {
		return nil, ErrInvalidArgument
	}

	lg := log.From(ctx).With(slog.String("query_id", uuid.NewString()))
	ctx = log.Into(ctx, lg)

	now := time.Now().UTC()
	reqs := s.planner.Build(q.Keyword, q.Locales, q.Hours)

	lg.Info("search_start",
		slog.String("op", op),
		slog.String("keyword", q.Keyword),
		slog.Int("requests", len(reqs)),
		slog.Int("hours", q.Hours),
	)

	// Пользовательские источники опрашиваются параллельно с выдачей.
	customCh := make(chan []models.FeedItem, 1)
	go func() {
		if s.sources == nil || len(s.cfg.Sources.URLs) == 0 {
			customCh <- nil
			return
		}
		customCh <- s.sources.Search(ctx, s.cfg.Sources.URLs, q.Keyword, q.Locales[0])
	}()

	var merged []models.FeedItem
	var feedsOK, feedsErr int

	for res := range s.fetcher.FetchAll(ctx, reqs) {
		if res.Err != nil {
			feedsErr++
			lg.Warn("fetch_error",
				slog.String("op", op),
				slog.String("locale", res.Request.Locale),
				slog.String("err", res.Err.Error()),
			)
			continue
		}

		feedsOK++
		merged = append(merged, res.Items...)
	}

	merged = append(merged, <-customCh...)

	// Дедуп по каноническому ключу ссылки: первый встреченный побеждает.
	// Порядок на этом шаге — порядок завершения загрузок, не временной.
	seen := make(map[string]struct{}, len(merged))
	unique := merged[:0]
	for _, item := range merged {
		key := links.DedupKey(item.Link)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}

	// Новые сверху. Нулевое время (битый pubDate) уходит в хвост и
	// отсекается фильтром ниже.
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].PublishedAt.After(unique[j].PublishedAt)
	})

	cutoff := now.Add(-time.Duration(q.Hours) * time.Hour)

	filtered := unique[:0]
	for _, item := range unique {
		if item.PublishedAt.After(cutoff) {
			filtered = append(filtered, item)
		}
	}

	total := len(filtered)
	if total > s.cfg.Limits.MaxItems {
		filtered = filtered[:s.cfg.Limits.MaxItems]
	}

	lg.Info("search_done",
		slog.String("op", op),
		slog.Int("feeds_ok", feedsOK),
		slog.Int("feeds_err", feedsErr),
		slog.Int("total", total),
		slog.Int("returned", len(filtered)),
	)

	return &models.SearchResult{
		Items:     filtered,
		Total:     total,
		QueriedAt: now,
		Languages: q.Locales,
		Keyword:   q.Keyword,
	}, nil
}

// normalize доводит Query до инвариантов сервиса:
//   - Keyword обрезается по пробелам;
//   - пустые локали выбрасываются, пустой список заменяется дефолтом;
//   - Hours <= 0 -> cfg.Limits.DefaultHours, > MaxHours -> MaxHours.
func (s *Service) normalize(q Query) Query {
	q.Keyword = strings.TrimSpace(q.Keyword)

	locales := make([]string, 0, len(q.Locales))
	for _, l := range q.Locales {
		if l = strings.TrimSpace(l); l != "" {
			locales = append(locales, l)
		}
	}
	if len(locales) == 0 {
		locales = s.cfg.Fetcher.Locales
	}
	q.Locales = locales

	if q.Hours <= 0 {
		q.Hours = s.cfg.Limits.DefaultHours
	}
	if q.Hours > s.cfg.Limits.MaxHours {
		q.Hours = s.cfg.Limits.MaxHours
	}

	return q
}
