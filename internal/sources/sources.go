// sources — прямой опрос пользовательских RSS-источников.
//
// В отличие от новостной выдачи (internal/feed), сюда попадают обычные
// well-formed ленты, настроенные пользователем, поэтому разбор отдан
// gofeed. Контракт изоляции тот же: сбой одного источника даёт пустой
// список items по нему и никогда не валит пакет.
package sources

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pribylovaa/news-alerts/internal/links"
	"github.com/pribylovaa/news-alerts/internal/models"
	"github.com/pribylovaa/news-alerts/internal/sanitize"
	"github.com/pribylovaa/news-alerts/pkg/log"
)

const (
	defaultTimeout = 8 * time.Second
	summaryLimit   = 300
)

// Reader читает настроенные ленты и фильтрует их по ключевому слову.
type Reader struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// New создаёт Reader. Нулевой таймаут заменяется дефолтом (8s).
func New(timeout time.Duration) *Reader {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Reader{parser: gofeed.NewParser(), timeout: timeout}
}

// Search конкурентно опрашивает urls и возвращает items, в заголовке или
// тизере которых встречается keyword (без учёта регистра). Items помечаются
// локалью locale и Origin = feed.
//
// Ошибки источников не эскалируются: такой источник просто не даёт items.
func (r *Reader) Search(ctx context.Context, urls []string, keyword, locale string) []models.FeedItem {
	const op = "sources.Search"

	if len(urls) == 0 {
		return nil
	}

	type outcome struct {
		url   string
		items []models.FeedItem
		err   error
	}

	ch := make(chan outcome, len(urls))

	for _, u := range urls {
		go func(src string) {
			items, err := r.readOne(ctx, src, keyword, locale)
			ch <- outcome{url: src, items: items, err: err}
		}(u)
	}

	var out []models.FeedItem
	for i := 0; i < len(urls); i++ {
		res := <-ch
		if res.err != nil {
			log.From(ctx).Warn("source_read_error",
				slog.String("op", op),
				slog.String("url", res.url),
				slog.String("err", res.err.Error()),
			)
			continue
		}

		out = append(out, res.items...)
	}

	return out
}

// readOne читает одну ленту и применяет фильтр по ключевому слову.
func (r *Reader) readOne(ctx context.Context, src, keyword, locale string) ([]models.FeedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	feed, err := r.parser.ParseURLWithContext(src, ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sourceName := sanitize.Text(feed.Title)

	var out []models.FeedItem
	for _, item := range feed.Items {
		if !matchesKeyword(item, keyword) {
			continue
		}

		title := sanitize.Text(item.Title)
		link := strings.TrimSpace(item.Link)

		if title == "" || link == "" {
			continue
		}

		published := now
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		}

		name := sourceName
		if name == "" {
			name = links.SourceLabel(link)
		}

		out = append(out, models.FeedItem{
			Title:       title,
			Link:        link,
			Source:      name,
			Summary:     sanitize.Truncate(sanitize.Text(item.Description), summaryLimit),
			Language:    locale,
			Origin:      models.OriginFeed,
			PublishedAt: published,
		})
	}

	return out, nil
}

// matchesKeyword — вхождение keyword в title/description без учёта регистра.
func matchesKeyword(item *gofeed.Item, keyword string) bool {
	kw := strings.ToLower(keyword)

	return strings.Contains(strings.ToLower(item.Title), kw) ||
		strings.Contains(strings.ToLower(item.Description), kw)
}
