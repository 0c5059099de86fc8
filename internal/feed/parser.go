package feed

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/pribylovaa/news-alerts/internal/links"
	"github.com/pribylovaa/news-alerts/internal/models"
	"github.com/pribylovaa/news-alerts/internal/sanitize"
)

// Толерантный разбор полу-XML новостной выдачи.
//
// Выдача не гарантирует well-formed XML, поэтому строгий декодер здесь
// сознательно не используется: блоки <item> вырезаются сканированием,
// непарсящиеся блоки молча пропускаются. Это политика, а не упрощение —
// строгий парсер отбрасывал бы реальные ленты целиком.

// summaryLimit — серверный лимит длины тизера после очистки.
const summaryLimit = 300

var reItemBlock = regexp.MustCompile(`(?is)<item>(.*?)</item>`)

// tagPatterns — по паре регэкспов на поле: сначала CDATA-вариант, затем
// общий (CDATA либо плоский текст). При совпадении обоих форм предпочитается
// CDATA — выдача кладёт туда уже экранированный текст.
var tagPatterns = map[string][2]*regexp.Regexp{}

func init() {
	for _, tag := range []string{"title", "link", "pubDate", "source", "description"} {
		tagPatterns[tag] = [2]*regexp.Regexp{
			regexp.MustCompile(`(?is)<` + tag + `[^>]*>\s*<!\[CDATA\[(.*?)\]\]>\s*</` + tag + `>`),
			regexp.MustCompile(`(?is)<` + tag + `[^>]*>\s*(?:<!\[CDATA\[(.*?)\]\]>|(.*?))\s*</` + tag + `>`),
		}
	}
}

// extractTag достаёт содержимое тега из блока item: сначала CDATA-форма,
// затем общая. Теги матчатся без учёта регистра.
func extractTag(block, tag string) string {
	pats := tagPatterns[tag]

	if m := pats[0].FindStringSubmatch(block); m != nil {
		return strings.TrimSpace(m[1])
	}

	if m := pats[1].FindStringSubmatch(block); m != nil {
		for _, g := range m[1:] {
			if g != "" {
				return strings.TrimSpace(g)
			}
		}
	}

	return ""
}

// parseItems извлекает items из сырого тела ответа выдачи.
//
// Инварианты результата:
//   - item без непустых title и link отбрасывается молча (ленты штатно
//     содержат мусорные записи);
//   - отсутствующий pubDate заменяется на now (момент загрузки);
//   - присутствующий, но непарсящийся pubDate даёт нулевое время — такие
//     items отсечёт фильтр окна свежести в агрегаторе;
//   - все items помечаются локалью запроса и Origin = feed.
func parseItems(body, locale string, now time.Time) []models.FeedItem {
	var out []models.FeedItem

	for _, m := range reItemBlock.FindAllStringSubmatch(body, -1) {
		block := m[1]

		title := sanitize.Text(extractTag(block, "title"))
		link := extractTag(block, "link")

		if title == "" || link == "" {
			continue
		}

		link = links.Unwrap(link)

		source := sanitize.Text(extractTag(block, "source"))
		if source == "" {
			source = links.SourceLabel(link)
		}

		out = append(out, models.FeedItem{
			Title:       title,
			Link:        link,
			Source:      source,
			Summary:     sanitize.Truncate(sanitize.Text(extractTag(block, "description")), summaryLimit),
			Language:    locale,
			Origin:      models.OriginFeed,
			PublishedAt: parsePubDate(extractTag(block, "pubDate"), now),
		})
	}

	return out
}

// errEmptyDate — внутренняя метка «даты нет вовсе» (в отличие от битой).
var errEmptyDate = errors.New("empty date")

// parsePubDate пробует набор популярных форматов и возвращает UTC-время.
// Пустое значение — now; непарсящееся — нулевое время.
func parsePubDate(value string, now time.Time) time.Time {
	t, err := tryParseDate(value)
	if err == nil {
		return t
	}

	if errors.Is(err, errEmptyDate) {
		return now
	}

	return time.Time{}
}

func tryParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errEmptyDate
	}

	layouts := []string{
		time.RFC1123Z,                   // Mon, 02 Jan 2006 15:04:05 -0700
		time.RFC1123,                    // Mon, 02 Jan 2006 15:04:05 MST
		"Mon, 02 Jan 06 15:04:05 -0700", // 2-значный год
		"Mon, 02 Jan 06 15:04:05 MST",   // 2-значный год
		time.RFC822Z,                    // 02 Jan 06 15:04 -0700
		time.RFC822,                     // 02 Jan 06 15:04 MST
		time.RFC3339,                    // 2006-01-02T15:04:05Z07:00
	}

	var lastErr error
	for _, l := range layouts {
		if t, err := time.Parse(l, value); err == nil {
			return t.UTC(), nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, lastErr
}
