package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-alerts/internal/models"
)

// mkFeed — минимальное тело выдачи с перечисленными блоками item.
func mkFeed(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel>
<title>search results</title>
` + strings.Join(items, "\n") + `
</channel></rss>`
}

var testNow = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

// Test_extractTag — CDATA предпочитается плоскому тексту, регистр тега не важен.
func Test_extractTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block string
		tag   string
		want  string
	}{
		{
			name:  "cdata",
			block: `<title><![CDATA[Oil prices climb]]></title>`,
			tag:   "title",
			want:  "Oil prices climb",
		},
		{
			name:  "plain",
			block: `<title>Oil prices climb</title>`,
			tag:   "title",
			want:  "Oil prices climb",
		},
		{
			name:  "case_insensitive",
			block: `<TITLE>Upper</TITLE>`,
			tag:   "title",
			want:  "Upper",
		},
		{
			name:  "attributes_tolerated",
			block: `<source url="https://reuters.com">Reuters</source>`,
			tag:   "source",
			want:  "Reuters",
		},
		{
			name:  "missing",
			block: `<link>https://a</link>`,
			tag:   "title",
			want:  "",
		},
		{
			name:  "whitespace_trimmed",
			block: "<title>\n  spaced  \n</title>",
			tag:   "title",
			want:  "spaced",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, extractTag(tc.block, tc.tag))
		})
	}
}

// Test_parseItems_Basic — happy-path: все поля на месте.
func Test_parseItems_Basic(t *testing.T) {
	t.Parallel()

	body := mkFeed(`<item>
<title><![CDATA[Ceasefire talks resume]]></title>
<link>https://www.reuters.com/world/talks</link>
<pubDate>Wed, 27 Aug 2026 10:30:00 +0000</pubDate>
<source url="https://reuters.com">Reuters</source>
<description><![CDATA[<b>Negotiators</b> returned to the table &amp; agreed to meet.]]></description>
</item>`)

	items := parseItems(body, "en", testNow)
	require.Len(t, items, 1)

	it := items[0]
	require.Equal(t, "Ceasefire talks resume", it.Title)
	require.Equal(t, "https://www.reuters.com/world/talks", it.Link)
	require.Equal(t, "Reuters", it.Source)
	require.Equal(t, "Negotiators returned to the table & agreed to meet.", it.Summary)
	require.Equal(t, "en", it.Language)
	require.Equal(t, models.OriginFeed, it.Origin)
	require.Equal(t, time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC), it.PublishedAt)
}

// Test_parseItems_DropsIncomplete — item без title или link отбрасывается молча.
func Test_parseItems_DropsIncomplete(t *testing.T) {
	t.Parallel()

	body := mkFeed(
		`<item><title>no link</title><pubDate>Wed, 27 Aug 2026 10:30:00 +0000</pubDate></item>`,
		`<item><link>https://a.example/story</link></item>`,
		`<item><title>kept</title><link>https://b.example/story</link></item>`,
	)

	items := parseItems(body, "en", testNow)
	require.Len(t, items, 1)
	require.Equal(t, "kept", items[0].Title)
}

// Test_parseItems_SourceFallback — без тега source метка выводится из hostname.
func Test_parseItems_SourceFallback(t *testing.T) {
	t.Parallel()

	body := mkFeed(`<item>
<title>story</title>
<link>https://www.haaretz.com/israel-news/story</link>
</item>`)

	items := parseItems(body, "he", testNow)
	require.Len(t, items, 1)
	require.Equal(t, "haaretz", items[0].Source)
}

// Test_parseItems_PubDateSemantics — отсутствующая дата получает now,
// битая — нулевое время.
func Test_parseItems_PubDateSemantics(t *testing.T) {
	t.Parallel()

	body := mkFeed(
		`<item><title>no date</title><link>https://a.example/1</link></item>`,
		`<item><title>bad date</title><link>https://a.example/2</link><pubDate>yesterday-ish</pubDate></item>`,
	)

	items := parseItems(body, "en", testNow)
	require.Len(t, items, 2)

	require.Equal(t, testNow, items[0].PublishedAt)
	require.True(t, items[1].PublishedAt.IsZero())
}

// Test_parseItems_UnwrapsRedirect — ссылка с payload в query разворачивается.
func Test_parseItems_UnwrapsRedirect(t *testing.T) {
	t.Parallel()

	body := mkFeed(`<item>
<title>wrapped</title>
<link>https://redirect.example/out?url=https%3A%2F%2Freuters.com%2Fworld%2Fstory</link>
</item>`)

	items := parseItems(body, "en", testNow)
	require.Len(t, items, 1)
	require.Equal(t, "https://reuters.com/world/story", items[0].Link)
}

// Test_parseItems_SummaryTruncated — тизер режется по лимиту рун.
func Test_parseItems_SummaryTruncated(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", summaryLimit+50)
	body := mkFeed(`<item><title>t</title><link>https://a.example/1</link><description>` + long + `</description></item>`)

	items := parseItems(body, "en", testNow)
	require.Len(t, items, 1)
	require.Len(t, items[0].Summary, summaryLimit)
}

// Test_parseItems_ToleratesBrokenXML — мусор вокруг блоков не мешает разбору.
func Test_parseItems_ToleratesBrokenXML(t *testing.T) {
	t.Parallel()

	body := `garbage <unclosed ><item><title>survives</title><link>https://a.example/1</link></item> trailing junk`

	items := parseItems(body, "en", testNow)
	require.Len(t, items, 1)
	require.Equal(t, "survives", items[0].Title)
}

// Test_parsePubDate — набор популярных форматов.
func Test_parsePubDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "rfc1123z",
			in:   "Wed, 27 Aug 2026 10:30:00 +0300",
			want: time.Date(2026, 8, 27, 7, 30, 0, 0, time.UTC),
		},
		{
			name: "rfc1123_gmt",
			in:   "Wed, 27 Aug 2026 10:30:00 GMT",
			want: time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC),
		},
		{
			name: "two_digit_year",
			in:   "Wed, 27 Aug 26 10:30:00 +0000",
			want: time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC),
		},
		{
			name: "rfc3339",
			in:   "2026-08-27T10:30:00Z",
			want: time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC),
		},
		{name: "empty_gets_now", in: "", want: testNow},
		{name: "garbage_gets_zero", in: "not a date", want: time.Time{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, parsePubDate(tc.in, testNow))
		})
	}
}
