// sanitize — очистка текстовых полей, извлечённых из лент.
//
// Ленты отдают заголовки и тизеры с HTML-разметкой и экранированными
// сущностями; наружу должны уходить плоские строки. Набор сущностей
// фиксированный — полноценный HTML-декодер здесь не нужен, а повторное
// применение не должно «додекодировать» уже чистый текст.
package sanitize

import (
	"regexp"
	"strings"
)

var reTag = regexp.MustCompile(`<[^>]*>`)

// entityReplacer декодирует фиксированный набор HTML-сущностей.
// &amp; идёт первым намеренно: одиночный проход strings.Replacer не
// подставляет результат одной замены во вход другой, поэтому
// "&amp;lt;" превращается в "&lt;", а не в "<" — санитизация идемпотентна
// ровно настолько, насколько это нужно для уже очищенного текста.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
	"&#x2F;", "/",
	"&nbsp;", " ",
)

// Text убирает разметку, декодирует сущности и обрезает пробелы по краям.
// Пустой вход — пустой выход, без ошибок.
func Text(raw string) string {
	if raw == "" {
		return ""
	}

	out := reTag.ReplaceAllString(raw, "")
	out = entityReplacer.Replace(out)

	return strings.TrimSpace(out)
}

// Truncate обрезает строку до limit рун (не байт — тизеры приходят
// и на иврите, и на арабском, и на фарси).
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}
