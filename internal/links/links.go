// links — нормализация ссылок на новости.
//
// Три чистые операции без I/O: разворачивание redirect-обёрток выдачи,
// вычисление ключа дедупликации и вывод метки источника из hostname.
// Все операции деградируют мягко: битый URL возвращается как есть,
// ошибок наружу нет.
package links

import (
	"net/url"
	"strings"
)

// articleRedirectMarker — путь собственного редиректа новостной выдачи.
// Такие ссылки содержат закодированный payload, который сервер безопасно
// раскодировать не может; их разворачивает клиент переходом по редиректу.
const articleRedirectMarker = "news.google.com/rss/articles/"

// Unwrap пытается заменить redirect-обёртку прямой ссылкой на материал.
//
// Правила:
//   - ссылка на собственный article-редирект выдачи остаётся нетронутой;
//   - если в query есть параметр url или q со значением-ссылкой (http/https),
//     возвращается это значение;
//   - битый URL возвращается без изменений.
func Unwrap(raw string) string {
	if strings.Contains(raw, articleRedirectMarker) {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	q := u.Query()
	for _, key := range []string{"url", "q"} {
		if v := q.Get(key); strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			return v
		}
	}

	return raw
}

// DedupKey сводит ссылку к hostname+path — «одна и та же история» с разных
// запросных вариантов различается только схемой/www-префиксом/query/fragment.
// Ключ используется строго для дедупликации, не для показа.
// Если URL не парсится, ключом становится исходная строка: хотя бы
// буквальные дубликаты всё равно схлопнутся.
func DedupKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}

	return strings.TrimPrefix(u.Hostname(), "www.") + u.Path
}

// SourceLabel выводит метку источника из hostname ссылки: www. отбрасывается,
// из оставшегося берётся предпоследний label (reuters из www.reuters.com).
// Hostname без точки возвращается целиком; непарсящийся URL даёт "Unknown".
func SourceLabel(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "Unknown"
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")

	parts := strings.Split(host, ".")
	if len(parts) > 1 {
		return parts[len(parts)-2]
	}

	return host
}
