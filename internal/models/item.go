// models содержит доменные сущности сервиса алертов.
// Эти типы используются слоями бизнес-логики и транспорта.
package models

import (
	"time"
)

// Origin — происхождение новости для дифференциации в UI.
type Origin string

const (
	// OriginFeed — новость получена прямым опросом новостной RSS-выдачи.
	OriginFeed Origin = "feed"
	// OriginAISearch — новость получена от генеративного AI-поиска.
	OriginAISearch Origin = "ai-search"
)

// FeedItem — каноническая сущность новости.
//
// Особенности:
//   - живёт только в рамках одного запроса агрегации, не персистится;
//   - Title/Summary/Source — очищены от разметки и HTML-сущностей;
//   - PublishedAt — в UTC; при отсутствии даты у источника проставляется
//     время загрузки.
type FeedItem struct {
	// Title — заголовок новости. Обязателен.
	Title string `json:"title"`
	// Link — ссылка на материал. Обязательна; redirect-обёртки развёрнуты,
	// где это возможно без потери payload.
	Link string `json:"link"`
	// Source — название источника: тег source из ленты либо метка,
	// выведенная из hostname ссылки.
	Source string `json:"source"`
	// Summary — тизер, обрезанный до лимита из конфига (300 символов).
	Summary string `json:"description"`
	// Language — локаль запроса, которым новость была найдена.
	Language string `json:"language"`
	// Origin — провенанс: feed или ai-search.
	Origin Origin `json:"origin"`
	// PublishedAt — время публикации у источника (UTC).
	PublishedAt time.Time `json:"pubDate"`
}

// SearchResult — результат одного прохода агрегации по ключевому слову.
type SearchResult struct {
	// Items — итоговая выдача, не длиннее серверного лимита (80).
	Items []FeedItem
	// Total — размер выдачи после фильтра окна свежести, но до лимита.
	Total int
	// QueriedAt — момент выполнения запроса (UTC).
	QueriedAt time.Time
	// Languages — нормализованный список локалей запроса.
	Languages []string
	// Keyword — исходное ключевое слово.
	Keyword string
}
