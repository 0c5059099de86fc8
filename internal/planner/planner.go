// planner — планировщик мультиязычных запросов к новостной выдаче.
//
// Одно ключевое слово разворачивается в декартово произведение
// {локали} × {варианты запроса}: по каждому сочетанию Fetcher сделает
// ровно один запрос. Планировщик детерминирован и не делает I/O.
package planner

import (
	"fmt"
	"net/url"
)

// localeParams — параметры языка/региона/редакции апстрим-выдачи.
type localeParams struct {
	HL   string
	GL   string
	CEID string
}

// localeTable — статическая таблица поддерживаемых локалей.
// Нераспознанная локаль откатывается к параметрам en: запрос всё равно
// уходит, просто в англоязычную редакцию.
var localeTable = map[string]localeParams{
	"en": {HL: "en", GL: "US", CEID: "US:en"},
	"he": {HL: "iw", GL: "IL", CEID: "IL:he"},
	"ar": {HL: "ar", GL: "EG", CEID: "EG:ar"},
	"fa": {HL: "fa", GL: "IR", CEID: "IR:fa"},
	"ru": {HL: "ru", GL: "RU", CEID: "RU:ru"},
	"fr": {HL: "fr", GL: "FR", CEID: "FR:fr"},
	"tr": {HL: "tr", GL: "TR", CEID: "TR:tr"},
}

// Request — неизменяемый дескриптор одного апстрим-запроса.
type Request struct {
	// Locale — локаль, под которой выдан запрос; ею помечаются найденные items.
	Locale string
	// Query — итоговый текст поискового запроса.
	Query string
	// URL — полный URL запроса к выдаче.
	URL string
}

// Planner строит дескрипторы запросов по ключевому слову.
type Planner struct {
	baseURL string
}

// New создаёт планировщик. baseURL — адрес поисковой RSS-выдачи,
// например https://news.google.com/rss/search.
func New(baseURL string) *Planner {
	return &Planner{baseURL: baseURL}
}

// Build возвращает по два дескриптора на локаль: «чистое» ключевое слово и
// слово с окном свежести, встроенным в синтаксис запроса (when:Nh).
// Пост-фильтр по окну в агрегаторе это окно продублирует — уважает ли его
// апстрим, мы не знаем и не предполагаем.
//
// hours к этому моменту уже нормализован сервисом (2 по умолчанию, не более 24).
func (p *Planner) Build(keyword string, locales []string, hours int) []Request {
	queries := []string{
		keyword,
		fmt.Sprintf("%s when:%dh", keyword, hours),
	}

	out := make([]Request, 0, len(locales)*len(queries))
	for _, locale := range locales {
		cfg, ok := localeTable[locale]
		if !ok {
			cfg = localeTable["en"]
		}

		for _, q := range queries {
			vals := url.Values{}
			vals.Set("q", q)
			vals.Set("hl", cfg.HL)
			vals.Set("gl", cfg.GL)
			vals.Set("ceid", cfg.CEID)

			out = append(out, Request{
				Locale: locale,
				Query:  q,
				URL:    p.baseURL + "?" + vals.Encode(),
			})
		}
	}

	return out
}
