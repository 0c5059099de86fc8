// service содержит бизнес-логику сервиса алертов.
package service

import (
	"context"
	"errors"

	"github.com/pribylovaa/news-alerts/internal/config"
	"github.com/pribylovaa/news-alerts/internal/feed"
	"github.com/pribylovaa/news-alerts/internal/models"
	"github.com/pribylovaa/news-alerts/internal/planner"
)

var (
	// ErrInvalidArgument — некорректные входные аргументы (пустое ключевое слово).
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAISearchDisabled — AI-поиск выключен конфигурацией.
	// Транспорт: 503.
	ErrAISearchDisabled = errors.New("ai search disabled")
)

// FeedFetcher — абстракция конкурентного загрузчика новостной выдачи.
//
// Требования к реализации:
//  1. канал закрывается после того, как завершатся все запросы —
//     «дождаться всех», без fail-fast;
//  2. сбой запроса отражается пустыми Items, не эскалируется;
//  3. реализация обязана уважать ctx (отмена/таймауты).
type FeedFetcher interface {
	FetchAll(ctx context.Context, reqs []planner.Request) <-chan feed.Result
}

// SourceReader — абстракция чтения пользовательских RSS-источников.
// Сбои источников реализация глотает сама и возвращает то, что собралось.
type SourceReader interface {
	Search(ctx context.Context, urls []string, keyword, locale string) []models.FeedItem
}

// AIClient — абстракция генеративного AI-поиска.
type AIClient interface {
	Search(ctx context.Context, keyword string, customSources []string, locale string) ([]models.FeedItem, error)
}

// Service — бизнес-логика агрегации новостей.
type Service struct {
	planner *planner.Planner
	fetcher FeedFetcher
	sources SourceReader
	ai      AIClient
	cfg     config.Config
}

// New создает новый экземпляр Service. sources и ai допускают nil —
// соответствующие компоненты просто не участвуют в выдаче.
func New(pl *planner.Planner, fetcher FeedFetcher, sources SourceReader, ai AIClient, cfg config.Config) *Service {
	return &Service{
		planner: pl,
		fetcher: fetcher,
		sources: sources,
		ai:      ai,
		cfg:     cfg,
	}
}
