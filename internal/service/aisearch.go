package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/news-alerts/internal/models"
	"github.com/pribylovaa/news-alerts/pkg/log"
)

// AISearch запрашивает у генеративной модели свежие новости по ключевому слову.
//
// В отличие от SearchNews здесь один апстрим, поэтому деградировать не к чему:
// сбой модели возвращается ошибкой, транспорт отражает его кодом 500.
// Выключенный конфигурацией компонент — ErrAISearchDisabled.
func (s *Service) AISearch(ctx context.Context, keyword, locale string) ([]models.FeedItem, error) {
	const op = "service.AISearch"

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrInvalidArgument
	}

	if s.ai == nil {
		return nil, ErrAISearchDisabled
	}

	lg := log.From(ctx)
	lg.Info("ai_search_start", slog.String("op", op), slog.String("keyword", keyword))

	items, err := s.ai.Search(ctx, keyword, s.cfg.Sources.URLs, locale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("ai_search_done", slog.String("op", op), slog.Int("items", len(items)))

	return items, nil
}
