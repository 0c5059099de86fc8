// handlers — REST-обработчики публичного API сервиса алертов.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/news-alerts/internal/models"
	"github.com/pribylovaa/news-alerts/internal/service"
)

// NewsService — контракт бизнес-логики, нужный транспорту.
type NewsService interface {
	SearchNews(ctx context.Context, q service.Query) (*models.SearchResult, error)
	AISearch(ctx context.Context, keyword, locale string) ([]models.FeedItem, error)
}

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	svc NewsService
}

func New(svc NewsService) *Handlers {
	return &Handlers{svc: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// writeBadRequest — 400 с фиксированным текстом ошибки.
// Клиенты матчатся на поле error дословно.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// writeError переводит ошибку бизнес-логики в контракт API.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		writeBadRequest(w, "Missing query parameter: q")
	case errors.Is(err, service.ErrAISearchDisabled):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "AI search is not configured",
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"message": err.Error(),
		})
	}
}
