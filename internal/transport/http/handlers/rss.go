package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/news-alerts/internal/models"
	"github.com/pribylovaa/news-alerts/internal/service"
)

// searchResponse — форма ответа GET /api/rss.
type searchResponse struct {
	Results   []models.FeedItem `json:"results"`
	Total     int               `json:"total"`
	QueriedAt time.Time         `json:"queriedAt"`
	Languages []string          `json:"languages"`
	Keyword   string            `json:"keyword"`
}

// SearchNews — GET /api/rss?q=<keyword>&langs=<csv>&hours=<n>.
//
// Контракт параметров:
//   - q обязателен, иначе 400;
//   - langs — CSV локалей, отсутствие отдаёт дефолт сервиса;
//   - hours — целое; нечисловое или отсутствующее значение трактуется
//     как «не задано» и получает серверный дефолт.
func (h *Handlers) SearchNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	keyword := q.Get("q")
	if strings.TrimSpace(keyword) == "" {
		writeError(w, service.ErrInvalidArgument)
		return
	}

	var locales []string
	if langs := q.Get("langs"); langs != "" {
		locales = strings.Split(langs, ",")
	}

	// Нечисловой hours не является ошибкой запроса.
	hours := 0
	if v := q.Get("hours"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			hours = n
		}
	}

	result, err := h.svc.SearchNews(r.Context(), service.Query{
		Keyword: keyword,
		Locales: locales,
		Hours:   hours,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	items := result.Items
	if items == nil {
		items = []models.FeedItem{}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Results:   items,
		Total:     result.Total,
		QueriedAt: result.QueriedAt,
		Languages: result.Languages,
		Keyword:   result.Keyword,
	})
}
