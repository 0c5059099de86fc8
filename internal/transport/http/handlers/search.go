package handlers

import (
	"net/http"

	"github.com/pribylovaa/news-alerts/internal/models"
)

// aiSearchRequest — тело POST /api/search.
type aiSearchRequest struct {
	Keyword string `json:"keyword"`
	Locale  string `json:"locale"`
}

// aiSearchResponse — форма ответа POST /api/search.
type aiSearchResponse struct {
	Results []models.FeedItem `json:"results"`
	Total   int               `json:"total"`
}

// AISearch — POST /api/search: поиск новостей генеративной моделью.
func (h *Handlers) AISearch(w http.ResponseWriter, r *http.Request) {
	var req aiSearchRequest
	if err := decodeStrict(r, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	items, err := h.svc.AISearch(r.Context(), req.Keyword, req.Locale)
	if err != nil {
		writeError(w, err)
		return
	}

	if items == nil {
		items = []models.FeedItem{}
	}

	writeJSON(w, http.StatusOK, aiSearchResponse{Results: items, Total: len(items)})
}
