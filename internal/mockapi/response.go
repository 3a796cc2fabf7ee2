package mockapi

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"presensi.client/internal/core/model"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeOK[T any](w http.ResponseWriter, status int, message string, data T) {
	writeJSON(w, status, model.Response[T]{Success: true, Message: message, Data: data})
}

func writePage[T any](w http.ResponseWriter, message string, data []T, meta model.Meta) {
	if data == nil {
		data = []T{}
	}
	writeJSON(w, http.StatusOK, model.ResponseWithMeta[[]T]{
		Response: model.Response[[]T]{Success: true, Message: message, Data: data},
		Meta:     meta,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.Response[model.Empty]{Success: false, Message: message})
}

// pagination reads page and limit, defaulting to 1 and 10.
func pagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return page, limit
}

// paginate slices items for page and limit and builds the meta block.
func paginate[T any](items []T, page, limit int) ([]T, model.Meta) {
	meta := model.Meta{
		Page:       page,
		Limit:      limit,
		Total:      len(items),
		TotalPages: int(math.Ceil(float64(len(items)) / float64(limit))),
	}
	// Reject far pages before multiplying so page*limit cannot overflow.
	if page-1 > len(items)/limit {
		return nil, meta
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil, meta
	}
	end := len(items)
	if limit < end-start {
		end = start + limit
	}
	return items[start:end], meta
}
