package video

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/viewtube/viewtube/internal/httputil"
)

const defaultPage = 1
const defaultPageSize = 10
const maxPageSize = 100

// sortColumns whitelists the sortable fields; request values never reach
// the ORDER BY clause directly.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"duration":  "duration",
}

type listParams struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string
	SortType string
	UserID   string
}

func parseListParams(r *http.Request) (listParams, error) {
	p := listParams{
		Page:     defaultPage,
		Limit:    defaultPageSize,
		SortBy:   "created_at",
		SortType: "DESC",
	}

	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return p, fmt.Errorf("page must be a positive integer")
		}
		p.Page = page
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return p, fmt.Errorf("limit must be a positive integer")
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
		p.Limit = limit
	}

	p.Query = strings.TrimSpace(q.Get("query"))

	if raw := q.Get("sortBy"); raw != "" {
		col, ok := sortColumns[raw]
		if !ok {
			return p, fmt.Errorf("unsupported sort field %q", raw)
		}
		p.SortBy = col
	}

	switch q.Get("sortType") {
	case "":
	case "asc":
		p.SortType = "ASC"
	case "desc":
		p.SortType = "DESC"
	default:
		return p, fmt.Errorf("sortType must be asc or desc")
	}

	if raw := q.Get("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return p, fmt.Errorf("userId must be a valid identifier")
		}
		p.UserID = id.String()
	}

	return p, nil
}

type listResponse struct {
	Videos []videoRecord `json:"videos"`
	Total  int           `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, err := parseListParams(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := ""
	var filterArgs []any
	paramIdx := 1

	if p.Query != "" {
		escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(p.Query)
		filter += fmt.Sprintf(" AND title ILIKE $%d", paramIdx)
		filterArgs = append(filterArgs, "%"+escaped+"%")
		paramIdx++
	}

	if p.UserID != "" {
		filter += fmt.Sprintf(" AND owner_id = $%d", paramIdx)
		filterArgs = append(filterArgs, p.UserID)
		paramIdx++
	}

	listQuery := `SELECT ` + videoColumns + ` FROM videos WHERE true` + filter +
		fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", p.SortBy, p.SortType, paramIdx, paramIdx+1)
	listArgs := append(append([]any{}, filterArgs...), p.Limit, (p.Page-1)*p.Limit)

	rows, err := h.db.Query(r.Context(), listQuery, listArgs...)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list videos")
		return
	}
	defer rows.Close()

	videos := []videoRecord{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "failed to scan video")
			return
		}
		videos = append(videos, *v)
	}
	if err := rows.Err(); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list videos")
		return
	}

	// The count runs under the same filter but is a separate statement, so
	// it is not point-in-time consistent with the page.
	var total int
	countQuery := `SELECT COUNT(*) FROM videos WHERE true` + filter
	if err := h.db.QueryRow(r.Context(), countQuery, filterArgs...).Scan(&total); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to count videos")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, listResponse{
		Videos: videos,
		Total:  total,
		Page:   p.Page,
		Limit:  p.Limit,
	}, "Videos fetched successfully")
}
