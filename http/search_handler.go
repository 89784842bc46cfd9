package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/yourorg/parking-api/internal/metrics"
	"github.com/yourorg/parking-api/internal/parking"
	"github.com/yourorg/parking-api/internal/search"
)

type SearchDeps struct {
	Search *search.Service
	Log    *zap.Logger
}

// RegisterSearch mounts GET /api/parking. The handler is the single error
// boundary: every failure from the components below maps to the
// {success:false, error} envelope with HTTP 400, and no partial result set is
// ever returned.
func RegisterSearch(r chi.Router, d SearchDeps) {
	r.Get("/api/parking", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		query := parking.Query{
			City:      q.Get("city"),
			Type:      q.Get("parkingType"),
			Tier:      q.Get("availability"),
			Latitude:  q.Get("latitude"),
			Longitude: q.Get("longitude"),
		}

		results, err := d.Search.Search(req.Context(), query)
		if err != nil {
			metrics.SearchRequests.WithLabelValues("error").Inc()
			var verr *parking.ValidationError
			if !errors.As(err, &verr) {
				d.Log.Warn("search failed", zap.String("city", query.City), zap.Error(err))
			}
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"success": false, "error": err.Error()})
			return
		}

		metrics.SearchRequests.WithLabelValues("ok").Inc()
		render.JSON(w, req, map[string]any{"success": true, "data": results})
	})
}
