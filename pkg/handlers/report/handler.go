package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxPlanSize = 10 << 20 // 10 MiB

// PlanWriter stores an uploaded plan workbook for a location.
type PlanWriter interface {
	SavePlan(ctx context.Context, location string, data []byte) error
}

type Handler struct {
	reports report.Service
	plans   PlanWriter
	loc     *time.Location
	now     func() time.Time
}

func NewHandler(reports report.Service, plans PlanWriter, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		reports: reports,
		plans:   plans,
		loc:     loc,
		now:     time.Now,
	}
}

func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	locations, err := h.reports.ListLocations(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list locations")
		writeError(w, r, http.StatusInternalServerError, "failed to list locations")
		return
	}

	response := make([]api.Location, 0, len(locations))
	for _, l := range locations {
		response = append(response, api.Location{Name: l})
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) ListNetworks(w http.ResponseWriter, r *http.Request) {
	networks := h.reports.Networks()
	response := make([]api.Network, 0, len(networks))
	for _, n := range networks {
		response = append(response, api.Network{Name: n.Name, Locations: append([]string{}, n.Locations...)})
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetLocationReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	location := chi.URLParam(r, "location")

	date, err := h.date(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid 'date' format. Expected format: YYYY-MM-DD")
		return
	}

	rep, err := h.reports.GetLocationReport(ctx, location, date)
	switch {
	case errors.Is(err, domain.ErrUnconfiguredLocation):
		writeError(w, r, http.StatusNotFound, domain.ErrUnconfiguredLocation.Error())
		return
	case errors.Is(err, domain.ErrFactFetchFailed):
		logger.Warn().Err(err).Str("location", location).Msg("fact fetch failed")
		writeError(w, r, http.StatusBadGateway, domain.ErrFactFetchFailed.Error())
		return
	case err != nil:
		logger.Error().Err(err).Str("location", location).Msg("failed to build location report")
		writeError(w, r, http.StatusInternalServerError, "failed to build location report")
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapLocationReportDomainToApi(*rep))
}

func (h *Handler) GetNetworkRollup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	date, err := h.date(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid 'date' format. Expected format: YYYY-MM-DD")
		return
	}

	networks := r.URL.Query()["network"]
	result, err := h.reports.GetNetworkRollup(ctx, date, networks...)
	switch {
	case errors.Is(err, domain.ErrUnknownNetwork):
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	case err != nil:
		logger.Error().Err(err).Strs("networks", networks).Msg("failed to build network rollup")
		writeError(w, r, http.StatusInternalServerError, "failed to build network rollup")
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapRollupResultDomainToApi(*result))
}

// UploadPlan replaces the plan workbook of a location with the request body.
func (h *Handler) UploadPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	location := chi.URLParam(r, "location")

	if h.plans == nil {
		writeError(w, r, http.StatusNotImplemented, "plan upload is not supported")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPlanSize))
	if err != nil {
		writeError(w, r, http.StatusRequestEntityTooLarge, "plan file is too large")
		return
	}
	if len(data) == 0 {
		writeError(w, r, http.StatusBadRequest, "empty plan file")
		return
	}

	if err := h.plans.SavePlan(ctx, location, data); err != nil {
		logger.Warn().Err(err).Str("location", location).Msg("plan upload rejected")
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info().Str("location", location).Int("bytes", len(data)).Msg("plan uploaded")
	w.WriteHeader(http.StatusNoContent)
}

// date returns the requested day, or today in the handler's time zone.
func (h *Handler) date(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return domain.Day(h.now().In(h.loc)), nil
	}
	return time.ParseInLocation(domain.DateLayout, raw, h.loc)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, api.Error{Error: msg})
}
