package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetLocationReport(ctx context.Context, location string, date time.Time) (*domain.LocationReport, error) {
	args := m.Called(ctx, location, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LocationReport), args.Error(1)
}

func (m *mockService) GetNetworkRollup(ctx context.Context, date time.Time, networks ...string) (*domain.RollupResult, error) {
	args := m.Called(ctx, date, networks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RollupResult), args.Error(1)
}

func (m *mockService) ListLocations(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockService) Networks() []domain.Network {
	return m.Called().Get(0).([]domain.Network)
}

type mockPlanWriter struct {
	mock.Mock
}

func (m *mockPlanWriter) SavePlan(ctx context.Context, location string, data []byte) error {
	return m.Called(ctx, location, data).Error(0)
}

func setupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/locations", h.ListLocations)
	r.Get("/networks", h.ListNetworks)
	r.Get("/locations/{location}/report", h.GetLocationReport)
	r.Put("/locations/{location}/plan", h.UploadPlan)
	r.Get("/networks/report", h.GetNetworkRollup)
	return r
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

var day = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

func TestListLocations(t *testing.T) {
	svc := new(mockService)
	svc.On("ListLocations", mock.Anything).Return([]string{"A", "B"}, nil)
	router := setupRouter(NewHandler(svc, nil, time.UTC))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/locations", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, []api.Location{{Name: "A"}, {Name: "B"}}, decode[[]api.Location](t, rec))
}

func TestListLocations_Error(t *testing.T) {
	svc := new(mockService)
	svc.On("ListLocations", mock.Anything).Return(nil, errors.New("denied"))
	router := setupRouter(NewHandler(svc, nil, time.UTC))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/locations", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListNetworks(t *testing.T) {
	svc := new(mockService)
	svc.On("Networks").Return([]domain.Network{{Name: "Alpha", Locations: []string{"A"}}})
	router := setupRouter(NewHandler(svc, nil, time.UTC))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/networks", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []api.Network{{Name: "Alpha", Locations: []string{"A"}}}, decode[[]api.Network](t, rec))
}

func TestGetLocationReport(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*mockService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "ok",
			path: "/locations/A/report?date=2024-05-10",
			setupMock: func(m *mockService) {
				m.On("GetLocationReport", mock.Anything, "A", day).Return(&domain.LocationReport{
					Location: "A",
					Date:     day,
					Categories: map[domain.Category]domain.CombinedMetrics{
						domain.CategoryHall: {FactSales: 9000, Guests: &domain.GuestMetrics{Fact: 50}},
					},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unconfigured",
			path: "/locations/A/report?date=2024-05-10",
			setupMock: func(m *mockService) {
				m.On("GetLocationReport", mock.Anything, "A", day).
					Return(nil, fmt.Errorf("A: %w", domain.ErrUnconfiguredLocation))
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "unconfigured location",
		},
		{
			name: "fetch failed",
			path: "/locations/A/report?date=2024-05-10",
			setupMock: func(m *mockService) {
				m.On("GetLocationReport", mock.Anything, "A", day).
					Return(nil, fmt.Errorf("A: %w: %w", domain.ErrFactFetchFailed, errors.New("timeout")))
			},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "fact fetch failed",
		},
		{
			name:           "bad date",
			path:           "/locations/A/report?date=10.05.2024",
			setupMock:      func(*mockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid 'date' format. Expected format: YYYY-MM-DD",
		},
		{
			name: "default date is today",
			path: "/locations/A/report",
			setupMock: func(m *mockService) {
				m.On("GetLocationReport", mock.Anything, "A", time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)).
					Return(&domain.LocationReport{Location: "A", Date: day.AddDate(0, 0, 1)}, nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			tt.setupMock(svc)
			h := NewHandler(svc, nil, time.UTC)
			h.now = func() time.Time { return time.Date(2024, 5, 11, 15, 30, 0, 0, time.UTC) }

			rec := httptest.NewRecorder()
			setupRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				assert.Equal(t, api.Error{Error: tt.expectedError}, decode[api.Error](t, rec))
			} else {
				res := decode[api.LocationReport](t, rec)
				assert.Equal(t, "A", res.Location)
				require.Len(t, res.Categories, 3)
				assert.Equal(t, []string{"delivery", "hall", "aggregator"},
					[]string{res.Categories[0].Category, res.Categories[1].Category, res.Categories[2].Category})
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestGetNetworkRollup(t *testing.T) {
	svc := new(mockService)
	svc.On("GetNetworkRollup", mock.Anything, day, []string{"Alpha", "Beta"}).Return(&domain.RollupResult{
		Report: domain.NetworkReport{
			Networks:  []string{"Alpha", "Beta"},
			Locations: []string{"A"},
			Date:      day,
		},
		Status:       domain.RollupStatusPartial,
		Failures:     []domain.LocationFailure{{Location: "B", Err: domain.ErrFactFetchFailed}},
		Unconfigured: []string{"C"},
	}, nil)
	router := setupRouter(NewHandler(svc, nil, time.UTC))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/networks/report?date=2024-05-10&network=Alpha&network=Beta", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	res := decode[api.NetworkReport](t, rec)
	assert.Equal(t, "partial", res.Status)
	assert.Equal(t, "2024-05-10", res.Date)
	assert.Equal(t, []api.LocationFailure{{Location: "B", Error: "fact fetch failed"}}, res.Failures)
	assert.Equal(t, []string{"C"}, res.Unconfigured)
	assert.Len(t, res.Categories, 3)
}

func TestGetNetworkRollup_UnknownNetwork(t *testing.T) {
	svc := new(mockService)
	svc.On("GetNetworkRollup", mock.Anything, day, []string{"Nope"}).
		Return(nil, fmt.Errorf("%q: %w", "Nope", domain.ErrUnknownNetwork))
	router := setupRouter(NewHandler(svc, nil, time.UTC))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/networks/report?date=2024-05-10&network=Nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadPlan(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*mockPlanWriter)
		expectedStatus int
	}{
		{
			name: "stored",
			body: "xlsx-bytes",
			setupMock: func(m *mockPlanWriter) {
				m.On("SavePlan", mock.Anything, "A", []byte("xlsx-bytes")).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "rejected",
			body: "garbage",
			setupMock: func(m *mockPlanWriter) {
				m.On("SavePlan", mock.Anything, "A", []byte("garbage")).Return(errors.New("invalid plan workbook"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty",
			setupMock:      func(*mockPlanWriter) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans := new(mockPlanWriter)
			tt.setupMock(plans)
			router := setupRouter(NewHandler(new(mockService), plans, time.UTC))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/locations/A/plan", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			plans.AssertExpectations(t)
		})
	}
}

func TestUploadPlan_NotSupported(t *testing.T) {
	router := setupRouter(NewHandler(new(mockService), nil, time.UTC))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/locations/A/plan", strings.NewReader("x")))

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
