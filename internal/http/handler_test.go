package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plate-service/internal/auth"
	"plate-service/internal/http/middleware"
	"plate-service/internal/model"
	"plate-service/internal/platecore"
	"plate-service/internal/repository"
	"plate-service/internal/service"
)

type vehicleStore struct {
	mu       sync.Mutex
	vehicles map[string]model.Vehicle
}

func newVehicleStore() *vehicleStore {
	return &vehicleStore{vehicles: map[string]model.Vehicle{}}
}

func (s *vehicleStore) Create(_ context.Context, v *model.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vehicles[v.VehicleKey]; ok {
		return repository.ErrDuplicateKey
	}
	v.ID = uuid.New()
	s.vehicles[v.VehicleKey] = *v
	return nil
}

func (s *vehicleStore) GetByID(_ context.Context, id uuid.UUID) (*model.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.vehicles {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, nil
}

func (s *vehicleStore) GetByKey(_ context.Context, key string) (*model.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.vehicles[key]; ok {
		return &v, nil
	}
	return nil, nil
}

func (s *vehicleStore) GetByPlate(_ context.Context, plate string) (*model.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.vehicles {
		if v.PlateNumber == plate {
			return &v, nil
		}
	}
	return nil, nil
}

func (s *vehicleStore) List(_ context.Context, filter repository.VehicleListFilter) ([]model.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Vehicle{}
	for _, v := range s.vehicles {
		if filter.CreatedByOrgID != nil && v.CreatedByOrgID != *filter.CreatedByOrgID {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

type testServer struct {
	router *gin.Engine
	parser *auth.Parser
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	plates := service.NewPlateService(platecore.NewRegistry(nil))
	vehicles := service.NewVehicleService(newVehicleStore(), plates)
	parser := auth.NewParser("test-secret")

	handler := NewHandler(plates, vehicles, zerolog.Nop())
	return &testServer{
		router: NewRouter(handler, middleware.Auth(parser), "test"),
		parser: parser,
	}
}

func (s *testServer) token(t *testing.T, role model.UserRole) string {
	t.Helper()
	token, err := s.parser.Sign(auth.Claims{UserID: uuid.New(), OrgID: uuid.New(), Role: role})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec.Code, decoded
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/vehicles", nil)
	req.Header.Set("Origin", "https://dealer.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	methods := rec.Header().Get("Access-Control-Allow-Methods")
	assert.Contains(t, methods, http.MethodPost)
	assert.NotContains(t, methods, http.MethodDelete)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, http.MethodGet, "/plates/jurisdictions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "authorization header missing", body["error"])

	status, body = srv.do(t, http.MethodGet, "/plates/jurisdictions", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid token", body["error"])
}

func TestPlateEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, model.UserRoleOperator)

	t.Run("list jurisdictions", func(t *testing.T) {
		status, body := srv.do(t, http.MethodGet, "/plates/jurisdictions", token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, []any{"LATAM-GENERIC", "MX-CMX", "US-GENERIC"}, body["data"])
	})

	t.Run("validate accepted plate", func(t *testing.T) {
		status, body := srv.do(t, http.MethodPost, "/plates/validate", token, map[string]string{
			"jurisdiction_code": "MX-CMX",
			"plate":             "abc123",
		})
		require.Equal(t, http.StatusOK, status)

		data := body["data"].(map[string]any)
		assert.Equal(t, true, data["is_valid"])
		assert.Equal(t, "ABC123", data["normalized_plate"])
		assert.Equal(t, "ABC-123", data["display_plate"])
		assert.Equal(t, "MX-CMX", data["jurisdiction_code"])
		assert.Empty(t, data["reasons"])
		require.Len(t, data["warnings"], 1)
	})

	t.Run("validate empty plate", func(t *testing.T) {
		status, body := srv.do(t, http.MethodPost, "/plates/validate", token, map[string]string{
			"jurisdiction_code": "US-GENERIC",
			"plate":             "",
		})
		require.Equal(t, http.StatusOK, status)

		data := body["data"].(map[string]any)
		assert.Equal(t, false, data["is_valid"])
		assert.Len(t, data["reasons"], 2)
	})

	t.Run("validate unknown jurisdiction", func(t *testing.T) {
		status, _ := srv.do(t, http.MethodPost, "/plates/validate", token, map[string]string{
			"jurisdiction_code": "XX",
			"plate":             "ABC123",
		})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("validate without jurisdiction", func(t *testing.T) {
		status, _ := srv.do(t, http.MethodPost, "/plates/validate", token, map[string]string{"plate": "ABC123"})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("detect", func(t *testing.T) {
		status, body := srv.do(t, http.MethodGet, "/plates/detect?plate=abcd-1234", token, nil)
		require.Equal(t, http.StatusOK, status)

		data := body["data"].(map[string]any)
		assert.Equal(t, "ABCD1234", data["normalized_plate"])
		assert.Equal(t, []any{"LATAM-GENERIC"}, data["jurisdiction_codes"])

		status, _ = srv.do(t, http.MethodGet, "/plates/detect", token, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestVehicleEndpoints(t *testing.T) {
	srv := newTestServer(t)
	dealer := srv.token(t, model.UserRoleDealer)
	operator := srv.token(t, model.UserRoleOperator)

	expected := platecore.GenerateVehicleID(platecore.VehicleIDInput{VIN: "1HGCM82633A123456", Plate: "ABC123"})

	t.Run("identity", func(t *testing.T) {
		status, body := srv.do(t, http.MethodPost, "/vehicles/identity", operator, map[string]string{
			"vin":   " 1hgcm82633a123456",
			"plate": "abc 123",
		})
		require.Equal(t, http.StatusOK, status)

		data := body["data"].(map[string]any)
		assert.Equal(t, expected.ID, data["id"])
		assert.Equal(t, "1HGCM82633A123456", data["normalized_vin"])
		assert.Equal(t, "ABC123", data["normalized_plate"])
	})

	var vehicleID string

	t.Run("register", func(t *testing.T) {
		status, body := srv.do(t, http.MethodPost, "/vehicles", dealer, map[string]string{
			"vin":               "1HGCM82633A123456",
			"plate":             "ABC-123",
			"jurisdiction_code": "MX-CMX",
		})
		require.Equal(t, http.StatusCreated, status)

		vehicle := body["data"].(map[string]any)["vehicle"].(map[string]any)
		assert.Equal(t, expected.ID, vehicle["vehicle_key"])
		vehicleID = vehicle["id"].(string)
	})

	t.Run("register duplicate", func(t *testing.T) {
		status, _ := srv.do(t, http.MethodPost, "/vehicles", dealer, map[string]string{
			"vin":               "1hgcm82633a123456",
			"plate":             "abc 123",
			"jurisdiction_code": "MX-CMX",
		})
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("register invalid plate", func(t *testing.T) {
		status, body := srv.do(t, http.MethodPost, "/vehicles", dealer, map[string]string{
			"vin":               "1HGCM82633A123456",
			"plate":             "12",
			"jurisdiction_code": "MX-CMX",
		})
		require.Equal(t, http.StatusUnprocessableEntity, status)

		validation := body["validation"].(map[string]any)
		assert.Equal(t, false, validation["is_valid"])
	})

	t.Run("register forbidden for operator", func(t *testing.T) {
		status, _ := srv.do(t, http.MethodPost, "/vehicles", operator, map[string]string{
			"vin":               "1HGCM82633A123457",
			"plate":             "XYZ987",
			"jurisdiction_code": "MX-CMX",
		})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("get by id", func(t *testing.T) {
		status, body := srv.do(t, http.MethodGet, "/vehicles/"+vehicleID, operator, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, expected.ID, body["data"].(map[string]any)["vehicle_key"])

		status, _ = srv.do(t, http.MethodGet, "/vehicles/"+uuid.NewString(), operator, nil)
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = srv.do(t, http.MethodGet, "/vehicles/nope", operator, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("get by key", func(t *testing.T) {
		status, body := srv.do(t, http.MethodGet, "/vehicles/by-key/"+expected.ID, operator, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, vehicleID, body["data"].(map[string]any)["id"])

		status, _ = srv.do(t, http.MethodGet, "/vehicles/by-key/sha256:zz", operator, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("get by plate", func(t *testing.T) {
		status, body := srv.do(t, http.MethodGet, "/vehicles/by-plate/abc-123", operator, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, vehicleID, body["data"].(map[string]any)["id"])

		status, _ = srv.do(t, http.MethodGet, "/vehicles/by-plate/XYZ999", operator, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("lookup", func(t *testing.T) {
		status, body := srv.do(t, http.MethodPost, "/vehicles/lookup", operator, map[string]string{
			"vin":   "1hgcm82633a123456",
			"plate": "ÁBC-123",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, vehicleID, body["data"].(map[string]any)["id"])
	})
}
