package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mealprep/internal/database"
	"mealprep/internal/models"
	"mealprep/internal/monitoring"
	"mealprep/internal/planning"
	"mealprep/internal/service"
)

const testSecret = "kitchen-secret"

func newTestAPI(t *testing.T, secret string) *KitchenAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open("sqlite3", ":memory:", 0, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedRoster(db, models.Roster{
		Kitchen:   []models.Worker{{Name: "María", Percentage: 70}, {Name: "Luis", Percentage: 30}},
		Packaging: []models.Worker{{Name: "Ana", Percentage: 60}, {Name: "José", Percentage: 25}, {Name: "Carla", Percentage: 15}},
	}))

	store := database.NewStore(db)
	monitor := monitoring.NewMonitor()
	planner := service.NewPlanner(store, store, planning.Options{}, zap.NewNop().Sugar(), service.WithMonitor(monitor))
	return NewKitchenAPI(planner, Options{JWTSecret: secret, Monitor: monitor})
}

func do(api *KitchenAPI, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	api.Router.ServeHTTP(w, req)
	return w
}

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ops"}).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

const ketoOrder = `{
	"client": "Ana",
	"menu_type": "Keto",
	"delivery_date": "2026-10-19",
	"includes_breakfast": true,
	"menu": [
		{"name": "Pollo", "protein": "150g", "carb": "1 taza", "salad": 0.5},
		{"name": "Res", "protein": 200, "carb": null}
	]
}`

func TestHealth(t *testing.T) {
	w := do(newTestAPI(t, ""), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestCreateOrderAndPlan(t *testing.T) {
	api := newTestAPI(t, "")

	w := do(api, http.MethodPost, "/api/v1/orders", ketoOrder)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var stored models.RawOrder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.NotEmpty(t, stored.ID)

	w = do(api, http.MethodGet, "/api/v1/plans/2026-10-19", "")
	require.Equal(t, http.StatusOK, w.Code)

	var plan models.DailyPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, 1, plan.OrderCount)
	assert.Equal(t, 2, plan.Workload.GrandTotal)
	assert.Equal(t, []string{"Keto"}, plan.Kitchen.MenuTypes)
	keto := plan.Kitchen.ByMenuType["Keto"]
	assert.Equal(t, 150.0, keto.Dishes[1].ProteinGrams)
	assert.Equal(t, 200.0, keto.Dishes[2].ProteinGrams)
	require.Len(t, plan.Packaging.Clients, 1)
	assert.Equal(t, "Ana", plan.Packaging.Clients[0].Packager)
	assert.Len(t, plan.Kitchen.BreakfastClients, 1)

	w = do(api, http.MethodGet, "/api/v1/orders/"+stored.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPlanSubResources(t *testing.T) {
	api := newTestAPI(t, "")
	require.Equal(t, http.StatusCreated, do(api, http.MethodPost, "/api/v1/orders", ketoOrder).Code)

	for _, tc := range []struct {
		path string
		key  string
	}{
		{"/api/v1/plans/2026-10-19/kitchen", "kitchen"},
		{"/api/v1/plans/2026-10-19/packaging", "packaging"},
		{"/api/v1/plans/2026-10-19/workload", "workload"},
	} {
		t.Run(tc.key, func(t *testing.T) {
			w := do(api, http.MethodGet, tc.path, "")
			require.Equal(t, http.StatusOK, w.Code)

			var body map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body, tc.key)
			assert.JSONEq(t, `"2026-10-19"`, string(body["date"]))
		})
	}
}

func TestEmptyDayPlan(t *testing.T) {
	w := do(newTestAPI(t, ""), http.MethodGet, "/api/v1/plans/2026-12-25", "")
	require.Equal(t, http.StatusOK, w.Code)

	var plan models.DailyPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Zero(t, plan.Workload.GrandTotal)
	require.Len(t, plan.Workload.Kitchen, 2)
	assert.Zero(t, plan.Workload.Kitchen[0].Total)
}

func TestBadRequests(t *testing.T) {
	api := newTestAPI(t, "")

	testCases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"plan with bad date", http.MethodGet, "/api/v1/plans/19-10-2026", "", http.StatusBadRequest},
		{"orders without date", http.MethodGet, "/api/v1/orders", "", http.StatusBadRequest},
		{"unknown order", http.MethodGet, "/api/v1/orders/missing", "", http.StatusNotFound},
		{"malformed order", http.MethodPost, "/api/v1/orders", `{"client":`, http.StatusBadRequest},
		{"order without client", http.MethodPost, "/api/v1/orders", `{"delivery_date":"2026-10-19"}`, http.StatusBadRequest},
		{"unknown pool", http.MethodPut, "/api/v1/roster/delivery", `{"workers":[]}`, http.StatusBadRequest},
		{"bad percentage", http.MethodPut, "/api/v1/roster/kitchen", `{"workers":[{"name":"Luis","percentage":150}]}`, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(api, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestListOrders(t *testing.T) {
	api := newTestAPI(t, "")
	require.Equal(t, http.StatusCreated, do(api, http.MethodPost, "/api/v1/orders", ketoOrder).Code)
	require.Equal(t, http.StatusCreated, do(api, http.MethodPost, "/api/v1/orders",
		`{"client":"Aaron","plan":"Regular","delivery_date":"2026-10-19"}`).Code)

	w := do(api, http.MethodGet, "/api/v1/orders?date=2026-10-19", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Orders []models.RawOrder `json:"orders"`
		Count  int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "Aaron", body.Orders[0].Client)
}

func TestRosterEndpoints(t *testing.T) {
	api := newTestAPI(t, "")

	w := do(api, http.MethodGet, "/api/v1/roster", "")
	require.Equal(t, http.StatusOK, w.Code)
	var roster models.Roster
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roster))
	assert.Len(t, roster.Packaging, 3)

	w = do(api, http.MethodPut, "/api/v1/roster/packaging",
		`{"workers":[{"name":"Ana","percentage":50},{"name":"José","percentage":30}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Pool    string          `json:"pool"`
		Workers []models.Worker `json:"workers"`
		Warning string          `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "packaging", resp.Pool)
	assert.Len(t, resp.Workers, 2)
	assert.Contains(t, resp.Warning, "80")

	w = do(api, http.MethodPut, "/api/v1/roster/kitchen", `{"workers":[{"name":"María","percentage":100}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "warning")
}

func TestAuthGuardsMutatingRoutes(t *testing.T) {
	api := newTestAPI(t, testSecret)

	w := do(api, http.MethodPost, "/api/v1/orders", ketoOrder)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(api, http.MethodPost, "/api/v1/orders", ketoOrder, "Authorization", "Bearer "+signedToken(t, "other"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(api, http.MethodPost, "/api/v1/orders", ketoOrder, "Authorization", "Bearer "+signedToken(t, testSecret))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(api, http.MethodPut, "/api/v1/roster/kitchen", `{"workers":[]}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(api, http.MethodGet, "/api/v1/plans/2026-10-19", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t, "")
	require.Equal(t, http.StatusOK, do(api, http.MethodGet, "/api/v1/plans/2026-10-19", "").Code)

	w := do(api, http.MethodGet, "/api/v1/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	var metrics map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &metrics))
	assert.Contains(t, metrics, "uptime_seconds")
	assert.Equal(t, "2026-10-19", metrics["last_plan_date"])
}
