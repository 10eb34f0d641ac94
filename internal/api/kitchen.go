package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mealprep/internal/database"
	"mealprep/internal/live"
	"mealprep/internal/models"
	"mealprep/internal/monitoring"
	"mealprep/internal/service"
)

// Planner is what the API needs from the planning service
type Planner interface {
	Plan(ctx context.Context, date string) (models.DailyPlan, error)
	Orders(ctx context.Context, date string) ([]models.RawOrder, error)
	GetOrder(ctx context.Context, id string) (models.RawOrder, error)
	SubmitOrder(ctx context.Context, order models.RawOrder) (models.RawOrder, error)
	Roster(ctx context.Context) (models.Roster, error)
	UpdatePool(ctx context.Context, pool models.Pool, workers []models.Worker) (string, error)
}

// Options configures NewKitchenAPI. Zero values disable the matching feature.
type Options struct {
	JWTSecret string
	Monitor   *monitoring.Monitor
	Hub       *live.Hub
	Logger    *zap.SugaredLogger
}

// KitchenAPI serves production plans, orders and the roster over HTTP
type KitchenAPI struct {
	Router  *gin.Engine
	Planner Planner
	Monitor *monitoring.Monitor
	Hub     *live.Hub

	secret string
	log    *zap.SugaredLogger
}

// NewKitchenAPI creates a new kitchen API instance
func NewKitchenAPI(planner Planner, opts Options) *KitchenAPI {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))

	api := &KitchenAPI{
		Router:  router,
		Planner: planner,
		Monitor: opts.Monitor,
		Hub:     opts.Hub,
		secret:  opts.JWTSecret,
		log:     log,
	}

	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (k *KitchenAPI) setupRoutes() {
	k.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "mealprep API is running"})
	})

	guard := func(c *gin.Context) { c.Next() }
	if k.secret != "" {
		guard = AuthMiddleware(k.secret)
	}

	v1 := k.Router.Group("/api/v1")
	{
		// Production plans
		v1.GET("/plans/:date", k.GetPlan)
		v1.GET("/plans/:date/kitchen", k.GetKitchenSheet)
		v1.GET("/plans/:date/packaging", k.GetPackagingSheet)
		v1.GET("/plans/:date/workload", k.GetWorkload)

		// Order intake
		v1.GET("/orders", k.ListOrders)
		v1.GET("/orders/:id", k.GetOrder)
		v1.POST("/orders", guard, k.CreateOrder)

		// Staff roster
		v1.GET("/roster", k.GetRoster)
		v1.PUT("/roster/:pool", guard, k.UpdatePool)

		v1.GET("/metrics", k.GetMetrics)
	}

	if k.Hub != nil {
		k.Router.GET("/ws", k.Hub.ServeWS)
	}
}

// Plan handlers

func (k *KitchenAPI) GetPlan(c *gin.Context) {
	plan, ok := k.plan(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (k *KitchenAPI) GetKitchenSheet(c *gin.Context) {
	plan, ok := k.plan(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":      plan.Date,
		"kitchen":   plan.Kitchen,
		"purchases": plan.Purchases,
	})
}

func (k *KitchenAPI) GetPackagingSheet(c *gin.Context) {
	plan, ok := k.plan(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":      plan.Date,
		"packaging": plan.Packaging,
	})
}

func (k *KitchenAPI) GetWorkload(c *gin.Context) {
	plan, ok := k.plan(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":     plan.Date,
		"workload": plan.Workload,
	})
}

func (k *KitchenAPI) plan(c *gin.Context) (models.DailyPlan, bool) {
	plan, err := k.Planner.Plan(c.Request.Context(), c.Param("date"))
	if err != nil {
		k.fail(c, err)
		return models.DailyPlan{}, false
	}
	return plan, true
}

// Order handlers

func (k *KitchenAPI) ListOrders(c *gin.Context) {
	orders, err := k.Planner.Orders(c.Request.Context(), c.Query("date"))
	if err != nil {
		k.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

func (k *KitchenAPI) GetOrder(c *gin.Context) {
	order, err := k.Planner.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		k.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (k *KitchenAPI) CreateOrder(c *gin.Context) {
	var order models.RawOrder
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := k.Planner.SubmitOrder(c.Request.Context(), order)
	if err != nil {
		k.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

// Roster handlers

func (k *KitchenAPI) GetRoster(c *gin.Context) {
	roster, err := k.Planner.Roster(c.Request.Context())
	if err != nil {
		k.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

func (k *KitchenAPI) UpdatePool(c *gin.Context) {
	var req struct {
		Workers []models.Worker `json:"workers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pool := models.Pool(c.Param("pool"))
	warning, err := k.Planner.UpdatePool(c.Request.Context(), pool, req.Workers)
	if err != nil {
		k.fail(c, err)
		return
	}

	roster, err := k.Planner.Roster(c.Request.Context())
	if err != nil {
		k.fail(c, err)
		return
	}

	resp := gin.H{"pool": pool, "workers": roster.Pool(pool)}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

func (k *KitchenAPI) GetMetrics(c *gin.Context) {
	if k.Monitor == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, k.Monitor.GetMetrics())
}

// fail maps service and store errors to HTTP status codes
func (k *KitchenAPI) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidOrder),
		errors.Is(err, service.ErrInvalidPool),
		errors.Is(err, service.ErrInvalidRoster):
		status = http.StatusBadRequest
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	default:
		k.log.Errorw("request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
