// Package gateway is the development HTTP front for the storefront: it
// stubs the checkout-session endpoint and exposes the persisted documents
// read-only.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/example/fondantshop/pkg/config"
	"github.com/example/fondantshop/pkg/models"
	"github.com/example/fondantshop/pkg/repository"
	"github.com/example/fondantshop/pkg/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const defaultAuditLimit = 50

// AuditReader lists audit entries for one order id or document key,
// newest first.
type AuditReader interface {
	GetAuditLogs(ctx context.Context, entityID string, limit int64) ([]*repository.AuditLog, error)
}

type Gateway struct {
	config *config.Config
	store  *store.Store
	audit  AuditReader
	logger *zap.Logger
	router *gin.Engine
}

func NewGateway(cfg *config.Config, st *store.Store, logger *zap.Logger) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Gateway{
		config: cfg,
		store:  st,
		logger: logger,
		router: router,
	}
}

// WithAudit exposes audit entries under /api/v1/audit.
func (g *Gateway) WithAudit(reader AuditReader) *Gateway {
	g.audit = reader
	return g
}

func (g *Gateway) SetupRoutes() {
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.router.POST("/create-checkout-session", g.createCheckoutSession)

	v1 := g.router.Group("/api/v1")
	{
		v1.GET("/cart", g.getCart)
		v1.GET("/orders/:uid", g.listOrders)
		v1.GET("/audit/:entity", g.listAudit)
	}

	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (g *Gateway) Handler() http.Handler {
	return g.router
}

func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Gateway.Host, g.config.Gateway.Port)
	g.logger.Info("Gateway starting", zap.String("address", addr))
	return g.router.Run(addr)
}

type checkoutRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// createCheckoutSession godoc
// @Summary  Create a checkout session
// @Accept   json
// @Produce  json
// @Success  200 {object} map[string]string
// @Failure  400 {object} map[string]string
// @Router   /create-checkout-session [post]
func (g *Gateway) createCheckoutSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	price, err := models.ParsePrice(req.Price)
	if err != nil || price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	id := "cs_" + uuid.NewString()
	g.logger.Info("Checkout session created",
		zap.String("session_id", id),
		zap.String("product", req.Name),
		zap.String("price", price.String()))
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// getCart godoc
// @Summary  Current cart document
// @Produce  json
// @Router   /api/v1/cart [get]
func (g *Gateway) getCart(c *gin.Context) {
	var cart models.Cart
	if _, err := g.store.Read(c.Request.Context(), store.CartKey, &cart); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
		return
	}
	if cart == nil {
		cart = models.Cart{}
	}
	c.JSON(http.StatusOK, gin.H{
		"items": cart,
		"count": cart.Count(),
		"total": cart.Total(),
	})
}

// listOrders godoc
// @Summary  Orders recorded for an identity
// @Produce  json
// @Param    uid path string true "identity id"
// @Router   /api/v1/orders/{uid} [get]
func (g *Gateway) listOrders(c *gin.Context) {
	var ledger models.Ledger
	if _, err := g.store.Read(c.Request.Context(), store.OrdersKey, &ledger); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
		return
	}
	orders := ledger[c.Param("uid")]
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  len(orders),
	})
}

// listAudit godoc
// @Summary  Audit entries for an order id or document key
// @Produce  json
// @Param    entity path  string true  "order id or document key"
// @Param    limit  query int    false "maximum entries"
// @Router   /api/v1/audit/{entity} [get]
func (g *Gateway) listAudit(c *gin.Context) {
	if g.audit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "audit log not configured"})
		return
	}

	limit := int64(defaultAuditLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	logs, err := g.audit.GetAuditLogs(c.Request.Context(), c.Param("entity"), limit)
	if err != nil {
		g.logger.Error("Failed to read audit log", zap.String("entity", c.Param("entity")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read audit log"})
		return
	}
	if logs == nil {
		logs = []*repository.AuditLog{}
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": logs,
		"total":   len(logs),
	})
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
