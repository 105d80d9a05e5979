package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
)

// StockLevelHandler handles stock level API endpoints
type StockLevelHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockLevelHandler creates a new StockLevelHandler
func NewStockLevelHandler(stockService *inventoryapp.StockService) *StockLevelHandler {
	return &StockLevelHandler{
		stockService: stockService,
	}
}

// RegisterRoutes registers stock level routes on the given group
func (h *StockLevelHandler) RegisterRoutes(group *gin.RouterGroup) {
	stock := group.Group("/stock-levels")
	{
		stock.GET("", h.List)
		stock.GET("/:warehouseId/:productId", h.Get)
		stock.POST("/adjust", h.Adjust)
	}
}

// List handles GET /stock-levels
func (h *StockLevelHandler) List(c *gin.Context) {
	orgID, _, err := identity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter inventoryapp.StockLevelListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.stockService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get handles GET /stock-levels/:warehouseId/:productId
func (h *StockLevelHandler) Get(c *gin.Context) {
	orgID, _, err := identity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	warehouseID, err := uuid.Parse(c.Param("warehouseId"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	level, err := h.stockService.GetByWarehouseAndProduct(c.Request.Context(), orgID, warehouseID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, level)
}

// Adjust handles POST /stock-levels/adjust
func (h *StockLevelHandler) Adjust(c *gin.Context) {
	orgID, _, err := identity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	level, err := h.stockService.Adjust(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, level)
}
