package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"store_order/internal/models"
	"store_order/internal/redis"
	"store_order/internal/scheduler"
	"store_order/internal/services"

	"github.com/gin-gonic/gin"
)

// APIHandler serves the inventory, order ledger, data upload, and scheduler
// endpoints.
type APIHandler struct {
	orderService     services.OrderService
	inventoryService services.InventoryService
	ingestService    services.IngestService
	scheduler        *scheduler.Scheduler
	cache            *redis.Client
}

func NewAPIHandler(
	orderService services.OrderService,
	inventoryService services.InventoryService,
	ingestService services.IngestService,
	sched *scheduler.Scheduler,
	cache *redis.Client,
) *APIHandler {
	return &APIHandler{
		orderService:     orderService,
		inventoryService: inventoryService,
		ingestService:    ingestService,
		scheduler:        sched,
		cache:            cache,
	}
}

func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Inventory

func (h *APIHandler) GetInventory(c *gin.Context) {
	records, err := h.inventoryService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": records, "total": len(records)})
}

func (h *APIHandler) GetLowStock(c *gin.Context) {
	records, err := h.inventoryService.LowStock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": records, "total": len(records)})
}

// Order ledger

func (h *APIHandler) GetPendingOrders(c *gin.Context) {
	orders, err := h.orderService.GetPending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

func (h *APIHandler) GetOrderHistory(c *gin.Context) {
	status := c.Query("status")
	days := 30
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}

	orders, err := h.orderService.GetHistory(status, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

func (h *APIHandler) GetOrderStatistics(c *gin.Context) {
	stats, err := h.orderService.GetStatistics(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *APIHandler) ApproveOrder(c *gin.Context) {
	h.reviewOrder(c, h.orderService.Approve)
}

func (h *APIHandler) RejectOrder(c *gin.Context) {
	h.reviewOrder(c, h.orderService.Reject)
}

func (h *APIHandler) reviewOrder(c *gin.Context, action func(uint, string) (*models.Order, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reviewed_by is required"})
		return
	}

	order, err := action(id, req.ReviewedBy)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// Data upload

func (h *APIHandler) UploadSalesCSV(c *gin.Context) {
	h.uploadCSV(c, h.ingestService.ImportSalesCSV)
}

func (h *APIHandler) UploadInventoryCSV(c *gin.Context) {
	h.uploadCSV(c, h.ingestService.ImportInventoryCSV)
}

func (h *APIHandler) uploadCSV(c *gin.Context, importFn func(io.Reader) (*services.ImportReport, error)) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only CSV files are supported"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	report, err := importFn(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

// Scheduler

func (h *APIHandler) GetSchedulerStatus(c *gin.Context) {
	status := h.scheduler.Status()
	response := gin.H{
		"status":        status,
		"schedule_time": status.ScheduleTime,
	}
	if h.cache != nil {
		if latest, err := h.cache.GetLatestRun(); err == nil {
			response["latest_run"] = latest
		}
	}
	c.JSON(http.StatusOK, response)
}

func (h *APIHandler) RunSchedulerNow(c *gin.Context) {
	rec, err := h.scheduler.RunNow()
	if err != nil {
		if errors.Is(err, scheduler.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "a pipeline run is already in progress"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "recommendation_id": rec.ID})
}
