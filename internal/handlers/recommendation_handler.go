package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"store_order/internal/models"
	"store_order/internal/scheduler"
	"store_order/internal/services"

	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	recommendationService services.RecommendationService
	executionService      services.ExecutionService
	scheduler             *scheduler.Scheduler
}

func NewRecommendationHandler(
	recommendationService services.RecommendationService,
	executionService services.ExecutionService,
	sched *scheduler.Scheduler,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		executionService:      executionService,
		scheduler:             sched,
	}
}

// RunPipeline triggers a full pipeline run synchronously and returns the
// persisted recommendation.
func (h *RecommendationHandler) RunPipeline(c *gin.Context) {
	rec, err := h.scheduler.RunNow()
	if err != nil {
		if errors.Is(err, scheduler.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "a pipeline run is already in progress"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *RecommendationHandler) List(c *gin.Context) {
	status := c.Query("status")
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	recs, err := h.recommendationService.List(status, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs, "total": len(recs)})
}

func (h *RecommendationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	rec, err := h.recommendationService.GetByID(id)
	if err != nil {
		respondRecommendationError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *RecommendationHandler) GetItems(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	items, err := h.recommendationService.GetItems(id)
	if err != nil {
		respondRecommendationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

type reviewRequest struct {
	ReviewedBy string `json:"reviewed_by" binding:"required"`
}

func (h *RecommendationHandler) Approve(c *gin.Context) {
	h.review(c, h.recommendationService.Approve)
}

func (h *RecommendationHandler) Reject(c *gin.Context) {
	h.review(c, h.recommendationService.Reject)
}

func (h *RecommendationHandler) review(c *gin.Context, action func(uint, string) (*models.Recommendation, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reviewed_by is required"})
		return
	}

	rec, err := action(id, req.ReviewedBy)
	if err != nil {
		respondRecommendationError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *RecommendationHandler) Execute(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.executionService.Execute(c.Request.Context(), id)
	if err != nil {
		respondRecommendationError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

type updateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *RecommendationHandler) UpdateItem(c *gin.Context) {
	recID, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	adjustment, err := h.recommendationService.UpdateItemQuantity(recID, itemID, req.Quantity)
	if err != nil {
		respondRecommendationError(c, err)
		return
	}
	c.JSON(http.StatusOK, adjustment)
}

func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return uint(id), true
}

func respondRecommendationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRecommendationNotFound), errors.Is(err, services.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyExecuted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoOrderItems), errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrProductNotInInventory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
