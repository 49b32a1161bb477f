package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/services"
  "github.com/courseloom/backend/internal/types"
)

type AdaptationHandler struct {
  log               *logger.Logger
  adaptationService services.AdaptationService
}

func NewAdaptationHandler(log *logger.Logger, adaptationService services.AdaptationService) *AdaptationHandler {
  return &AdaptationHandler{
    log:               log.With("handler", "AdaptationHandler"),
    adaptationService: adaptationService,
  }
}

func (h *AdaptationHandler) Create(c *gin.Context) {
  planID, ok := pathUUID(c, "planId")
  if !ok {
    return
  }
  var req struct {
    TriggerType string         `json:"trigger_type" binding:"required"`
    TriggerData map[string]any `json:"trigger_data"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  adaptation, err := h.adaptationService.Create(c.Request.Context(), services.CreateAdaptationRequest{
    PlanID:      planID,
    TriggerType: types.AdaptationTrigger(req.TriggerType),
    TriggerData: req.TriggerData,
  })
  if err != nil {
    h.log.Error("Create adaptation failed", "error", err, "plan_id", planID)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"adaptation": adaptation})
}

func (h *AdaptationHandler) Respond(c *gin.Context) {
  adaptationID, ok := pathUUID(c, "adaptationId")
  if !ok {
    return
  }
  var req struct {
    Status         string         `json:"status" binding:"required"`
    Customizations map[string]any `json:"customizations"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  adaptation, err := h.adaptationService.Respond(c.Request.Context(), services.RespondAdaptationRequest{
    AdaptationID:   adaptationID,
    Status:         types.AdaptationStatus(req.Status),
    Customizations: req.Customizations,
  })
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"adaptation": adaptation})
}

func (h *AdaptationHandler) ListByPlan(c *gin.Context) {
  planID, ok := pathUUID(c, "planId")
  if !ok {
    return
  }
  adaptations, err := h.adaptationService.ListByPlan(c.Request.Context(), planID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"adaptations": adaptations})
}
