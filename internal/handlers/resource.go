package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/services"
)

type ResourceHandler struct {
  log             *logger.Logger
  resourceService services.ResourceService
}

func NewResourceHandler(log *logger.Logger, resourceService services.ResourceService) *ResourceHandler {
  return &ResourceHandler{
    log:             log.With("handler", "ResourceHandler"),
    resourceService: resourceService,
  }
}

func (h *ResourceHandler) Generate(c *gin.Context) {
  sessionID, ok := pathUUID(c, "sessionId")
  if !ok {
    return
  }
  resources, err := h.resourceService.Generate(c.Request.Context(), sessionID)
  if err != nil {
    h.log.Error("Generate resources failed", "error", err, "session_id", sessionID)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"resources": resources})
}

func (h *ResourceHandler) Refresh(c *gin.Context) {
  sessionID, ok := pathUUID(c, "sessionId")
  if !ok {
    return
  }
  resources, err := h.resourceService.Refresh(c.Request.Context(), sessionID)
  if err != nil {
    h.log.Error("Refresh resources failed", "error", err, "session_id", sessionID)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"resources": resources})
}

func (h *ResourceHandler) List(c *gin.Context) {
  sessionID, ok := pathUUID(c, "sessionId")
  if !ok {
    return
  }
  includeHidden := c.Query("include_hidden") == "true"
  resources, err := h.resourceService.List(c.Request.Context(), sessionID, includeHidden)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"resources": resources})
}

func (h *ResourceHandler) Update(c *gin.Context) {
  resourceID, ok := pathUUID(c, "resourceId")
  if !ok {
    return
  }
  var req services.UpdateResourceRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  resource, err := h.resourceService.UpdateResource(c.Request.Context(), resourceID, req)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"resource": resource})
}
