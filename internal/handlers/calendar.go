package handlers

import (
  "net/http"
  "time"

  "github.com/gin-gonic/gin"

  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/services"
)

type CalendarHandler struct {
  log             *logger.Logger
  calendarService services.CalendarService
}

func NewCalendarHandler(log *logger.Logger, calendarService services.CalendarService) *CalendarHandler {
  return &CalendarHandler{
    log:             log.With("handler", "CalendarHandler"),
    calendarService: calendarService,
  }
}

type syncCalendarRequest struct {
  StartDate string                `json:"start_date" binding:"required"`
  Slots     []services.WeeklySlot `json:"slots" binding:"required"`
  SkipDates []string              `json:"skip_dates"`
}

func (h *CalendarHandler) Sync(c *gin.Context) {
  planID, ok := pathUUID(c, "planId")
  if !ok {
    return
  }
  var req syncCalendarRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  startDate, err := time.Parse("2006-01-02", req.StartDate)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  skipDates := make([]time.Time, 0, len(req.SkipDates))
  for _, d := range req.SkipDates {
    parsed, err := time.Parse("2006-01-02", d)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "invalid_request", err)
      return
    }
    skipDates = append(skipDates, parsed)
  }

  result, err := h.calendarService.Sync(c.Request.Context(), services.SyncRequest{
    PlanID:    planID,
    StartDate: startDate,
    Slots:     req.Slots,
    SkipDates: skipDates,
  })
  if err != nil {
    h.log.Error("Sync failed", "error", err, "plan_id", planID)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

func (h *CalendarHandler) ListEvents(c *gin.Context) {
  planID, ok := pathUUID(c, "planId")
  if !ok {
    return
  }
  events, err := h.calendarService.ListEvents(c.Request.Context(), planID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"events": events})
}
