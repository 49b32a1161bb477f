package handlers

import (
  "encoding/json"
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/requestdata"
  "github.com/courseloom/backend/internal/services"
  "github.com/courseloom/backend/internal/types"
)

type CurriculumHandler struct {
  log               *logger.Logger
  curriculumService services.CurriculumService
}

func NewCurriculumHandler(log *logger.Logger, curriculumService services.CurriculumService) *CurriculumHandler {
  return &CurriculumHandler{
    log:               log.With("handler", "CurriculumHandler"),
    curriculumService: curriculumService,
  }
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param(name))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return uuid.Nil, false
  }
  return id, true
}

type createCourseRequest struct {
  CourseName       string   `json:"course_name" binding:"required"`
  CourseCode       string   `json:"course_code"`
  Subject          string   `json:"subject" binding:"required"`
  Department       string   `json:"department"`
  TotalWeeks       int      `json:"total_weeks" binding:"required,min=1"`
  HoursPerWeek     float64  `json:"hours_per_week" binding:"required"`
  SessionDuration  int      `json:"session_duration" binding:"required,min=1"`
  SessionsPerWeek  int      `json:"sessions_per_week" binding:"required,min=1"`
  SessionType      string   `json:"session_type"`
  ClassSize        int      `json:"class_size"`
  ClassVibe        string   `json:"class_vibe"`
  StudentLevel     string   `json:"student_level"`
  Outcomes         []string `json:"outcomes"`
  PrimaryChallenge string   `json:"primary_challenge"`
  AdditionalNotes  string   `json:"additional_notes"`
}

func (h *CurriculumHandler) CreateCourse(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.TeacherID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  var req createCourseRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  outcomesJSON, err := json.Marshal(req.Outcomes)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  course := &types.Course{
    TeacherID:        rd.TeacherID,
    CourseName:       req.CourseName,
    CourseCode:       req.CourseCode,
    Subject:          req.Subject,
    Department:       req.Department,
    TotalWeeks:       req.TotalWeeks,
    HoursPerWeek:     req.HoursPerWeek,
    SessionDuration:  req.SessionDuration,
    SessionsPerWeek:  req.SessionsPerWeek,
    SessionType:      types.SessionType(req.SessionType),
    ClassSize:        req.ClassSize,
    ClassVibe:        types.ClassVibe(req.ClassVibe),
    StudentLevel:     req.StudentLevel,
    Outcomes:         datatypes.JSON(outcomesJSON),
    PrimaryChallenge: types.TeacherChallenge(req.PrimaryChallenge),
    AdditionalNotes:  req.AdditionalNotes,
  }
  created, err := h.curriculumService.CreateCourse(c.Request.Context(), course)
  if err != nil {
    h.log.Error("CreateCourse failed", "error", err, "teacher_id", rd.TeacherID)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"course": created})
}

func (h *CurriculumHandler) ListCourses(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.TeacherID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }
  courses, err := h.curriculumService.ListCourses(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"courses": courses})
}

func (h *CurriculumHandler) GetCourse(c *gin.Context) {
  id, ok := pathUUID(c, "courseId")
  if !ok {
    return
  }
  course, err := h.curriculumService.GetCourse(c.Request.Context(), id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"course": course})
}

type updateCourseRequest struct {
  CourseName      *string  `json:"course_name"`
  CourseCode      *string  `json:"course_code"`
  Department      *string  `json:"department"`
  ClassSize       *int     `json:"class_size"`
  ClassVibe       *string  `json:"class_vibe"`
  PrimaryChallenge *string `json:"primary_challenge"`
  AdditionalNotes *string  `json:"additional_notes"`
}

func (h *CurriculumHandler) UpdateCourse(c *gin.Context) {
  id, ok := pathUUID(c, "courseId")
  if !ok {
    return
  }
  var req updateCourseRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  fields := map[string]any{}
  if req.CourseName != nil {
    fields["course_name"] = *req.CourseName
  }
  if req.CourseCode != nil {
    fields["course_code"] = *req.CourseCode
  }
  if req.Department != nil {
    fields["department"] = *req.Department
  }
  if req.ClassSize != nil {
    fields["class_size"] = *req.ClassSize
  }
  if req.ClassVibe != nil {
    fields["class_vibe"] = *req.ClassVibe
  }
  if req.PrimaryChallenge != nil {
    fields["primary_challenge"] = *req.PrimaryChallenge
  }
  if req.AdditionalNotes != nil {
    fields["additional_notes"] = *req.AdditionalNotes
  }
  course, err := h.curriculumService.UpdateCourse(c.Request.Context(), id, fields)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"course": course})
}

func (h *CurriculumHandler) GenerateMacroPlan(c *gin.Context) {
  id, ok := pathUUID(c, "courseId")
  if !ok {
    return
  }
  plan, err := h.curriculumService.GenerateMacroPlan(c.Request.Context(), id)
  if err != nil {
    h.log.Error("GenerateMacroPlan failed", "error", err, "course_id", id)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"plan": plan})
}

func (h *CurriculumHandler) ListPlans(c *gin.Context) {
  id, ok := pathUUID(c, "courseId")
  if !ok {
    return
  }
  plans, err := h.curriculumService.ListPlans(c.Request.Context(), id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"plans": plans})
}

func (h *CurriculumHandler) GetPlan(c *gin.Context) {
  id, ok := pathUUID(c, "planId")
  if !ok {
    return
  }
  plan, err := h.curriculumService.GetPlan(c.Request.Context(), id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"plan": plan})
}

func (h *CurriculumHandler) UpdatePlanStatus(c *gin.Context) {
  id, ok := pathUUID(c, "planId")
  if !ok {
    return
  }
  var req struct {
    Status string `json:"status" binding:"required"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  plan, err := h.curriculumService.UpdatePlanStatus(c.Request.Context(), id, types.PlanStatus(req.Status))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"plan": plan})
}

func (h *CurriculumHandler) DeletePlan(c *gin.Context) {
  id, ok := pathUUID(c, "planId")
  if !ok {
    return
  }
  if err := h.curriculumService.DeletePlan(c.Request.Context(), id); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}

func (h *CurriculumHandler) GenerateSession(c *gin.Context) {
  id, ok := pathUUID(c, "planId")
  if !ok {
    return
  }
  week, err := strconv.Atoi(c.Param("week"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  num, err := strconv.Atoi(c.Param("session"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  session, err := h.curriculumService.GenerateSession(c.Request.Context(), id, week, num)
  if err != nil {
    h.log.Error("GenerateSession failed", "error", err, "plan_id", id, "week", week, "session", num)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"session": session})
}

func (h *CurriculumHandler) GenerateAllSessions(c *gin.Context) {
  id, ok := pathUUID(c, "planId")
  if !ok {
    return
  }
  result, err := h.curriculumService.GenerateAllSessions(c.Request.Context(), id)
  if err != nil {
    h.log.Error("GenerateAllSessions failed", "error", err, "plan_id", id)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"result": result})
}

func (h *CurriculumHandler) ListSessions(c *gin.Context) {
  id, ok := pathUUID(c, "planId")
  if !ok {
    return
  }
  sessions, err := h.curriculumService.ListSessions(c.Request.Context(), id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"sessions": sessions})
}

func (h *CurriculumHandler) GetSession(c *gin.Context) {
  id, ok := pathUUID(c, "sessionId")
  if !ok {
    return
  }
  session, err := h.curriculumService.GetSession(c.Request.Context(), id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"session": session})
}

func (h *CurriculumHandler) UpdateSessionStatus(c *gin.Context) {
  id, ok := pathUUID(c, "sessionId")
  if !ok {
    return
  }
  var req struct {
    Status string `json:"status" binding:"required"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  session, err := h.curriculumService.UpdateSessionStatus(c.Request.Context(), id, types.SessionStatus(req.Status))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"session": session})
}

func (h *CurriculumHandler) UpdateSessionNotes(c *gin.Context) {
  id, ok := pathUUID(c, "sessionId")
  if !ok {
    return
  }
  var req struct {
    Notes string `json:"notes"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  session, err := h.curriculumService.UpdateSessionNotes(c.Request.Context(), id, req.Notes)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"session": session})
}

func (h *CurriculumHandler) GenerateToolkit(c *gin.Context) {
  id, ok := pathUUID(c, "sessionId")
  if !ok {
    return
  }
  session, err := h.curriculumService.GenerateToolkit(c.Request.Context(), id)
  if err != nil {
    h.log.Error("GenerateToolkit failed", "error", err, "session_id", id)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"session": session})
}

func (h *CurriculumHandler) Regenerate(c *gin.Context) {
  var req services.RegenerateRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  result, err := h.curriculumService.Regenerate(c.Request.Context(), req)
  if err != nil {
    h.log.Error("Regenerate failed", "error", err, "scope", req.Scope)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"result": result})
}
