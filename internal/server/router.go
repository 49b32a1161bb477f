package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/courseloom/backend/internal/handlers"
  "github.com/courseloom/backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware    *middleware.AuthMiddleware
  CurriculumHandler *handlers.CurriculumHandler
  CalendarHandler   *handlers.CalendarHandler
  AdaptationHandler *handlers.AdaptationHandler
  ResourceHandler   *handlers.ResourceHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/api")
  protected.Use(cfg.AuthMiddleware.RequireAuth())

  // Courses
  protected.POST("/courses", cfg.CurriculumHandler.CreateCourse)
  protected.GET("/courses", cfg.CurriculumHandler.ListCourses)
  protected.GET("/courses/:courseId", cfg.CurriculumHandler.GetCourse)
  protected.PATCH("/courses/:courseId", cfg.CurriculumHandler.UpdateCourse)
  protected.POST("/courses/:courseId/macroplan", cfg.CurriculumHandler.GenerateMacroPlan)
  protected.GET("/courses/:courseId/plans", cfg.CurriculumHandler.ListPlans)

  // Plans
  protected.GET("/plans/:planId", cfg.CurriculumHandler.GetPlan)
  protected.PATCH("/plans/:planId/status", cfg.CurriculumHandler.UpdatePlanStatus)
  protected.DELETE("/plans/:planId", cfg.CurriculumHandler.DeletePlan)
  protected.GET("/plans/:planId/sessions", cfg.CurriculumHandler.ListSessions)
  protected.POST("/plans/:planId/sessions/generate", cfg.CurriculumHandler.GenerateAllSessions)
  protected.POST("/plans/:planId/weeks/:week/sessions/:session/generate", cfg.CurriculumHandler.GenerateSession)

  // Sessions
  protected.GET("/sessions/:sessionId", cfg.CurriculumHandler.GetSession)
  protected.PATCH("/sessions/:sessionId/status", cfg.CurriculumHandler.UpdateSessionStatus)
  protected.PATCH("/sessions/:sessionId/notes", cfg.CurriculumHandler.UpdateSessionNotes)
  protected.POST("/sessions/:sessionId/toolkit", cfg.CurriculumHandler.GenerateToolkit)

  // Regeneration
  protected.POST("/regenerate", cfg.CurriculumHandler.Regenerate)

  // Calendar
  protected.POST("/plans/:planId/calendar/sync", cfg.CalendarHandler.Sync)
  protected.GET("/plans/:planId/calendar", cfg.CalendarHandler.ListEvents)

  // Adaptations
  protected.POST("/plans/:planId/adaptations", cfg.AdaptationHandler.Create)
  protected.GET("/plans/:planId/adaptations", cfg.AdaptationHandler.ListByPlan)
  protected.POST("/adaptations/:adaptationId/respond", cfg.AdaptationHandler.Respond)

  // Resources
  protected.POST("/sessions/:sessionId/resources/generate", cfg.ResourceHandler.Generate)
  protected.POST("/sessions/:sessionId/resources/refresh", cfg.ResourceHandler.Refresh)
  protected.GET("/sessions/:sessionId/resources", cfg.ResourceHandler.List)
  protected.PATCH("/resources/:resourceId", cfg.ResourceHandler.Update)

  return router
}
