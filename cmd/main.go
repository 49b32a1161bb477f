package main

import (
  "fmt"
  "os"

  "github.com/courseloom/backend/internal/db"
  "github.com/courseloom/backend/internal/handlers"
  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/middleware"
  "github.com/courseloom/backend/internal/repos"
  "github.com/courseloom/backend/internal/server"
  "github.com/courseloom/backend/internal/services"
  "github.com/courseloom/backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  courseRepo := repos.NewCourseRepo(thePG, log)
  planRepo := repos.NewPlanRepo(thePG, log)
  sessionRepo := repos.NewSessionRepo(thePG, log)
  eventRepo := repos.NewCalendarEventRepo(thePG, log)
  adaptationRepo := repos.NewAdaptationRepo(thePG, log)
  resourceRepo := repos.NewSessionResourceRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  aiClient, err := services.NewAIClient(log)
  if err != nil {
    log.Error("Could not init AIClient", "error", err)
    os.Exit(1)
  }
  searchCache := services.NewRedisSearchCache(log)
  searchService := services.NewGoogleSearchService(log, searchCache)
  ranker := services.NewAIResourceRanker(aiClient)

  curriculumService := services.NewCurriculumService(
    thePG,
    log,
    aiClient,
    courseRepo,
    planRepo,
    sessionRepo,
    eventRepo,
    adaptationRepo,
    resourceRepo,
  )
  calendarService := services.NewCalendarService(thePG, log, planRepo, courseRepo, sessionRepo, eventRepo)
  adaptationService := services.NewAdaptationService(thePG, log, aiClient, planRepo, courseRepo, adaptationRepo)
  resourceService := services.NewResourceService(
    thePG,
    log,
    aiClient,
    searchService,
    ranker,
    planRepo,
    courseRepo,
    sessionRepo,
    resourceRepo,
  )

  // Handlers
  log.Info("Setting up handlers from main...")
  curriculumHandler := handlers.NewCurriculumHandler(log, curriculumService)
  calendarHandler := handlers.NewCalendarHandler(log, calendarService)
  adaptationHandler := handlers.NewAdaptationHandler(log, adaptationService)
  resourceHandler := handlers.NewResourceHandler(log, resourceService)

  // Middleware
  authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthMiddleware:    authMiddleware,
    CurriculumHandler: curriculumHandler,
    CalendarHandler:   calendarHandler,
    AdaptationHandler: adaptationHandler,
    ResourceHandler:   resourceHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
