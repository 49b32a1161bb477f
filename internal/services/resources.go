package services

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "time"

  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"

  "github.com/courseloom/backend/internal/apierr"
  "github.com/courseloom/backend/internal/curriculum"
  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/repos"
  "github.com/courseloom/backend/internal/types"
  "github.com/courseloom/backend/internal/utils"
)

// ResourceRanker scores and filters raw search candidates for a session.
type ResourceRanker interface {
  Rank(ctx context.Context, profile curriculum.CourseProfile, blueprint curriculum.SessionBlueprint, raw []curriculum.RawResource) ([]curriculum.RankedResource, error)
}

type aiResourceRanker struct {
  ai AIClient
}

func NewAIResourceRanker(ai AIClient) ResourceRanker {
  return &aiResourceRanker{ai: ai}
}

func (r *aiResourceRanker) Rank(ctx context.Context, profile curriculum.CourseProfile, blueprint curriculum.SessionBlueprint, raw []curriculum.RawResource) ([]curriculum.RankedResource, error) {
  rawJSON, err := json.Marshal(raw)
  if err != nil {
    return nil, err
  }
  obj, err := r.ai.GenerateJSON(ctx,
    curriculum.ResourceRankingSystemPrompt,
    curriculum.BuildResourceRankingPrompt(profile, blueprint, string(rawJSON)),
    "resource_ranking",
    curriculum.ResourceRankingSchema(),
  )
  if err != nil {
    return nil, err
  }
  var out struct {
    Resources []curriculum.RankedResource `json:"resources"`
  }
  if err := decodeInto(obj, &out); err != nil {
    return nil, fmt.Errorf("ranking decode: %w", err)
  }
  return out.Resources, nil
}

type UpdateResourceRequest struct {
  TeacherRating *int    `json:"teacher_rating,omitempty"`
  TeacherNotes  *string `json:"teacher_notes,omitempty"`
  IsHidden      *bool   `json:"is_hidden,omitempty"`
}

type ResourceService interface {
  Generate(ctx context.Context, sessionID uuid.UUID) ([]types.SessionResource, error)
  Refresh(ctx context.Context, sessionID uuid.UUID) ([]types.SessionResource, error)
  List(ctx context.Context, sessionID uuid.UUID, includeHidden bool) ([]types.SessionResource, error)
  UpdateResource(ctx context.Context, id uuid.UUID, req UpdateResourceRequest) (*types.SessionResource, error)
}

type resourceService struct {
  db          *gorm.DB
  log         *logger.Logger
  ai          AIClient
  search      ResourceSearchService
  ranker      ResourceRanker
  planRepo    repos.PlanRepo
  courseRepo  repos.CourseRepo
  sessionRepo repos.SessionRepo
  resRepo     repos.SessionResourceRepo

  aiTimeout time.Duration
}

func NewResourceService(
  db *gorm.DB,
  baseLog *logger.Logger,
  ai AIClient,
  search ResourceSearchService,
  ranker ResourceRanker,
  planRepo repos.PlanRepo,
  courseRepo repos.CourseRepo,
  sessionRepo repos.SessionRepo,
  resRepo repos.SessionResourceRepo,
) ResourceService {
  log := baseLog.With("service", "ResourceService")
  timeoutSec := utils.GetEnvAsInt("CURRICULUM_AI_TIMEOUT_SECONDS", 300, log)
  return &resourceService{
    db:          db,
    log:         log,
    ai:          ai,
    search:      search,
    ranker:      ranker,
    planRepo:    planRepo,
    courseRepo:  courseRepo,
    sessionRepo: sessionRepo,
    resRepo:     resRepo,
    aiTimeout:   time.Duration(timeoutSec) * time.Second,
  }
}

const maxRankedResources = 10

// Generate finds, ranks and stores external resources for a session. Each
// search category degrades independently: a failed category contributes
// nothing instead of failing the fetch. Ranked results replace whatever the
// session had before.
func (s *resourceService) Generate(ctx context.Context, sessionID uuid.UUID) ([]types.SessionResource, error) {
  session, _, course, err := ownedSession(ctx, nil, s.sessionRepo, s.planRepo, s.courseRepo, sessionID)
  if err != nil {
    return nil, err
  }
  blueprint := session.Blueprint.Data()
  if blueprint.IsZero() {
    return nil, apierr.Precondition("session %s has no blueprint yet", sessionID)
  }
  profile := profileFromCourse(course)

  queries := s.resourceQueries(ctx, profile, blueprint)
  raw := s.searchAllCategories(ctx, queries)
  s.log.Info("resource search finished", "session_id", sessionID, "candidates", len(raw))

  if len(raw) == 0 {
    return []types.SessionResource{}, nil
  }

  rankCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
  defer cancel()
  ranked, err := s.ranker.Rank(rankCtx, profile, blueprint, raw)
  if err != nil {
    s.log.Error("resource ranking failed", "session_id", sessionID, "error", err)
    return nil, apierr.Upstream(err)
  }
  if len(ranked) > maxRankedResources {
    ranked = ranked[:maxRankedResources]
  }

  now := time.Now().UTC()
  rows := make([]types.SessionResource, 0, len(ranked))
  for _, r := range ranked {
    rows = append(rows, types.SessionResource{
      ID:             uuid.New(),
      SessionID:      sessionID,
      ResourceType:   types.ResourceType(r.ResourceType),
      Title:          r.Title,
      Description:    r.Description,
      URL:            r.URL,
      ThumbnailURL:   r.ThumbnailURL,
      SourceName:     r.SourceName,
      Duration:       r.Duration,
      RelevanceScore: r.RelevanceScore,
      AIReasoning:    r.AIReasoning,
      SectionType:    r.SectionType,
      IsFree:         r.IsFree,
      FetchedAt:      now,
      CreatedAt:      now,
      UpdatedAt:      now,
    })
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := s.resRepo.DeleteBySessionID(ctx, tx, sessionID); err != nil {
      return err
    }
    return s.resRepo.CreateBatch(ctx, tx, rows)
  })
  if err != nil {
    return nil, err
  }
  return rows, nil
}

// Refresh drops the stored resource set before generating a new one, so a
// generation that finds nothing still clears stale entries.
func (s *resourceService) Refresh(ctx context.Context, sessionID uuid.UUID) ([]types.SessionResource, error) {
  if _, _, _, err := ownedSession(ctx, nil, s.sessionRepo, s.planRepo, s.courseRepo, sessionID); err != nil {
    return nil, err
  }
  if err := s.resRepo.DeleteBySessionID(ctx, nil, sessionID); err != nil {
    return nil, err
  }
  return s.Generate(ctx, sessionID)
}

func (s *resourceService) List(ctx context.Context, sessionID uuid.UUID, includeHidden bool) ([]types.SessionResource, error) {
  if _, _, _, err := ownedSession(ctx, nil, s.sessionRepo, s.planRepo, s.courseRepo, sessionID); err != nil {
    return nil, err
  }
  return s.resRepo.ListBySession(ctx, nil, sessionID, includeHidden)
}

func (s *resourceService) UpdateResource(ctx context.Context, id uuid.UUID, req UpdateResourceRequest) (*types.SessionResource, error) {
  resource, err := s.resRepo.GetByID(ctx, nil, id)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apierr.NotFound("resource %s not found", id)
    }
    return nil, err
  }
  if _, _, _, err := ownedSession(ctx, nil, s.sessionRepo, s.planRepo, s.courseRepo, resource.SessionID); err != nil {
    if apierr.CodeOf(err) == apierr.CodeNotFound {
      return nil, apierr.NotFound("resource %s not found", id)
    }
    return nil, err
  }
  fields := map[string]any{}
  if req.TeacherRating != nil {
    if *req.TeacherRating < 1 || *req.TeacherRating > 5 {
      return nil, apierr.Precondition("teacher_rating must be between 1 and 5")
    }
    fields["teacher_rating"] = *req.TeacherRating
  }
  if req.TeacherNotes != nil {
    fields["teacher_notes"] = *req.TeacherNotes
  }
  if req.IsHidden != nil {
    fields["is_hidden"] = *req.IsHidden
  }
  if len(fields) == 0 {
    return s.resRepo.GetByID(ctx, nil, id)
  }
  if err := s.resRepo.UpdateFields(ctx, nil, id, fields); err != nil {
    return nil, err
  }
  return s.resRepo.GetByID(ctx, nil, id)
}

// resourceQueries asks the generator for targeted queries, falling back to
// deterministic ones so the search still runs when generation fails.
func (s *resourceService) resourceQueries(ctx context.Context, profile curriculum.CourseProfile, blueprint curriculum.SessionBlueprint) curriculum.ResourceQueries {
  aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
  defer cancel()
  obj, err := s.ai.GenerateJSON(aiCtx,
    curriculum.ResourceQuerySystemPrompt,
    curriculum.BuildResourceQueryPrompt(profile, blueprint),
    "resource_queries",
    curriculum.ResourceQueriesSchema(),
  )
  if err != nil {
    s.log.Warn("resource query generation failed, using fallback queries", "error", err)
    return curriculum.FallbackResourceQueries(profile, blueprint)
  }
  var queries curriculum.ResourceQueries
  if err := decodeInto(obj, &queries); err != nil {
    s.log.Warn("resource query decode failed, using fallback queries", "error", err)
    return curriculum.FallbackResourceQueries(profile, blueprint)
  }
  return queries
}

type searchCategory struct {
  resourceType types.ResourceType
  queries      []string
  maxResults   int
  search       func(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error)
}

func firstN(queries []string, n int) []string {
  if len(queries) > n {
    return queries[:n]
  }
  return queries
}

// searchAllCategories runs the five category searches concurrently, taking at
// most two queries per category and deduplicating merged results by URL.
func (s *resourceService) searchAllCategories(ctx context.Context, queries curriculum.ResourceQueries) []curriculum.RawResource {
  presentationQueries := queries.PresentationQueries
  if len(presentationQueries) == 0 {
    presentationQueries = queries.PDFQueries
  }

  categories := []searchCategory{
    {types.ResourceYouTubeVideo, firstN(queries.YoutubeQueries, 2), 3, s.search.SearchYouTube},
    {types.ResourceArticle, firstN(queries.ArticleQueries, 2), 3, s.search.SearchArticles},
    {types.ResourcePDF, firstN(queries.PDFQueries, 2), 2, s.search.SearchPDFs},
    {types.ResourcePresentation, firstN(presentationQueries, 2), 3, s.search.SearchPresentations},
    {types.ResourceInteractiveTool, firstN(queries.InteractiveQueries, 2), 2, s.search.SearchInteractive},
  }

  results := make([][]curriculum.RawResource, len(categories))
  g, gctx := errgroup.WithContext(ctx)
  for i, cat := range categories {
    g.Go(func() error {
      var found []curriculum.RawResource
      for _, q := range cat.queries {
        hits, err := cat.search(gctx, q, cat.maxResults)
        if err != nil {
          s.log.Warn("category search failed", "type", cat.resourceType, "query", q, "error", err)
          continue
        }
        for j := range hits {
          hits[j].Type = string(cat.resourceType)
        }
        found = append(found, hits...)
      }
      results[i] = found
      return nil
    })
  }
  _ = g.Wait()

  seen := map[string]bool{}
  merged := []curriculum.RawResource{}
  for _, found := range results {
    for _, r := range found {
      if r.URL == "" || seen[r.URL] {
        continue
      }
      seen[r.URL] = true
      merged = append(merged, r)
    }
  }
  return merged
}
