package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/courseloom/backend/internal/curriculum"
	"github.com/courseloom/backend/internal/logger"
	"github.com/courseloom/backend/internal/repos"
	"github.com/courseloom/backend/internal/requestdata"
	"github.com/courseloom/backend/internal/types"
)

var testTeacherID = uuid.MustParse("3e9c5b94-55a8-4cbb-9f0e-4a2a5f2d9b01")

// teacherCtx returns a context carrying the fixture teacher's identity, the
// way the auth middleware populates it for real requests.
func teacherCtx() context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{TeacherID: testTeacherID})
}

func otherTeacherCtx() context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{TeacherID: uuid.New()})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.Course{},
		&types.Plan{},
		&types.Session{},
		&types.CalendarEvent{},
		&types.Adaptation{},
		&types.SessionResource{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeAIClient routes each structured-output call through a handler keyed on
// schema name so tests can fail specific pipeline stages.
type fakeAIClient struct {
	mu        sync.Mutex
	calls     []string
	deadlines []bool
	handler   func(schemaName, user string, call int) (map[string]any, error)
}

func (f *fakeAIClient) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	_, hasDeadline := ctx.Deadline()
	f.mu.Lock()
	call := len(f.calls)
	f.calls = append(f.calls, schemaName)
	f.deadlines = append(f.deadlines, hasDeadline)
	f.mu.Unlock()
	return f.handler(schemaName, user, call)
}

// allCallsHadDeadline reports whether every call for the schema carried a
// context deadline.
func (f *fakeAIClient) allCallsHadDeadline(schemaName string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := false
	for i, name := range f.calls {
		if name != schemaName {
			continue
		}
		seen = true
		if !f.deadlines[i] {
			return false
		}
	}
	return seen
}

func (f *fakeAIClient) callCount(schemaName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, name := range f.calls {
		if name == schemaName {
			n++
		}
	}
	return n
}

func sampleMacro(weeks ...curriculum.MacroPlanWeek) curriculum.MacroPlan {
	return curriculum.MacroPlan{
		CourseName:     "Signals and Systems",
		TotalWeeks:     len(weeks),
		CourseOverview: "Time and frequency domain analysis of signals.",
		Weeks:          weeks,
	}
}

func macroWeek(number, sessions int) curriculum.MacroPlanWeek {
	return curriculum.MacroPlanWeek{
		WeekNumber:   number,
		Theme:        fmt.Sprintf("Theme %d", number),
		Topics:       []string{fmt.Sprintf("Topic %d", number)},
		SessionCount: sessions,
		TotalHours:   2,
	}
}

func sampleBlueprint(title string, week, num int) curriculum.SessionBlueprint {
	return curriculum.SessionBlueprint{
		SessionTitle:       title,
		WeekNumber:         week,
		SessionNumber:      num,
		Duration:           60,
		Overview:           "overview",
		KeyConceptsCovered: []string{"convolution"},
		Sections: []curriculum.SessionSection{
			{Type: "hook", Title: "Opening", Duration: 10, Content: "hook content"},
			{Type: "core", Title: "Main", Duration: 50, Content: "core content"},
		},
	}
}

func seedCourse(t *testing.T, db *gorm.DB) *types.Course {
	t.Helper()
	course := &types.Course{
		ID:              uuid.New(),
		TeacherID:       testTeacherID,
		CourseName:      "Signals and Systems",
		Subject:         "Electrical Engineering",
		TotalWeeks:      2,
		HoursPerWeek:    2,
		SessionDuration: 60,
		SessionsPerWeek: 2,
		SessionType:     types.SessionTypeLecture,
		ClassSize:       40,
		ClassVibe:       types.ClassVibeMixed,
		StudentLevel:    "Undergraduate",
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return course
}

func seedPlan(t *testing.T, db *gorm.DB, courseID uuid.UUID, version int, macro curriculum.MacroPlan) *types.Plan {
	t.Helper()
	plan := &types.Plan{
		ID:          uuid.New(),
		CourseID:    courseID,
		Version:     version,
		Status:      types.PlanStatusDraft,
		Macroplan:   datatypes.NewJSONType(macro),
		GeneratedAt: time.Now().UTC(),
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return plan
}

func seedSession(t *testing.T, db *gorm.DB, planID uuid.UUID, week, num int, title string) *types.Session {
	t.Helper()
	session := &types.Session{
		ID:            uuid.New(),
		PlanID:        planID,
		WeekNumber:    week,
		SessionNumber: num,
		Status:        types.SessionStatusGenerated,
		GeneratedAt:   time.Now().UTC(),
	}
	if title != "" {
		session.Blueprint = datatypes.NewJSONType(sampleBlueprint(title, week, num))
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return session
}

type testEnv struct {
	db          *gorm.DB
	ai          *fakeAIClient
	courseRepo  repos.CourseRepo
	planRepo    repos.PlanRepo
	sessionRepo repos.SessionRepo
	eventRepo   repos.CalendarEventRepo
	adaptRepo   repos.AdaptationRepo
	resRepo     repos.SessionResourceRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	return &testEnv{
		db:          db,
		ai:          &fakeAIClient{},
		courseRepo:  repos.NewCourseRepo(db, log),
		planRepo:    repos.NewPlanRepo(db, log),
		sessionRepo: repos.NewSessionRepo(db, log),
		eventRepo:   repos.NewCalendarEventRepo(db, log),
		adaptRepo:   repos.NewAdaptationRepo(db, log),
		resRepo:     repos.NewSessionResourceRepo(db, log),
	}
}

func (e *testEnv) curriculumService() CurriculumService {
	return NewCurriculumService(
		e.db, logger.NewNop(), e.ai,
		e.courseRepo, e.planRepo, e.sessionRepo, e.eventRepo, e.adaptRepo, e.resRepo,
	)
}

func (e *testEnv) calendarService() CalendarService {
	return NewCalendarService(e.db, logger.NewNop(), e.planRepo, e.courseRepo, e.sessionRepo, e.eventRepo)
}

func (e *testEnv) adaptationService() AdaptationService {
	return NewAdaptationService(e.db, logger.NewNop(), e.ai, e.planRepo, e.courseRepo, e.adaptRepo)
}

func (e *testEnv) resourceService(search ResourceSearchService, ranker ResourceRanker) ResourceService {
	return NewResourceService(
		e.db, logger.NewNop(), e.ai, search, ranker,
		e.planRepo, e.courseRepo, e.sessionRepo, e.resRepo,
	)
}

// fakeSearchService serves canned results per category and records queries.
type fakeSearchService struct {
	mu      sync.Mutex
	queries []string
	results map[string][]curriculum.RawResource
	errs    map[string]error
}

func (f *fakeSearchService) lookup(category, query string) ([]curriculum.RawResource, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if err := f.errs[category]; err != nil {
		return nil, err
	}
	return f.results[category], nil
}

func (f *fakeSearchService) SearchYouTube(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error) {
	return f.lookup("youtube", query)
}

func (f *fakeSearchService) SearchArticles(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error) {
	return f.lookup("article", query)
}

func (f *fakeSearchService) SearchPDFs(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error) {
	return f.lookup("pdf", query)
}

func (f *fakeSearchService) SearchPresentations(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error) {
	return f.lookup("presentation", query)
}

func (f *fakeSearchService) SearchInteractive(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error) {
	return f.lookup("interactive", query)
}

// fakeRanker echoes the raw candidates with descending scores.
type fakeRanker struct {
	mu          sync.Mutex
	calls       int
	hadDeadline bool
	fn          func(raw []curriculum.RawResource) ([]curriculum.RankedResource, error)
}

func (f *fakeRanker) Rank(ctx context.Context, profile curriculum.CourseProfile, blueprint curriculum.SessionBlueprint, raw []curriculum.RawResource) ([]curriculum.RankedResource, error) {
	_, hasDeadline := ctx.Deadline()
	f.mu.Lock()
	f.calls++
	f.hadDeadline = hasDeadline
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(raw)
	}
	ranked := make([]curriculum.RankedResource, 0, len(raw))
	for i, r := range raw {
		ranked = append(ranked, curriculum.RankedResource{
			ResourceType:   r.Type,
			Title:          r.Title,
			URL:            r.URL,
			Description:    r.Description,
			RelevanceScore: float64(100 - i),
			AIReasoning:    "matches the session focus",
			IsFree:         true,
		})
	}
	return ranked, nil
}

func (f *fakeRanker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
