package services

import (
  "context"
  "fmt"
  "sort"
  "strconv"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/courseloom/backend/internal/apierr"
  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/repos"
  "github.com/courseloom/backend/internal/types"
)

// WeeklySlot is a recurring day-of-week window sessions may be placed in.
// DayOfWeek follows time.Weekday numbering (Sunday = 0). Times are "HH:MM".
type WeeklySlot struct {
  DayOfWeek int    `json:"day_of_week"`
  StartTime string `json:"start_time"`
  EndTime   string `json:"end_time"`
}

type SyncRequest struct {
  PlanID    uuid.UUID    `json:"plan_id"`
  StartDate time.Time    `json:"start_date"`
  Slots     []WeeklySlot `json:"slots"`
  SkipDates []time.Time  `json:"skip_dates,omitempty"`
}

// ScheduleShortfall names a week whose declared session count could not be
// fully placed within one slot cycle.
type ScheduleShortfall struct {
  WeekNumber int `json:"week_number"`
  Scheduled  int `json:"scheduled"`
  Required   int `json:"required"`
}

type SyncResult struct {
  EventsCreated int                   `json:"events_created"`
  Events        []types.CalendarEvent `json:"events"`
  Shortfalls    []ScheduleShortfall   `json:"shortfalls,omitempty"`
}

type CalendarService interface {
  Sync(ctx context.Context, req SyncRequest) (*SyncResult, error)
  ListEvents(ctx context.Context, planID uuid.UUID) ([]types.CalendarEvent, error)
}

type calendarService struct {
  db          *gorm.DB
  log         *logger.Logger
  planRepo    repos.PlanRepo
  courseRepo  repos.CourseRepo
  sessionRepo repos.SessionRepo
  eventRepo   repos.CalendarEventRepo
}

func NewCalendarService(
  db *gorm.DB,
  baseLog *logger.Logger,
  planRepo repos.PlanRepo,
  courseRepo repos.CourseRepo,
  sessionRepo repos.SessionRepo,
  eventRepo repos.CalendarEventRepo,
) CalendarService {
  return &calendarService{
    db:          db,
    log:         baseLog.With("service", "CalendarService"),
    planRepo:    planRepo,
    courseRepo:  courseRepo,
    sessionRepo: sessionRepo,
    eventRepo:   eventRepo,
  }
}

func parseClockTime(s string) (hour, minute int, err error) {
  parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
  if len(parts) != 2 {
    return 0, 0, fmt.Errorf("invalid time %q", s)
  }
  hour, err = strconv.Atoi(parts[0])
  if err != nil {
    return 0, 0, fmt.Errorf("invalid time %q", s)
  }
  minute, err = strconv.Atoi(parts[1])
  if err != nil {
    return 0, 0, fmt.Errorf("invalid time %q", s)
  }
  if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
    return 0, 0, fmt.Errorf("invalid time %q", s)
  }
  return hour, minute, nil
}

func dateOnly(t time.Time) time.Time {
  return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func mapAssessmentType(assessmentType string) types.CalendarEventType {
  switch strings.ToLower(assessmentType) {
  case "quiz":
    return types.EventTypeQuiz
  case "assignment":
    return types.EventTypeAssignmentDue
  case "project":
    return types.EventTypeProjectDue
  case "midterm":
    return types.EventTypeMidterm
  case "final":
    return types.EventTypeFinalExam
  default:
    return types.EventTypeSession
  }
}

// Sync replaces the plan's calendar. It walks dates from the anchor,
// consuming the plan's per-week session counts against the weekly slots.
// Each week's walk is bounded to one full slot cycle: once the date returns
// to the weekday the week started on, that boundary day is the last one
// considered, and any remainder is reported as a shortfall rather than
// placed into later weeks. Skip-dates defer sessions to the next matching
// weekday inside the same cycle instead of dropping them.
func (s *calendarService) Sync(ctx context.Context, req SyncRequest) (*SyncResult, error) {
  if len(req.Slots) == 0 {
    return nil, apierr.Precondition("at least one weekly slot is required")
  }
  for _, slot := range req.Slots {
    if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
      return nil, apierr.Precondition("invalid day_of_week %d", slot.DayOfWeek)
    }
    if _, _, err := parseClockTime(slot.StartTime); err != nil {
      return nil, apierr.Precondition("invalid slot start time %q", slot.StartTime)
    }
    if _, _, err := parseClockTime(slot.EndTime); err != nil {
      return nil, apierr.Precondition("invalid slot end time %q", slot.EndTime)
    }
  }

  plan, _, err := ownedPlan(ctx, nil, s.planRepo, s.courseRepo, req.PlanID)
  if err != nil {
    return nil, err
  }
  sessions, err := s.sessionRepo.ListByPlan(ctx, nil, req.PlanID)
  if err != nil {
    return nil, err
  }
  macro := plan.Macroplan.Data()

  sessionByKey := map[[2]int]*types.Session{}
  for i := range sessions {
    sessionByKey[[2]int{sessions[i].WeekNumber, sessions[i].SessionNumber}] = &sessions[i]
  }

  // slots keep the caller's order within a day
  slotsByDay := map[int][]WeeklySlot{}
  for _, slot := range req.Slots {
    slotsByDay[slot.DayOfWeek] = append(slotsByDay[slot.DayOfWeek], slot)
  }

  skip := map[string]bool{}
  for _, d := range req.SkipDates {
    skip[dateOnly(d).Format("2006-01-02")] = true
  }

  startDate := dateOnly(req.StartDate)
  currentDate := startDate

  events := []types.CalendarEvent{}
  shortfalls := []ScheduleShortfall{}
  now := time.Now().UTC()

  weekNumbers := make([]int, 0, len(macro.Weeks))
  for _, w := range macro.Weeks {
    weekNumbers = append(weekNumbers, w.WeekNumber)
  }
  sort.Ints(weekNumbers)

  for _, weekNumber := range weekNumbers {
    week := macro.Week(weekNumber)
    if week == nil {
      continue
    }

    scheduled := 0
    var lastScheduled time.Time
    weekStartWeekday := currentDate.Weekday()
    firstDay := true
    for scheduled < week.SessionCount {
      // cycleEnd marks the return to the weekday this week's walk began on;
      // the day itself is still eligible, so a deferred session can land on it
      cycleEnd := !firstDay && currentDate.Weekday() == weekStartWeekday
      day := int(currentDate.Weekday())
      daySlots := slotsByDay[day]
      if len(daySlots) > 0 && !skip[currentDate.Format("2006-01-02")] {
        for _, slot := range daySlots {
          if scheduled >= week.SessionCount {
            break
          }
          sess := sessionByKey[[2]int{weekNumber, scheduled + 1}]

          startHour, startMin, _ := parseClockTime(slot.StartTime)
          endHour, endMin, _ := parseClockTime(slot.EndTime)
          startAt := currentDate.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute)
          endAt := currentDate.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute)

          title := fmt.Sprintf("Week %d Session %d", weekNumber, scheduled+1)
          var sessionID *uuid.UUID
          if sess != nil {
            if bp := sess.Blueprint.Data(); bp.SessionTitle != "" {
              title = bp.SessionTitle
            }
            id := sess.ID
            sessionID = &id
          }

          events = append(events, types.CalendarEvent{
            ID:            uuid.New(),
            PlanID:        plan.ID,
            SessionID:     sessionID,
            Title:         title,
            Description:   week.Theme + " - " + strings.Join(week.Topics, ", "),
            EventType:     types.EventTypeSession,
            StartDateTime: startAt,
            EndDateTime:   endAt,
            WeekNumber:    weekNumber,
            CreatedAt:     now,
            UpdatedAt:     now,
          })
          scheduled++
          lastScheduled = currentDate
        }
      }

      currentDate = currentDate.AddDate(0, 0, 1)
      firstDay = false

      if cycleEnd && scheduled < week.SessionCount {
        s.log.Warn("could not schedule all sessions for week",
          "plan_id", plan.ID,
          "week", weekNumber,
          "scheduled", scheduled,
          "required", week.SessionCount,
        )
        shortfalls = append(shortfalls, ScheduleShortfall{
          WeekNumber: weekNumber,
          Scheduled:  scheduled,
          Required:   week.SessionCount,
        })
        break
      }
    }

    if week.HasAssessment && week.AssessmentType != "" {
      // one day before the week's last scheduled date
      assessmentDate := currentDate.AddDate(0, 0, -1)
      if !lastScheduled.IsZero() {
        assessmentDate = lastScheduled.AddDate(0, 0, -1)
      }
      title := week.AssessmentType + ": " + week.Theme
      if week.AssessmentDetails != "" {
        title = week.AssessmentType + ": " + week.AssessmentDetails
      }
      events = append(events, types.CalendarEvent{
        ID:            uuid.New(),
        PlanID:        plan.ID,
        Title:         title,
        Description:   week.AssessmentDetails,
        EventType:     mapAssessmentType(week.AssessmentType),
        StartDateTime: assessmentDate,
        EndDateTime:   assessmentDate,
        WeekNumber:    weekNumber,
        CreatedAt:     now,
        UpdatedAt:     now,
      })
    }
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := s.eventRepo.DeleteByPlanID(ctx, tx, plan.ID); err != nil {
      return err
    }
    return s.eventRepo.CreateBatch(ctx, tx, events)
  })
  if err != nil {
    return nil, err
  }

  s.log.Info("calendar synced",
    "plan_id", plan.ID,
    "events_created", len(events),
    "shortfalls", len(shortfalls),
  )
  return &SyncResult{
    EventsCreated: len(events),
    Events:        events,
    Shortfalls:    shortfalls,
  }, nil
}

func (s *calendarService) ListEvents(ctx context.Context, planID uuid.UUID) ([]types.CalendarEvent, error) {
  if _, _, err := ownedPlan(ctx, nil, s.planRepo, s.courseRepo, planID); err != nil {
    return nil, err
  }
  return s.eventRepo.ListByPlan(ctx, nil, planID)
}
