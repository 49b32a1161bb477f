package curriculum

import (
	"fmt"
	"strings"
)

// CourseProfile is the slice of course configuration the prompt builders
// need. The service layer maps the stored course row onto it.
type CourseProfile struct {
	CourseName       string
	CourseCode       string
	Subject          string
	Department       string
	StudentLevel     string
	TotalWeeks       int
	HoursPerWeek     float64
	SessionDuration  int
	SessionsPerWeek  int
	SessionType      string
	ClassSize        int
	ClassVibe        string
	PrimaryChallenge string
	AdditionalNotes  string
	Outcomes         []string
}

const MacroPlanSystemPrompt = `You are an expert curriculum designer for engineering and bachelor's degree programs with 20+ years of experience at top universities. You specialize in creating well-structured, pedagogically sound course plans that maximize student learning and engagement.

Your expertise includes Bloom's taxonomy and learning progression, cognitive load management, spaced repetition, active learning methodologies, and assessment alignment with learning outcomes.

RULES:
1. Always respond with valid JSON only
2. Follow the exact schema provided
3. Sequence topics from foundational to advanced
4. Never place assessments before content is taught
5. Include buffer weeks before major exams
6. Balance difficulty across the semester (no more than 2 consecutive high-difficulty weeks)
7. Align everything with stated learning outcomes`

const SessionBlueprintSystemPrompt = `You are a master instructional designer who creates engaging, minute-by-minute lesson plans for engineering courses. You understand cognitive science, attention spans, and how to maintain engagement in technical subjects.

RULES:
1. Always respond with valid JSON only
2. Follow the exact schema provided
3. Total section durations must equal session duration
4. Every session must start with a hook and end with a preview
5. Include at least one interactive activity per session
6. Provide specific, usable teacher scripts
7. Include common misconceptions for the topic`

const EngagementToolkitSystemPrompt = `You are a master teacher known for making complex engineering concepts accessible and memorable. You have a vast repertoire of analogies, demonstrations, stories, and activities.

RULES:
1. Always respond with valid JSON only
2. Be creative and specific, never generic
3. Tailor everything to the stated student level
4. Include specific examples, not vague descriptions
5. Provide multiple options for different teaching styles`

const AdaptationSystemPrompt = `You are a curriculum adaptation specialist. Suggest minimal, effective changes to help students succeed. Always respond with valid JSON only.`

const ResourceQuerySystemPrompt = `You are a search optimization expert for educational content. Generate precise, targeted search queries. Always respond with valid JSON only.`

const ResourceRankingSystemPrompt = `You are an educational resource curator. Evaluate resources for pedagogical value and relevance. Always respond with valid JSON only.`

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None specified"
	}
	return s
}

func BuildMacroPlanPrompt(c CourseProfile) string {
	var outcomes strings.Builder
	for i, o := range c.Outcomes {
		fmt.Fprintf(&outcomes, "%d. %s\n", i+1, o)
	}
	return fmt.Sprintf(`Generate a complete %d-week curriculum macro plan for the following course:

COURSE DETAILS:
- Course Name: %s
- Course Code: %s
- Subject: %s
- Department: %s
- Student Level: %s

SCHEDULE:
- Total Weeks: %d
- Hours per Week: %g
- Session Duration: %d minutes
- Sessions per Week: %d
- Session Type: %s

CLASS CONTEXT:
- Class Size: %d students
- Class Vibe: %s
- Primary Challenge: %s
- Additional Notes: %s

LEARNING OUTCOMES:
%s
Each week must declare its theme, topics, learning objectives, difficulty level, sessionCount (%d), totalHours (%g), assessment flags, prerequisites, key concepts introduced, teacher notes and whether it is a buffer week. Also produce the overall assessment strategy, a prerequisite map and suggested resources.`,
		c.TotalWeeks,
		c.CourseName, orNone(c.CourseCode), c.Subject, orNone(c.Department), c.StudentLevel,
		c.TotalWeeks, c.HoursPerWeek, c.SessionDuration, c.SessionsPerWeek, c.SessionType,
		c.ClassSize, c.ClassVibe, orNone(c.PrimaryChallenge), orNone(c.AdditionalNotes),
		outcomes.String(),
		c.SessionsPerWeek, c.HoursPerWeek,
	)
}

func BuildSessionPrompt(c CourseProfile, week MacroPlanWeek, sessionNumber int) string {
	return fmt.Sprintf(`Generate a detailed session blueprint for:

COURSE: %s (%s)
WEEK %d: %s
SESSION %d of %d
DURATION: %d minutes
CLASS SIZE: %d students
CLASS VIBE: %s

WEEK'S TOPICS: %s
WEEK'S OBJECTIVES: %s

Set weekNumber=%d, sessionNumber=%d, duration=%d and difficulty=%q.
IMPORTANT: Ensure total section durations equal %d minutes.`,
		c.CourseName, c.Subject,
		week.WeekNumber, week.Theme,
		sessionNumber, week.SessionCount,
		c.SessionDuration, c.ClassSize, c.ClassVibe,
		strings.Join(week.Topics, ", "),
		strings.Join(week.LearningObjectives, "; "),
		week.WeekNumber, sessionNumber, c.SessionDuration, week.DifficultyLevel,
		c.SessionDuration,
	)
}

func BuildToolkitPrompt(c CourseProfile, b SessionBlueprint) string {
	return fmt.Sprintf(`Generate an engagement toolkit for:

COURSE: %s (%s)
SESSION: %s
KEY CONCEPTS: %s
STUDENT LEVEL: %s
CLASS VIBE: %s

Provide analogies, real-world examples, demonstrations, discussion questions, quick activities, common mistakes, visual aids, memory hooks and industry connections. Provide at least 3 items for analogies, realWorldExamples and quickActivities.`,
		c.CourseName, c.Subject,
		b.SessionTitle,
		strings.Join(b.KeyConceptsCovered, ", "),
		c.StudentLevel, c.ClassVibe,
	)
}

func BuildAdaptationPrompt(c CourseProfile, macroJSON, triggerType, triggerJSON string) string {
	return fmt.Sprintf(`Based on the following curriculum and trigger, suggest adaptations:

COURSE: %s
SUBJECT: %s
CURRENT PLAN: %s

ADAPTATION TRIGGER: %s
TRIGGER DATA: %s

Return a suggestion listing affectedWeeks, proposedChanges (weekNumber, changeType of add_content | remove_content | slow_pacing | add_review | reschedule, description, details) and schedulingImpact, plus a detailed reasoning string.`,
		c.CourseName, c.Subject, macroJSON, triggerType, triggerJSON,
	)
}

func BuildResourceQueryPrompt(c CourseProfile, b SessionBlueprint) string {
	return fmt.Sprintf(`Generate optimized search queries to find educational resources for this session:

SESSION: %q
COURSE: %s (%s)
STUDENT LEVEL: %s
KEY CONCEPTS: %s

Produce 3 youtubeQueries, 3 articleQueries, 2 pdfQueries, 2 presentationQueries and 2 interactiveQueries. Make queries specific and educational-focused: include the subject area, the specific topic, level indicators, and words like "tutorial", "explained", "lecture", "slides".`,
		b.SessionTitle, c.CourseName, c.Subject, c.StudentLevel,
		strings.Join(b.KeyConceptsCovered, ", "),
	)
}

// FallbackResourceQueries is used when the generator cannot produce queries;
// the search still runs with deterministic ones.
func FallbackResourceQueries(c CourseProfile, b SessionBlueprint) ResourceQueries {
	topic := b.SessionTitle
	if len(b.KeyConceptsCovered) > 0 {
		topic = b.KeyConceptsCovered[0]
	}
	return ResourceQueries{
		YoutubeQueries:      []string{topic + " tutorial " + c.Subject, topic + " explained for students"},
		ArticleQueries:      []string{topic + " tutorial guide", topic + " introduction " + c.Subject},
		PDFQueries:          []string{topic + " lecture notes pdf", topic + " course materials"},
		PresentationQueries: []string{topic + " lecture slides ppt", topic + " presentation " + c.Subject},
		InteractiveQueries:  []string{topic + " interactive simulation", topic + " online tool"},
	}
}

func BuildResourceRankingPrompt(c CourseProfile, b SessionBlueprint, rawJSON string) string {
	sections := make([]string, 0, len(b.Sections))
	for _, s := range b.Sections {
		sections = append(sections, s.Type)
	}
	return fmt.Sprintf(`Evaluate and rank these resources for teaching %q:

RESOURCES TO EVALUATE:
%s

SESSION CONTEXT:
- Topic: %s
- Key Concepts: %s
- Student Level: %s
- Session Sections: %s
- Duration: %d minutes

For EACH resource provide relevanceScore (0.0-1.0), the sectionType that would benefit most, a brief aiReasoning, and isFree. Only include resources with relevanceScore >= 0.4, sorted by relevanceScore descending, maximum 10.`,
		b.SessionTitle, rawJSON,
		b.SessionTitle, strings.Join(b.KeyConceptsCovered, ", "),
		c.StudentLevel, strings.Join(sections, ", "),
		b.Duration,
	)
}
