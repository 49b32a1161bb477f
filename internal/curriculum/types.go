package curriculum

// Structured content produced by the generation pipeline. The generator is
// prompted with matching JSON schemas, so these shapes are authoritative for
// everything stored on a plan or session.

type LabComponent struct {
	Title       string `json:"title"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
}

type MacroPlanWeek struct {
	WeekNumber           int           `json:"weekNumber"`
	Theme                string        `json:"theme"`
	Topics               []string      `json:"topics"`
	LearningObjectives   []string      `json:"learningObjectives"`
	DifficultyLevel      string        `json:"difficultyLevel"`
	SessionCount         int           `json:"sessionCount"`
	TotalHours           float64       `json:"totalHours"`
	HasAssessment        bool          `json:"hasAssessment"`
	AssessmentType       string        `json:"assessmentType,omitempty"`
	AssessmentDetails    string        `json:"assessmentDetails,omitempty"`
	Prerequisites        []string      `json:"prerequisites"`
	KeyConceptsIntroduced []string     `json:"keyConceptsIntroduced"`
	TeacherNotes         string        `json:"teacherNotes"`
	IsBufferWeek         bool          `json:"isBufferWeek"`
	LabComponent         *LabComponent `json:"labComponent,omitempty"`
}

type AssessmentStrategy struct {
	QuizCount       int                `json:"quizCount"`
	AssignmentCount int                `json:"assignmentCount"`
	MidtermCount    int                `json:"midtermCount"`
	ProjectCount    int                `json:"projectCount"`
	FinalExam       bool               `json:"finalExam"`
	Weightages      map[string]float64 `json:"weightages"`
}

type MacroPlan struct {
	CourseName         string              `json:"courseName"`
	TotalWeeks         int                 `json:"totalWeeks"`
	CourseOverview     string              `json:"courseOverview"`
	TeachingPhilosophy string              `json:"teachingPhilosophy"`
	Weeks              []MacroPlanWeek     `json:"weeks"`
	AssessmentStrategy AssessmentStrategy  `json:"assessmentStrategy"`
	PrerequisiteMap    map[string][]string `json:"prerequisiteMap"`
	SuggestedResources []string            `json:"suggestedResources"`
}

// Week returns the macro-plan entry for weekNumber, or nil.
func (m *MacroPlan) Week(weekNumber int) *MacroPlanWeek {
	for i := range m.Weeks {
		if m.Weeks[i].WeekNumber == weekNumber {
			return &m.Weeks[i]
		}
	}
	return nil
}

type SessionSection struct {
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	Duration        int      `json:"duration"`
	Content         string   `json:"content"`
	TeacherScript   string   `json:"teacherScript"`
	Materials       []string `json:"materials"`
	InteractionType string   `json:"interactionType"`
	Tips            []string `json:"tips"`
}

type CheckpointQuestion struct {
	Question              string   `json:"question"`
	CorrectAnswer         string   `json:"correctAnswer"`
	CommonWrongAnswers    []string `json:"commonWrongAnswers"`
	WhyStudentsGetItWrong string   `json:"whyStudentsGetItWrong"`
}

type Misconception struct {
	Misconception string `json:"misconception"`
	Correction    string `json:"correction"`
	HowToPrevent  string `json:"howToPrevent"`
}

type EmergencyPlan struct {
	IfRunningBehind     string `json:"ifRunningBehind"`
	IfRunningAhead      string `json:"ifRunningAhead"`
	IfStudentsStruggling string `json:"ifStudentsStruggling"`
}

type SessionBlueprint struct {
	SessionTitle         string             `json:"sessionTitle"`
	WeekNumber           int                `json:"weekNumber"`
	SessionNumber        int                `json:"sessionNumber"`
	Duration             int                `json:"duration"`
	Difficulty           string             `json:"difficulty"`
	Overview             string             `json:"overview"`
	Sections             []SessionSection   `json:"sections"`
	KeyConceptsCovered   []string           `json:"keyConceptsCovered"`
	CheckpointQuestion   CheckpointQuestion `json:"checkpointQuestion"`
	CommonMisconceptions []Misconception    `json:"commonMisconceptions"`
	RealWorldConnections []string           `json:"realWorldConnections"`
	NextSessionPreview   string             `json:"nextSessionPreview"`
	EmergencyPlan        EmergencyPlan      `json:"emergencyPlan"`
	PreparationChecklist []string           `json:"preparationChecklist"`
	BoardWork            string             `json:"boardWork"`
	TechnologyNeeded     []string           `json:"technologyNeeded"`
}

// IsZero reports whether the blueprint has never been generated.
func (b *SessionBlueprint) IsZero() bool {
	return b == nil || (b.SessionTitle == "" && len(b.Sections) == 0)
}

// SectionDurationTotal sums section durations in minutes.
func (b *SessionBlueprint) SectionDurationTotal() int {
	total := 0
	for _, s := range b.Sections {
		total += s.Duration
	}
	return total
}

// ResourceQueries carries the per-category search queries the generator
// proposes for a session.
type ResourceQueries struct {
	YoutubeQueries      []string `json:"youtubeQueries"`
	ArticleQueries      []string `json:"articleQueries"`
	PDFQueries          []string `json:"pdfQueries"`
	PresentationQueries []string `json:"presentationQueries"`
	InteractiveQueries  []string `json:"interactiveQueries"`
}

// RawResource is an unranked search candidate, tagged with its category.
type RawResource struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	SourceName   string `json:"sourceName,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

// RankedResource is a scored, filtered candidate returned by the ranker.
type RankedResource struct {
	ResourceType   string  `json:"resourceType"`
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Description    string  `json:"description"`
	ThumbnailURL   string  `json:"thumbnailUrl,omitempty"`
	SourceName     string  `json:"sourceName,omitempty"`
	Duration       string  `json:"duration,omitempty"`
	RelevanceScore float64 `json:"relevanceScore"`
	AIReasoning    string  `json:"aiReasoning"`
	SectionType    string  `json:"sectionType,omitempty"`
	IsFree         bool    `json:"isFree"`
}

// AdaptationSuggestion is the generator's proposed plan edit set.
type AdaptationSuggestion struct {
	Suggestion map[string]any `json:"suggestion"`
	Reasoning  string         `json:"reasoning"`
}
