package curriculum

// JSON schemas handed to the generator's structured-output mode. Kept next to
// the prompt builders so prompt and schema evolve together.

func strSchema() map[string]any { return map[string]any{"type": "string"} }
func intSchema() map[string]any { return map[string]any{"type": "integer"} }
func numSchema() map[string]any { return map[string]any{"type": "number"} }
func boolSchema() map[string]any { return map[string]any{"type": "boolean"} }

func strArraySchema() map[string]any {
	return map[string]any{"type": "array", "items": strSchema()}
}

func objSchema(props map[string]any, required []string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func arrSchema(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func MacroPlanSchema() map[string]any {
	week := objSchema(map[string]any{
		"weekNumber":            intSchema(),
		"theme":                 strSchema(),
		"topics":                strArraySchema(),
		"learningObjectives":    strArraySchema(),
		"difficultyLevel":       map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
		"sessionCount":          intSchema(),
		"totalHours":            numSchema(),
		"hasAssessment":         boolSchema(),
		"assessmentType":        strSchema(),
		"assessmentDetails":     strSchema(),
		"prerequisites":         strArraySchema(),
		"keyConceptsIntroduced": strArraySchema(),
		"teacherNotes":          strSchema(),
		"isBufferWeek":          boolSchema(),
	}, []string{"weekNumber", "theme", "topics", "learningObjectives", "difficultyLevel", "sessionCount", "totalHours", "hasAssessment"})

	strategy := objSchema(map[string]any{
		"quizCount":       intSchema(),
		"assignmentCount": intSchema(),
		"midtermCount":    intSchema(),
		"projectCount":    intSchema(),
		"finalExam":       boolSchema(),
		"weightages":      map[string]any{"type": "object", "additionalProperties": numSchema()},
	}, []string{"quizCount", "assignmentCount", "midtermCount", "projectCount", "finalExam"})

	return objSchema(map[string]any{
		"courseName":         strSchema(),
		"totalWeeks":         intSchema(),
		"courseOverview":     strSchema(),
		"teachingPhilosophy": strSchema(),
		"weeks":              arrSchema(week),
		"assessmentStrategy": strategy,
		"prerequisiteMap":    map[string]any{"type": "object", "additionalProperties": strArraySchema()},
		"suggestedResources": strArraySchema(),
	}, []string{"courseName", "totalWeeks", "courseOverview", "weeks", "assessmentStrategy"})
}

func SessionBlueprintSchema() map[string]any {
	section := objSchema(map[string]any{
		"type":            map[string]any{"type": "string", "enum": []string{"hook", "core", "activity", "application", "checkpoint", "close"}},
		"title":           strSchema(),
		"duration":        intSchema(),
		"content":         strSchema(),
		"teacherScript":   strSchema(),
		"materials":       strArraySchema(),
		"interactionType": strSchema(),
		"tips":            strArraySchema(),
	}, []string{"type", "title", "duration", "content"})

	checkpoint := objSchema(map[string]any{
		"question":              strSchema(),
		"correctAnswer":         strSchema(),
		"commonWrongAnswers":    strArraySchema(),
		"whyStudentsGetItWrong": strSchema(),
	}, []string{"question", "correctAnswer"})

	misconception := objSchema(map[string]any{
		"misconception": strSchema(),
		"correction":    strSchema(),
		"howToPrevent":  strSchema(),
	}, []string{"misconception", "correction"})

	emergency := objSchema(map[string]any{
		"ifRunningBehind":      strSchema(),
		"ifRunningAhead":       strSchema(),
		"ifStudentsStruggling": strSchema(),
	}, []string{"ifRunningBehind", "ifRunningAhead", "ifStudentsStruggling"})

	return objSchema(map[string]any{
		"sessionTitle":         strSchema(),
		"weekNumber":           intSchema(),
		"sessionNumber":        intSchema(),
		"duration":             intSchema(),
		"difficulty":           strSchema(),
		"overview":             strSchema(),
		"sections":             arrSchema(section),
		"keyConceptsCovered":   strArraySchema(),
		"checkpointQuestion":   checkpoint,
		"commonMisconceptions": arrSchema(misconception),
		"realWorldConnections": strArraySchema(),
		"nextSessionPreview":   strSchema(),
		"emergencyPlan":        emergency,
		"preparationChecklist": strArraySchema(),
		"boardWork":            strSchema(),
		"technologyNeeded":     strArraySchema(),
	}, []string{"sessionTitle", "weekNumber", "sessionNumber", "duration", "overview", "sections", "keyConceptsCovered", "checkpointQuestion"})
}

func EngagementToolkitSchema() map[string]any {
	return objSchema(map[string]any{
		"topic": strSchema(),
		"analogies": arrSchema(objSchema(map[string]any{
			"analogy":              strSchema(),
			"howToPresent":         strSchema(),
			"whenToUse":            strSchema(),
			"targetMisconception":  strSchema(),
		}, []string{"analogy", "howToPresent"})),
		"realWorldExamples": arrSchema(objSchema(map[string]any{
			"example":     strSchema(),
			"industry":    strSchema(),
			"company":     strSchema(),
			"explanation": strSchema(),
		}, []string{"example", "industry", "explanation"})),
		"demonstrations": arrSchema(objSchema(map[string]any{
			"title":           strSchema(),
			"description":     strSchema(),
			"materialsNeeded": strArraySchema(),
			"duration":        intSchema(),
			"safetyNotes":     strSchema(),
			"expectedOutcome": strSchema(),
		}, []string{"title", "description"})),
		"discussionQuestions": arrSchema(objSchema(map[string]any{
			"question":          strSchema(),
			"purpose":           strSchema(),
			"expectedResponses": strArraySchema(),
			"followUp":          strSchema(),
		}, []string{"question", "purpose"})),
		"quickActivities": arrSchema(objSchema(map[string]any{
			"name":            strSchema(),
			"duration":        intSchema(),
			"description":     strSchema(),
			"groupSize":       strSchema(),
			"learningOutcome": strSchema(),
		}, []string{"name", "description"})),
		"commonMistakes": arrSchema(objSchema(map[string]any{
			"mistake":            strSchema(),
			"whyItHappens":       strSchema(),
			"howToFix":           strSchema(),
			"preventionStrategy": strSchema(),
		}, []string{"mistake", "howToFix"})),
		"visualAids": arrSchema(objSchema(map[string]any{
			"type":            strSchema(),
			"description":     strSchema(),
			"suggestedSource": strSchema(),
		}, []string{"type", "description"})),
		"memoryHooks": arrSchema(objSchema(map[string]any{
			"hook":                 strSchema(),
			"whatItHelpsRemember":  strSchema(),
		}, []string{"hook"})),
		"industryConnections": arrSchema(objSchema(map[string]any{
			"company":         strSchema(),
			"howTheyUseThis":  strSchema(),
			"interestingFact": strSchema(),
		}, []string{"company", "howTheyUseThis"})),
	}, []string{"topic", "analogies", "realWorldExamples", "quickActivities"})
}

func AdaptationSuggestionSchema() map[string]any {
	change := objSchema(map[string]any{
		"weekNumber":  intSchema(),
		"changeType":  map[string]any{"type": "string", "enum": []string{"add_content", "remove_content", "slow_pacing", "add_review", "reschedule"}},
		"description": strSchema(),
		"details":     map[string]any{"type": "object", "additionalProperties": true},
	}, []string{"weekNumber", "changeType", "description"})

	suggestion := objSchema(map[string]any{
		"affectedWeeks":    arrSchema(intSchema()),
		"proposedChanges":  arrSchema(change),
		"schedulingImpact": strSchema(),
	}, []string{"affectedWeeks", "proposedChanges"})

	return objSchema(map[string]any{
		"suggestion": suggestion,
		"reasoning":  strSchema(),
	}, []string{"suggestion", "reasoning"})
}

func ResourceQueriesSchema() map[string]any {
	return objSchema(map[string]any{
		"youtubeQueries":      strArraySchema(),
		"articleQueries":      strArraySchema(),
		"pdfQueries":          strArraySchema(),
		"presentationQueries": strArraySchema(),
		"interactiveQueries":  strArraySchema(),
	}, []string{"youtubeQueries", "articleQueries", "pdfQueries", "presentationQueries", "interactiveQueries"})
}

func ResourceRankingSchema() map[string]any {
	resource := objSchema(map[string]any{
		"resourceType":   map[string]any{"type": "string", "enum": []string{"YOUTUBE_VIDEO", "ARTICLE", "PDF", "PRESENTATION", "INTERACTIVE_TOOL", "WEBSITE"}},
		"title":          strSchema(),
		"url":            strSchema(),
		"description":    strSchema(),
		"thumbnailUrl":   strSchema(),
		"sourceName":     strSchema(),
		"duration":       strSchema(),
		"relevanceScore": numSchema(),
		"aiReasoning":    strSchema(),
		"sectionType":    strSchema(),
		"isFree":         boolSchema(),
	}, []string{"resourceType", "title", "url", "relevanceScore", "aiReasoning", "isFree"})

	return objSchema(map[string]any{
		"resources": arrSchema(resource),
	}, []string{"resources"})
}
