package service

import (
	"github.com/psycheck/psycheck-api/internal/dto"
	"github.com/psycheck/psycheck-api/pkg/ai"
)

// Fixed narratives for essays failed on length alone.
const (
	tooShortFailConclusion = "The essay was not graded: it is too short to demonstrate the required level of argumentation."
	tooLongFailConclusion  = "The essay was not graded: it exceeds the maximum permitted length."
)

// FailedLengthResult produces the evaluation outcome for an automatic-fail
// bucket. The scoring backend is never consulted for these essays.
func FailedLengthResult(bucket LengthBucket) dto.EvaluationResult {
	conclusion := tooShortFailConclusion
	if bucket == BucketTooLong {
		conclusion = tooLongFailConclusion
	}

	return dto.EvaluationResult{
		CompleteScore:     0.0,
		GeneralConclusion: conclusion,
		LengthConclusion:  bucket.LengthConclusion(),
		Content:           dto.SectionResult{Criterias: []ai.Criterion{}},
		Language:          dto.SectionResult{Criterias: []ai.Criterion{}},
		Suggestions:       []string{lengthSuggestion},
	}
}

// AggregateScores combines the raw rubric result with the length bucket into
// the final evaluation. Empty criteria lists yield a section score of 0.
func AggregateScores(result ai.RubricResult, bucket LengthBucket) dto.EvaluationResult {
	if bucket.AutoFail() {
		return FailedLengthResult(bucket)
	}

	contentScore := criteriaMean(result.Content.Criterias)
	languageScore := criteriaMean(result.Language.Criterias) - bucket.Penalty()
	if languageScore < 0 {
		languageScore = 0
	}

	suggestions := make([]string, 0, len(result.Suggestions)+1)
	suggestions = append(suggestions, result.Suggestions...)
	if bucket.Penalty() > 0 {
		suggestions = append(suggestions, lengthSuggestion)
	}

	return dto.EvaluationResult{
		CompleteScore:     (contentScore + languageScore) * 2.0,
		GeneralConclusion: result.GeneralConclusion,
		LengthConclusion:  bucket.LengthConclusion(),
		Content: dto.SectionResult{
			Score:      contentScore,
			Conclusion: result.Content.Conclusion,
			Criterias:  nonNilCriterias(result.Content.Criterias),
		},
		Language: dto.SectionResult{
			Score:      languageScore,
			Conclusion: result.Language.Conclusion,
			Criterias:  nonNilCriterias(result.Language.Criterias),
		},
		Suggestions: suggestions,
	}
}

func criteriaMean(criterias []ai.Criterion) float64 {
	if len(criterias) == 0 {
		return 0
	}

	total := 0.0
	for _, criterion := range criterias {
		total += criterion.Score
	}
	return total / float64(len(criterias))
}

func nonNilCriterias(criterias []ai.Criterion) []ai.Criterion {
	if criterias == nil {
		return []ai.Criterion{}
	}
	return criterias
}
