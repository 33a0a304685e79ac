package service

import "strings"

// wordsPerLine is the fixed constant used to derive a line count from the
// whitespace-delimited word count of an essay.
const wordsPerLine = 12

// LengthBucket is a discrete length classification affecting scoring policy.
type LengthBucket int

// Length buckets ordered from shortest to longest.
const (
	BucketTooShort LengthBucket = iota
	BucketShort
	BucketBorderlineShort
	BucketAcceptable
	BucketTooLong
)

// WordCount returns the number of whitespace-delimited tokens in the essay.
func WordCount(essay string) int {
	return len(strings.Fields(essay))
}

// LineCount derives the nominal line count from the word count.
func LineCount(essay string) int {
	return WordCount(essay) / wordsPerLine
}

// ClassifyLength maps an essay onto its length bucket.
func ClassifyLength(essay string) LengthBucket {
	lines := LineCount(essay)
	switch {
	case lines <= 10:
		return BucketTooShort
	case lines <= 19:
		return BucketShort
	case lines <= 24:
		return BucketBorderlineShort
	case lines <= 50:
		return BucketAcceptable
	default:
		return BucketTooLong
	}
}

// AutoFail reports whether the bucket fails the essay outright, skipping the
// scoring backend entirely.
func (b LengthBucket) AutoFail() bool {
	return b == BucketTooShort || b == BucketTooLong
}

// Penalty returns the language-score deduction applied for the bucket.
func (b LengthBucket) Penalty() float64 {
	switch b {
	case BucketShort:
		return 1
	case BucketBorderlineShort:
		return 2
	default:
		return 0
	}
}

func (b LengthBucket) String() string {
	switch b {
	case BucketTooShort:
		return "too_short"
	case BucketShort:
		return "short"
	case BucketBorderlineShort:
		return "borderline_short"
	case BucketAcceptable:
		return "acceptable"
	case BucketTooLong:
		return "too_long"
	default:
		return "unknown"
	}
}

// Narratives attached to evaluation results depending on the length bucket.
const (
	tooShortConclusion        = "The essay is far below the required length. An essay this short cannot be graded; aim for at least 25 lines (around 300 words)."
	tooLongConclusion         = "The essay exceeds the maximum allowed length. Essays longer than 50 lines (around 600 words) are failed automatically."
	shortConclusion           = "The essay is shorter than the recommended range, so one point was deducted from the language score."
	borderlineShortConclusion = "The essay is noticeably short of the recommended range, so two points were deducted from the language score."
	acceptableConclusion      = "The essay length is within the recommended range."
	lengthSuggestion          = "Develop your arguments further to bring the essay into the recommended 25-50 line range."
)

// LengthConclusion returns the narrative describing how the bucket affected
// the evaluation.
func (b LengthBucket) LengthConclusion() string {
	switch b {
	case BucketTooShort:
		return tooShortConclusion
	case BucketTooLong:
		return tooLongConclusion
	case BucketShort:
		return shortConclusion
	case BucketBorderlineShort:
		return borderlineShortConclusion
	default:
		return acceptableConclusion
	}
}
