package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func essayOfWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = "word"
	}
	return strings.Join(words, " ")
}

func TestWordCountSplitsOnWhitespace(t *testing.T) {
	require.Equal(t, 0, WordCount(""))
	require.Equal(t, 0, WordCount("   \n\t "))
	require.Equal(t, 3, WordCount("one  two\nthree"))
}

func TestLineCountUsesTwelveWordsPerLine(t *testing.T) {
	require.Equal(t, 0, LineCount(essayOfWords(11)))
	require.Equal(t, 1, LineCount(essayOfWords(12)))
	require.Equal(t, 10, LineCount(essayOfWords(130)))
}

func TestClassifyLengthBuckets(t *testing.T) {
	cases := []struct {
		name   string
		words  int
		bucket LengthBucket
	}{
		{"empty", 0, BucketTooShort},
		{"ten lines", 130, BucketTooShort},
		{"eleven lines", 11 * 12, BucketShort},
		{"nineteen lines", 19*12 + 5, BucketShort},
		{"twenty lines", 20 * 12, BucketBorderlineShort},
		{"twenty-four lines", 24*12 + 11, BucketBorderlineShort},
		{"twenty-five lines", 25 * 12, BucketAcceptable},
		{"fifty lines", 50*12 + 11, BucketAcceptable},
		{"fifty-one lines", 51 * 12, BucketTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.bucket, ClassifyLength(essayOfWords(tc.words)))
		})
	}
}

func TestAutoFailOnlyAtExtremes(t *testing.T) {
	require.True(t, BucketTooShort.AutoFail())
	require.True(t, BucketTooLong.AutoFail())
	require.False(t, BucketShort.AutoFail())
	require.False(t, BucketBorderlineShort.AutoFail())
	require.False(t, BucketAcceptable.AutoFail())
}

func TestPenaltyPerBucket(t *testing.T) {
	require.Equal(t, 0.0, BucketAcceptable.Penalty())
	require.Equal(t, 1.0, BucketShort.Penalty())
	require.Equal(t, 2.0, BucketBorderlineShort.Penalty())
	require.Equal(t, 0.0, BucketTooShort.Penalty())
	require.Equal(t, 0.0, BucketTooLong.Penalty())
}
