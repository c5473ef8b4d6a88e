// Package triage assigns incoming support tickets to a department using
// deterministic keyword scoring.
package triage

import (
	"regexp"
	"strings"
)

// Confidence constants.
const (
	// fallbackConfidence is returned when no department matches at all.
	fallbackConfidence = 0.5
	confidenceBase     = 0.7
	confidenceSpread   = 0.3
	confidenceCap      = 0.99
)

// wordPattern matches a maximal run of alphanumeric/underscore characters.
// Punctuation acts as a separator.
var wordPattern = regexp.MustCompile(`\w+`)

// Result is the classification output: a department and a confidence score
// in [0,1]. Results are computed fresh per call and never persisted.
type Result struct {
	Department Department
	Confidence float64
}

// Classify scores the concatenated subject and description against each
// department's keyword list and returns the best match.
//
// Scoring iterates over keyword lists, counting keywords present as exact
// tokens in the input; repeating a keyword in the text does not raise its
// score, and substrings do not match ("passwords" never matches "password").
// Ties resolve to the first department in declaration order. When every
// department scores zero, the result is General Support with a fixed 0.5
// confidence; otherwise confidence is
// min(0.99, 0.7 + 0.3*bestScore/totalScore) where totalScore sums every
// department's score, so shared keywords dilute confidence.
//
// Pure and deterministic; safe to call with unbounded concurrency.
func Classify(subject, description string) Result {
	tokens := tokenize(strings.ToLower(subject + " " + description))

	best := departmentTable[0].department
	bestScore := 0
	totalScore := 0

	for _, entry := range departmentTable {
		score := 0
		for _, keyword := range entry.keywords {
			if _, ok := tokens[keyword]; ok {
				score++
			}
		}
		totalScore += score
		if score > bestScore {
			best = entry.department
			bestScore = score
		}
	}

	if bestScore == 0 {
		return Result{Department: DepartmentGeneral, Confidence: fallbackConfidence}
	}

	confidence := confidenceBase + confidenceSpread*(float64(bestScore)/float64(totalScore))
	if confidence > confidenceCap {
		confidence = confidenceCap
	}

	return Result{Department: best, Confidence: confidence}
}

// tokenize splits lower-cased text into its set of word tokens. Duplicate
// tokens collapse.
func tokenize(text string) map[string]struct{} {
	words := wordPattern.FindAllString(text, -1)
	tokens := make(map[string]struct{}, len(words))
	for _, w := range words {
		tokens[w] = struct{}{}
	}
	return tokens
}
