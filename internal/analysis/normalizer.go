// Package analysis turns free-text model replies into the fixed result shape.
//
// The upstream model is asked for JSON but nothing guarantees it complies, so
// normalization runs an ordered chain of strategies and the last one always
// succeeds. A parse failure is never surfaced to the caller.
package analysis

import (
	"encoding/json"
	"strings"

	"github.com/precisionhealth/skinsight-be/internal/models"
)

// Defaults used to fill fields the reply did not provide.
const (
	defaultCondition  = "Skin condition identified"
	fallbackCondition = "Dermatological Assessment"
	defaultSeverity   = models.SeverityModerate
)

var defaultRecommendations = []string{
	"Consult with a dermatologist for proper diagnosis",
	"Keep the affected area clean and dry",
	"Avoid irritating products",
}

// strategy attempts one way of reading the raw reply. ok reports whether it
// produced any results; the chain moves on when it did not.
type strategy func(raw string) (results []models.AnalysisResult, ok bool)

var strategies = []strategy{parseEmbeddedJSON, parseHeuristicLines}

// Normalize converts a raw model reply into at least one fully populated
// result. It is total: any input, including the empty string, yields a
// non-empty slice.
func Normalize(raw string) []models.AnalysisResult {
	for _, s := range strategies {
		if results, ok := s(raw); ok {
			return results
		}
	}
	return []models.AnalysisResult{fallbackResult(raw)}
}

// parseEmbeddedJSON locates a JSON-object-shaped substring (first '{' to the
// greedy last '}', then a balanced match if that fails) and reads the known
// keys out of it, filling any missing field from the defaults.
func parseEmbeddedJSON(raw string) ([]models.AnalysisResult, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var parsed struct {
		Condition       string   `json:"condition"`
		Severity        string   `json:"severity"`
		Description     string   `json:"description"`
		Recommendations []string `json:"recommendations"`
	}

	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		candidate, found := balancedObject(raw[start:])
		if !found {
			return nil, false
		}
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			return nil, false
		}
	}

	result := models.AnalysisResult{
		Condition:       parsed.Condition,
		Severity:        parsed.Severity,
		Description:     parsed.Description,
		Recommendations: parsed.Recommendations,
	}
	if result.Condition == "" {
		result.Condition = defaultCondition
	}
	if result.Severity == "" {
		result.Severity = defaultSeverity
	}
	if result.Description == "" {
		result.Description = strings.TrimSpace(raw)
	}
	if len(result.Recommendations) == 0 {
		result.Recommendations = append([]string(nil), defaultRecommendations...)
	}
	return []models.AnalysisResult{result}, true
}

// balancedObject returns the substring from the leading '{' to its matching
// '}', tracking nesting and string literals.
func balancedObject(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

// parseHeuristicLines scans the reply line by line for the section markers the
// model tends to emit when it answers in prose. An "assessment"/"analysis"
// header starts a new candidate record, flushing the previous one.
func parseHeuristicLines(raw string) ([]models.AnalysisResult, bool) {
	var results []models.AnalysisResult
	var current candidate

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		if strings.Contains(lower, "assessment") || strings.Contains(lower, "analysis") {
			if current.touched {
				results = append(results, current.toResult())
				current = candidate{}
			}
		}

		switch {
		case strings.Contains(lower, "severity"):
			current.severity = afterColon(line)
			current.touched = true
		case strings.Contains(lower, "description"), strings.Contains(lower, "assessment"):
			current.description = afterColon(line)
			current.touched = true
		case strings.Contains(lower, "recommendation"), strings.Contains(lower, "treatment"):
			current.recommendations = append(current.recommendations, afterColon(line))
			current.touched = true
		}
	}

	if current.touched {
		results = append(results, current.toResult())
	}
	return results, len(results) > 0
}

type candidate struct {
	severity        string
	description     string
	recommendations []string
	touched         bool
}

func (c candidate) toResult() models.AnalysisResult {
	result := models.AnalysisResult{
		Condition:       fallbackCondition,
		Severity:        c.severity,
		Description:     c.description,
		Recommendations: c.recommendations,
	}
	if result.Severity == "" {
		result.Severity = defaultSeverity
	}
	if result.Description == "" {
		result.Description = fallbackCondition
	}
	if len(result.Recommendations) == 0 {
		result.Recommendations = append([]string(nil), defaultRecommendations...)
	}
	return result
}

// afterColon returns the text after the first colon, or the whole line when
// there is none.
func afterColon(line string) string {
	if idx := strings.Index(line, ":"); idx >= 0 {
		return strings.TrimSpace(line[idx+1:])
	}
	return strings.TrimSpace(line)
}

// fallbackResult wraps an unparseable reply verbatim. Recommendations stay
// empty here: there is nothing to invent when the reply carried no structure.
func fallbackResult(raw string) models.AnalysisResult {
	return models.AnalysisResult{
		Condition:       fallbackCondition,
		Severity:        models.SeverityUnknown,
		Description:     strings.TrimSpace(raw),
		Recommendations: []string{},
	}
}
