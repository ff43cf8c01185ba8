package analyzer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	maxExplanationChars = 240
	maxEvidencePhrases  = 3
	maxSentences        = 2
)

// coerceResult maps a loosely-structured parsed object into the strict
// four-field schema. Label validation is a hard boundary and can fail;
// confidence and evidence are advisory and always coerce to a safe
// default instead of failing.
func coerceResult(parsed map[string]any) (*Result, error) {
	label, err := normalizeLabel(firstPresent(parsed, "label", "sentiment", "prediction"))
	if err != nil {
		return nil, err
	}

	confidence := coerceConfidence(firstPresent(parsed, "confidence", "score"))

	explanationRaw := firstPresent(parsed, "explanation", "rationale", "reason", "justification")
	explanation := ""
	if explanationRaw != nil {
		explanation = fmt.Sprint(explanationRaw)
	}
	explanation = shortenExplanation(explanation, maxSentences)

	evidence := coerceEvidence(firstPresent(parsed, "evidence_phrases", "evidence", "highlights"))

	return &Result{
		Label:           label,
		Confidence:      confidence,
		Explanation:     explanation,
		EvidencePhrases: evidence,
	}, nil
}

// firstPresent probes candidate keys in priority order and returns the
// first usable value. Nil values, empty strings, and empty lists don't
// count as present.
func firstPresent(parsed map[string]any, keys ...string) any {
	for _, key := range keys {
		v, ok := parsed[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		if list, isList := v.([]any); isList && len(list) == 0 {
			continue
		}
		return v
	}
	return nil
}

// normalizeLabel maps arbitrary label spellings to exactly one canonical
// label. There is no silent default: an unrecognized value is an explicit
// error naming the offending raw value.
func normalizeLabel(raw any) (string, error) {
	if raw == nil {
		return "", &InvalidLabelError{Raw: nil}
	}

	switch strings.ToLower(strings.TrimSpace(fmt.Sprint(raw))) {
	case "positive", "pos", "p":
		return LabelPositive, nil
	case "negative", "neg", "n":
		return LabelNegative, nil
	case "neutral", "neu", "ntrl", "neut":
		return LabelNeutral, nil
	}
	return "", &InvalidLabelError{Raw: raw}
}

// coerceConfidence converts the raw value to a float in [0,1] rounded to
// 2 decimals. Non-numeric or out-of-range input yields 0.0, never an
// error.
func coerceConfidence(raw any) float64 {
	var confidence float64
	switch v := raw.(type) {
	case float64:
		confidence = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0.0
		}
		confidence = parsed
	default:
		return 0.0
	}

	if confidence < 0.0 || confidence > 1.0 {
		return 0.0
	}
	return math.Round(confidence*100) / 100
}

// shortenExplanation keeps at most maxN sentence-like segments and caps
// the result at 240 characters, cutting at a whitespace boundary with an
// ellipsis marker when truncation occurs.
func shortenExplanation(text string, maxN int) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}

	parts := splitSentences(s)
	if len(parts) > maxN {
		parts = parts[:maxN]
	}
	short := strings.TrimSpace(strings.Join(parts, " "))

	// The cap counts characters, not bytes, so multi-byte text is
	// neither over-truncated nor cut mid-rune.
	if runes := []rune(short); len(runes) > maxExplanationChars {
		cut := string(runes[:maxExplanationChars])
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		short = cut + "..."
	}
	return short
}

// splitSentences splits on sentence-ending punctuation followed by
// whitespace. The punctuation stays with its sentence.
func splitSentences(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		j := i + 1
		if j >= len(s) || !isSpace(s[j]) {
			continue
		}
		parts = append(parts, s[start:j])
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// coerceEvidence normalizes the evidence value into at most three
// strings. Lists keep their scalar elements; a single string splits on
// '|' or ';'; anything else is empty.
func coerceEvidence(raw any) []string {
	var phrases []string

	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			switch elem := item.(type) {
			case string:
				phrases = append(phrases, strings.TrimSpace(elem))
			case float64:
				phrases = append(phrases, strconv.FormatFloat(elem, 'g', -1, 64))
			}
		}
	case string:
		for _, part := range strings.FieldsFunc(v, func(r rune) bool {
			return r == '|' || r == ';'
		}) {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				phrases = append(phrases, trimmed)
			}
		}
	}

	if len(phrases) > maxEvidencePhrases {
		phrases = phrases[:maxEvidencePhrases]
	}
	if phrases == nil {
		phrases = []string{}
	}
	return phrases
}
