// internal/services/label_normalizer.go
package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical sentiment labels.
const (
	LabelPositive = "Positive"
	LabelNegative = "Negative"
	LabelNeutral  = "Neutral"
)

// sentimentKeywords maps curated keyword sets to labels. Order matters:
// the positive set always wins over the negative and neutral sets, and the
// lists themselves are a compatibility contract, not a sentiment lexicon.
var sentimentKeywords = []struct {
	label string
	words []string
}{
	{LabelPositive, []string{"positive", "happy", "good", "great", "excellent", "wonderful"}},
	{LabelNegative, []string{"negative", "sad", "bad", "terrible", "awful", "horrible"}},
	{LabelNeutral, []string{"neutral", "mixed", "okay", "average"}},
}

// NormalizeLabel maps the model's free-text reply to a sentiment label.
// The ordered fallback is: curated keyword sets, then the literal label
// names in Positive/Negative/Neutral priority, then the capitalized reply.
func NormalizeLabel(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return LabelNeutral
	}

	for _, set := range sentimentKeywords {
		for _, word := range set.words {
			if strings.Contains(text, word) {
				return set.label
			}
		}
	}

	// Models under a tight output cap sometimes truncate the label, so the
	// literal check also accepts replies that are a fragment of a label
	// name ("Pos" -> Positive). Fragments shorter than 3 runes stay on the
	// capitalize path.
	for _, set := range sentimentKeywords {
		name := strings.ToLower(set.label)
		if strings.Contains(text, name) {
			return set.label
		}
		if utf8.RuneCountInString(text) >= 3 && strings.Contains(name, text) {
			return set.label
		}
	}

	return capitalize(text)
}

// ConfidenceFor tags canonical labels as high confidence, everything
// else as medium.
func ConfidenceFor(label string) string {
	switch label {
	case LabelPositive, LabelNegative, LabelNeutral:
		return "high"
	}
	return "medium"
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
