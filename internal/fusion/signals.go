package fusion

import "strings"

// Signals holds the keyword matches found in a record's free text and tags,
// one set per category. Multiple matches per category are all retained.
type Signals struct {
	Intent     []string `json:"intent,omitempty"`
	Pain       []string `json:"pain,omitempty"`
	Topics     []string `json:"topics,omitempty"`
	Activities []string `json:"activities,omitempty"`
}

// SignalExtractor scans free text and tag lists against a signal lexicon.
type SignalExtractor struct {
	lexicon SignalLexicon
}

// NewSignalExtractor creates an extractor over the given lexicon.
func NewSignalExtractor(lexicon SignalLexicon) *SignalExtractor {
	return &SignalExtractor{lexicon: lexicon}
}

// Extract returns every lexicon phrase contained in the lower-cased text or
// in any of the tags. Missing text and empty tag lists degrade to no matches.
func (e *SignalExtractor) Extract(text string, tags []string) Signals {
	haystack := strings.ToLower(text)
	lowered := make([]string, 0, len(tags))
	for _, tag := range tags {
		lowered = append(lowered, strings.ToLower(tag))
	}

	return Signals{
		Intent:     matchPhrases(e.lexicon.Intent, haystack, lowered),
		Pain:       matchPhrases(e.lexicon.Pain, haystack, lowered),
		Topics:     matchPhrases(e.lexicon.Topics, haystack, lowered),
		Activities: matchPhrases(e.lexicon.Activities, haystack, lowered),
	}
}

// matchPhrases returns the phrases contained in the text or in any tag.
func matchPhrases(phrases []string, text string, tags []string) []string {
	var matched []string
	for _, phrase := range phrases {
		if containsPhrase(phrase, text, tags) {
			matched = append(matched, phrase)
		}
	}
	return matched
}

func containsPhrase(phrase, text string, tags []string) bool {
	if text != "" && strings.Contains(text, phrase) {
		return true
	}
	for _, tag := range tags {
		if strings.Contains(tag, phrase) {
			return true
		}
	}
	return false
}
