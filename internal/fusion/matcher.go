package fusion

import (
	"fmt"
	"strings"

	"github.com/kastilyo/leadscout/internal/record"
)

// Match score rule values. First applicable rule wins; the contact-identifier
// override runs before any name heuristic returns.
const (
	ScoreExactName       = 0.99 // case-sensitive name equality
	ScoreCaseInsensitive = 0.95 // case-insensitive name equality
	ScoreFirstLastMatch  = 0.88 // first and last tokens match
	ScoreFirstTokenMulti = 0.65 // multi-token names sharing only the first token
	ScoreSuffixStripped  = 0.92 // equal after stripping generational suffixes
	ScoreContactOverride = 0.99 // shared email or phone identifier
	ScoreFirstTokenOnly  = 0.60 // first tokens coincide, nothing else
	JaroWinklerFloor     = 0.90 // minimum Jaro-Winkler to accept outright
	LevenshteinFloor     = 0.85 // minimum normalized Levenshtein to accept
)

// ConfidenceTier buckets a match score qualitatively.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// MatchMethod labels how certain a match is, derived from the score.
type MatchMethod string

const (
	MethodExact    MatchMethod = "exact"    // score >= 0.95
	MethodStrong   MatchMethod = "strong"   // score >= 0.85
	MethodLikely   MatchMethod = "likely"   // score >= 0.75
	MethodPossible MatchMethod = "possible" // score >= 0.60
	MethodWeak     MatchMethod = "weak"     // everything below
)

// MatchResult is the detailed output of a pairwise comparison. It is consumed
// by the grouper and the debugging path and never persisted on its own.
type MatchResult struct {
	Score       float64        `json:"score"`
	Confidence  ConfidenceTier `json:"confidence"`
	Method      MatchMethod    `json:"method"`
	Explanation string         `json:"explanation"`
}

// Generational and honorific suffixes ignored during name comparison.
var defaultNameSuffixes = []string{"jr", "jr.", "sr", "sr.", "ii", "iii", "iv"}

// Matcher computes pairwise identity similarity between candidate records.
// It is deterministic and symmetric: match(a,b) == match(b,a) for every rule.
type Matcher struct {
	suffixes []string
}

// NewMatcher creates a Matcher with the built-in suffix set plus any extras.
func NewMatcher(extraSuffixes ...string) *Matcher {
	suffixes := make([]string, 0, len(defaultNameSuffixes)+len(extraSuffixes))
	suffixes = append(suffixes, defaultNameSuffixes...)
	for _, s := range extraSuffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			suffixes = append(suffixes, s)
		}
	}
	return &Matcher{suffixes: suffixes}
}

// Match returns the similarity score in [0,1] for two candidate records.
func (m *Matcher) Match(a, b record.CandidateRecord) float64 {
	score, _ := m.similarity(a, b)
	return score
}

// MatchDetailed returns the score plus confidence tier, method label, and a
// human-readable explanation of which rule fired.
func (m *Matcher) MatchDetailed(a, b record.CandidateRecord) MatchResult {
	score, reason := m.similarity(a, b)

	var tier ConfidenceTier
	var method MatchMethod
	switch {
	case score >= 0.95:
		tier, method = ConfidenceHigh, MethodExact
	case score >= 0.85:
		tier, method = ConfidenceHigh, MethodStrong
	case score >= 0.75:
		tier, method = ConfidenceMedium, MethodLikely
	case score >= 0.60:
		tier, method = ConfidenceLow, MethodPossible
	default:
		tier, method = ConfidenceLow, MethodWeak
	}

	return MatchResult{
		Score:       score,
		Confidence:  tier,
		Method:      method,
		Explanation: fmt.Sprintf("%s (score %.2f)", reason, score),
	}
}

// similarity applies the rule list in order and returns the winning score
// with the rule that produced it. Missing names degrade to zero evidence.
func (m *Matcher) similarity(a, b record.CandidateRecord) (float64, string) {
	nameA := strings.TrimSpace(a.Name)
	nameB := strings.TrimSpace(b.Name)
	if nameA == "" || nameB == "" {
		return 0, "missing name"
	}

	// Shared contact identifiers are deterministic: they win regardless of
	// how dissimilar the names look.
	if a.Email != "" && b.Email != "" && strings.EqualFold(strings.TrimSpace(a.Email), strings.TrimSpace(b.Email)) {
		return ScoreContactOverride, "identical email address"
	}
	if a.Phone != "" && b.Phone != "" {
		pa, pb := normalizePhone(a.Phone), normalizePhone(b.Phone)
		if pa != "" && pa == pb {
			return ScoreContactOverride, "identical phone number"
		}
	}

	if nameA == nameB {
		return ScoreExactName, "exact name match"
	}

	lowerA := strings.ToLower(nameA)
	lowerB := strings.ToLower(nameB)
	if lowerA == lowerB {
		return ScoreCaseInsensitive, "case-insensitive name match"
	}

	tokensA := strings.Fields(lowerA)
	tokensB := strings.Fields(lowerB)
	if len(tokensA) >= 2 && len(tokensB) >= 2 && tokensA[0] == tokensB[0] {
		if tokensA[len(tokensA)-1] == tokensB[len(tokensB)-1] {
			return ScoreFirstLastMatch, "first and last name match"
		}
		return ScoreFirstTokenMulti, "shared first name"
	}

	if m.stripSuffixes(lowerA) == m.stripSuffixes(lowerB) {
		return ScoreSuffixStripped, "name match after suffix removal"
	}

	jw := jaroWinkler(lowerA, lowerB)
	if jw >= JaroWinklerFloor {
		return jw, "high Jaro-Winkler similarity"
	}

	lev := levenshteinSimilarity(lowerA, lowerB)
	if lev >= LevenshteinFloor {
		return lev, "high Levenshtein similarity"
	}

	if len(tokensA) > 0 && len(tokensB) > 0 && tokensA[0] == tokensB[0] {
		return ScoreFirstTokenOnly, "matching first token"
	}

	if jw >= lev {
		return jw, "weak Jaro-Winkler similarity"
	}
	return lev, "weak Levenshtein similarity"
}

// stripSuffixes removes trailing generational/honorific suffixes from a
// lowercased name.
func (m *Matcher) stripSuffixes(lower string) string {
	tokens := strings.Fields(lower)
	for len(tokens) > 1 {
		last := tokens[len(tokens)-1]
		stripped := false
		for _, suffix := range m.suffixes {
			if last == suffix {
				tokens = tokens[:len(tokens)-1]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return strings.Join(tokens, " ")
}
