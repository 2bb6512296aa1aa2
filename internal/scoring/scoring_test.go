package scoring

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreEmptyInput(t *testing.T) {
	e := NewEngine()

	result := e.Score(Input{})
	if result.Score != 0 {
		t.Errorf("empty input score = %d, want 0", result.Score)
	}
	if result.Rank != RankCold {
		t.Errorf("empty input rank = %s, want cold", result.Rank)
	}
	if result.Confidence != 0.5 {
		t.Errorf("empty input confidence = %v, want baseline 0.5", result.Confidence)
	}
	if len(result.Factors) != 0 {
		t.Errorf("empty input produced %d factors", len(result.Factors))
	}
}

func TestScoreIntentCap(t *testing.T) {
	e := NewEngine()

	// Three strong intent phrases sum past 30 and must be capped.
	result := e.Score(Input{
		Text: "business opportunity for passive income and extra income",
	})
	if result.Breakdown.Intent != CapIntent {
		t.Errorf("intent = %d, want capped at %d", result.Breakdown.Intent, CapIntent)
	}
	// Factors keep the uncapped contributions for explainability.
	if len(result.Factors) != 3 {
		t.Errorf("got %d factors, want 3", len(result.Factors))
	}
}

func TestScorePainCap(t *testing.T) {
	e := NewEngine()

	result := e.Score(Input{Text: "laid off kahapon, walang ipon, may utang pa"})
	if result.Breakdown.Pain != CapPain {
		t.Errorf("pain = %d, want capped at %d", result.Breakdown.Pain, CapPain)
	}
}

func TestScoreAuthorityTiers(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name  string
		input Input
		want  int
	}{
		{"mega followers capped with title", Input{Followers: 12000, Occupation: "Regional Director"}, CapAuthority},
		{"mid followers", Input{Followers: 6000}, 12},
		{"small followers", Input{Followers: 1500}, 8},
		{"below tier", Input{Followers: 900}, 0},
		{"engagement only", Input{Engagement: 275}, 5},
		{"engagement capped", Input{Engagement: 5000}, 10},
		{"leadership title only", Input{Occupation: "Shop Owner"}, 12},
		{"plain occupation", Input{Occupation: "Teacher"}, 0},
	}

	for _, test := range tests {
		result := e.Score(test.input)
		if result.Breakdown.Authority != test.want {
			t.Errorf("%s: authority = %d, want %d", test.name, result.Breakdown.Authority, test.want)
		}
	}
}

func TestScoreRelationshipTiers(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name  string
		input Input
		want  int
	}{
		{"many mutuals", Input{MutualConnections: 60}, 10},
		{"some mutuals", Input{MutualConnections: 25}, 7},
		{"few mutuals", Input{MutualConnections: 5}, 4},
		{"interactions capped", Input{PastInteractions: 12}, 5},
		{"combined capped", Input{MutualConnections: 60, PastInteractions: 5}, CapRelationship},
	}

	for _, test := range tests {
		result := e.Score(test.input)
		if result.Breakdown.Relationship != test.want {
			t.Errorf("%s: relationship = %d, want %d", test.name, result.Breakdown.Relationship, test.want)
		}
	}
}

func TestScoreCompleteness(t *testing.T) {
	e := NewEngine()

	result := e.Score(Input{
		Occupation:     "Nurse",
		HasLocation:    true,
		HasSocialLinks: true,
		HasSkills:      true,
	})
	if result.Breakdown.Completeness != CapCompleteness {
		t.Errorf("completeness = %d, want %d", result.Breakdown.Completeness, CapCompleteness)
	}

	partial := e.Score(Input{HasLocation: true})
	if partial.Breakdown.Completeness != 2 {
		t.Errorf("location-only completeness = %d, want 2", partial.Breakdown.Completeness)
	}
}

func TestRankForScore(t *testing.T) {
	tests := []struct {
		score int
		want  Rank
	}{
		{100, RankHot},
		{70, RankHot},
		{69, RankWarm},
		{50, RankWarm},
		{49, RankCold},
		{0, RankCold},
	}

	for _, test := range tests {
		if got := RankForScore(test.score); got != test.want {
			t.Errorf("RankForScore(%d) = %s, want %s", test.score, got, test.want)
		}
	}
}

func TestScoreTotalCap(t *testing.T) {
	e := NewEngine()

	// Max out every category; the grand total still caps at 100.
	result := e.Score(Input{
		Text: "business opportunity passive income laid off walang ipon utang " +
			"new baby graduated kasal",
		Occupation:        "Founder",
		HasLocation:       true,
		HasSocialLinks:    true,
		HasSkills:         true,
		Followers:         20000,
		Engagement:        10000,
		MutualConnections: 100,
		PastInteractions:  10,
	})

	if result.Score != MaxScore {
		t.Errorf("score = %d, want %d", result.Score, MaxScore)
	}
	if result.Rank != RankHot {
		t.Errorf("rank = %s, want hot", result.Rank)
	}
	if !approx(result.Confidence, 1.0) {
		t.Errorf("confidence = %v, want 1.0 with this much evidence", result.Confidence)
	}
}

func TestScoreMatchesTags(t *testing.T) {
	e := NewEngine()

	// Lexicon phrases match against tags as well as free text.
	result := e.Score(Input{Tags: []string{"negosyo", "burnout"}})
	if result.Breakdown.Intent != 24 {
		t.Errorf("intent from tag = %d, want 24", result.Breakdown.Intent)
	}
	if result.Breakdown.Pain != 15 {
		t.Errorf("pain from tag = %d, want 15", result.Breakdown.Pain)
	}
}

func TestWithExtras(t *testing.T) {
	e := NewEngine().WithExtras(
		map[string]int{"franchise": 25},
		nil,
		map[string]int{"balikbayan": 12},
	)

	result := e.Score(Input{Text: "interested in a franchise, balikbayan this december"})
	if result.Breakdown.Intent != 25 {
		t.Errorf("extra intent phrase = %d, want 25", result.Breakdown.Intent)
	}
	if result.Breakdown.LifeEvents != 12 {
		t.Errorf("extra life event phrase = %d, want 12", result.Breakdown.LifeEvents)
	}

	// Extras never leak into a fresh engine.
	fresh := NewEngine()
	if got := fresh.Score(Input{Text: "franchise"}); got.Breakdown.Intent != 0 {
		t.Errorf("fresh engine matched configured extra: %d", got.Breakdown.Intent)
	}
}

func TestConfidenceGrowth(t *testing.T) {
	e := NewEngine()

	// One weak factor: baseline plus nothing.
	one := e.Score(Input{HasLocation: true})
	if one.Confidence != 0.5 {
		t.Errorf("single-factor confidence = %v, want 0.5", one.Confidence)
	}

	// A >=20 point factor and an occupation add their own increments.
	strong := e.Score(Input{
		Text:        "business opportunity",
		Occupation:  "Nurse",
		HasLocation: true,
		HasSkills:   true,
	})
	// Four factors stays below the count bonus: 0.5 + 0.1 + 0.05.
	if !approx(strong.Confidence, 0.65) {
		t.Errorf("confidence = %v, want 0.65", strong.Confidence)
	}
}
