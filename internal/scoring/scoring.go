package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Category identifies one of the six scoring categories.
type Category string

const (
	CategoryIntent       Category = "intent"
	CategoryPain         Category = "pain"
	CategoryLifeEvents   Category = "life_events"
	CategoryAuthority    Category = "authority"
	CategoryRelationship Category = "relationship"
	CategoryCompleteness Category = "completeness"
)

// Per-category point ceilings, applied before the grand total is capped.
const (
	CapIntent       = 30
	CapPain         = 20
	CapLifeEvents   = 15
	CapAuthority    = 15
	CapRelationship = 10
	CapCompleteness = 10

	MaxScore = 100
)

// categoryWeights are the relative weights reported on factors. Informational
// only; they are not used arithmetically beyond being attached to output.
var categoryWeights = map[Category]float64{
	CategoryIntent:       0.30,
	CategoryPain:         0.20,
	CategoryLifeEvents:   0.15,
	CategoryAuthority:    0.15,
	CategoryRelationship: 0.10,
	CategoryCompleteness: 0.10,
}

// Rank buckets a score for outreach prioritization.
type Rank string

const (
	RankHot  Rank = "hot"  // score >= 70
	RankWarm Rank = "warm" // score >= 50
	RankCold Rank = "cold" // everything below
)

// RankForScore derives the rank from a total score.
func RankForScore(score int) Rank {
	switch {
	case score >= 70:
		return RankHot
	case score >= 50:
		return RankWarm
	default:
		return RankCold
	}
}

// Factor is one contributing signal in the score, kept for explainability.
type Factor struct {
	Category Category `json:"category"`
	Signal   string   `json:"signal"`
	Points   int      `json:"points"`
	Weight   float64  `json:"weight"`
}

// Breakdown holds the capped per-category point totals.
type Breakdown struct {
	Intent       int `json:"intent"`
	Pain         int `json:"pain"`
	LifeEvents   int `json:"life_events"`
	Authority    int `json:"authority"`
	Relationship int `json:"relationship"`
	Completeness int `json:"completeness"`
}

// ScoreResult is the deterministic, explainable output of the scoring model.
type ScoreResult struct {
	Score      int       `json:"score"`
	Rank       Rank      `json:"rank"`
	Confidence float64   `json:"confidence"`
	Breakdown  Breakdown `json:"breakdown"`
	Factors    []Factor  `json:"factors"`
}

// Input is the scorable view of a merged entity.
type Input struct {
	Text string   // concatenated free text across sources
	Tags []string // interests, extracted signals, topics

	Occupation     string
	HasLocation    bool
	HasSocialLinks bool
	HasSkills      bool

	Followers         int
	Engagement        int
	MutualConnections int
	PastInteractions  int
}

// Engine computes the weighted, capped, category-based lead score.
type Engine struct {
	intent     []WeightedPhrase
	pain       []WeightedPhrase
	lifeEvents []WeightedPhrase
}

// NewEngine creates an Engine with the built-in lexicons.
func NewEngine() *Engine {
	return &Engine{
		intent:     intentLexicon,
		pain:       painLexicon,
		lifeEvents: lifeEventLexicon,
	}
}

// WithExtras appends configured phrases to the built-in lexicons. Map entries
// are appended in sorted phrase order so scoring stays deterministic.
func (e *Engine) WithExtras(intent, pain, lifeEvents map[string]int) *Engine {
	e.intent = appendSorted(e.intent, intent)
	e.pain = appendSorted(e.pain, pain)
	e.lifeEvents = appendSorted(e.lifeEvents, lifeEvents)
	return e
}

// Score computes the ScoreResult for one entity. Every category total is
// capped at its ceiling before the grand total is capped at 100. Missing
// fields contribute zero points, never errors.
func (e *Engine) Score(input Input) ScoreResult {
	var result ScoreResult

	haystack := strings.ToLower(input.Text)
	tags := make([]string, 0, len(input.Tags))
	for _, tag := range input.Tags {
		tags = append(tags, strings.ToLower(tag))
	}

	result.Breakdown.Intent = e.scoreLexicon(CategoryIntent, e.intent, haystack, tags, CapIntent, &result.Factors)
	result.Breakdown.Pain = e.scoreLexicon(CategoryPain, e.pain, haystack, tags, CapPain, &result.Factors)
	result.Breakdown.LifeEvents = e.scoreLexicon(CategoryLifeEvents, e.lifeEvents, haystack, tags, CapLifeEvents, &result.Factors)
	result.Breakdown.Authority = e.scoreAuthority(input, &result.Factors)
	result.Breakdown.Relationship = e.scoreRelationship(input, &result.Factors)
	result.Breakdown.Completeness = e.scoreCompleteness(input, &result.Factors)

	total := result.Breakdown.Intent +
		result.Breakdown.Pain +
		result.Breakdown.LifeEvents +
		result.Breakdown.Authority +
		result.Breakdown.Relationship +
		result.Breakdown.Completeness
	if total > MaxScore {
		total = MaxScore
	}

	result.Score = total
	result.Rank = RankForScore(total)
	result.Confidence = e.confidence(input, result.Factors)
	return result
}

// scoreLexicon awards each matched phrase its full point value (no overlap
// suppression) and caps the category total.
func (e *Engine) scoreLexicon(category Category, lexicon []WeightedPhrase, text string, tags []string, ceiling int, factors *[]Factor) int {
	total := 0
	for _, entry := range lexicon {
		if !matches(entry.Phrase, text, tags) {
			continue
		}
		total += entry.Points
		*factors = append(*factors, Factor{
			Category: category,
			Signal:   fmt.Sprintf("matched %q", entry.Phrase),
			Points:   entry.Points,
			Weight:   categoryWeights[category],
		})
	}
	if total > ceiling {
		total = ceiling
	}
	return total
}

// scoreAuthority awards tiered follower points, engagement points, and a
// leadership-title bonus from the occupation field.
func (e *Engine) scoreAuthority(input Input, factors *[]Factor) int {
	total := 0
	weight := categoryWeights[CategoryAuthority]

	var followerPoints int
	switch {
	case input.Followers >= 10000:
		followerPoints = 15
	case input.Followers >= 5000:
		followerPoints = 12
	case input.Followers >= 1000:
		followerPoints = 8
	}
	if followerPoints > 0 {
		total += followerPoints
		*factors = append(*factors, Factor{
			Category: CategoryAuthority,
			Signal:   fmt.Sprintf("%d followers", input.Followers),
			Points:   followerPoints,
			Weight:   weight,
		})
	}

	if input.Engagement > 0 {
		engagementPoints := input.Engagement / 50
		if engagementPoints > 10 {
			engagementPoints = 10
		}
		if engagementPoints > 0 {
			total += engagementPoints
			*factors = append(*factors, Factor{
				Category: CategoryAuthority,
				Signal:   fmt.Sprintf("%d engagements", input.Engagement),
				Points:   engagementPoints,
				Weight:   weight,
			})
		}
	}

	occupation := strings.ToLower(input.Occupation)
	if occupation != "" {
		for _, title := range leadershipTitles {
			if strings.Contains(occupation, title) {
				total += 12
				*factors = append(*factors, Factor{
					Category: CategoryAuthority,
					Signal:   fmt.Sprintf("leadership title %q", title),
					Points:   12,
					Weight:   weight,
				})
				break
			}
		}
	}

	if total > CapAuthority {
		total = CapAuthority
	}
	return total
}

// scoreRelationship awards tiered mutual-connection points plus past
// interactions capped at 5.
func (e *Engine) scoreRelationship(input Input, factors *[]Factor) int {
	total := 0
	weight := categoryWeights[CategoryRelationship]

	var mutualPoints int
	switch {
	case input.MutualConnections >= 50:
		mutualPoints = 10
	case input.MutualConnections >= 20:
		mutualPoints = 7
	case input.MutualConnections >= 5:
		mutualPoints = 4
	}
	if mutualPoints > 0 {
		total += mutualPoints
		*factors = append(*factors, Factor{
			Category: CategoryRelationship,
			Signal:   fmt.Sprintf("%d mutual connections", input.MutualConnections),
			Points:   mutualPoints,
			Weight:   weight,
		})
	}

	if input.PastInteractions > 0 {
		interactionPoints := input.PastInteractions
		if interactionPoints > 5 {
			interactionPoints = 5
		}
		total += interactionPoints
		*factors = append(*factors, Factor{
			Category: CategoryRelationship,
			Signal:   fmt.Sprintf("%d past interactions", input.PastInteractions),
			Points:   interactionPoints,
			Weight:   weight,
		})
	}

	if total > CapRelationship {
		total = CapRelationship
	}
	return total
}

// scoreCompleteness awards fixed points for filled profile fields.
func (e *Engine) scoreCompleteness(input Input, factors *[]Factor) int {
	total := 0
	weight := categoryWeights[CategoryCompleteness]

	award := func(points int, signal string) {
		total += points
		*factors = append(*factors, Factor{
			Category: CategoryCompleteness,
			Signal:   signal,
			Points:   points,
			Weight:   weight,
		})
	}

	if strings.TrimSpace(input.Occupation) != "" {
		award(3, "occupation present")
	}
	if input.HasLocation {
		award(2, "location present")
	}
	if input.HasSocialLinks {
		award(3, "social links present")
	}
	if input.HasSkills {
		award(2, "skills or interests present")
	}

	if total > CapCompleteness {
		total = CapCompleteness
	}
	return total
}

// confidence starts at 0.5 and grows with the amount and strength of
// evidence, capped at 1.0.
func (e *Engine) confidence(input Input, factors []Factor) float64 {
	confidence := 0.5
	if len(factors) >= 5 {
		confidence += 0.2
	}
	if len(factors) >= 10 {
		confidence += 0.15
	}
	for _, f := range factors {
		if f.Points >= 20 {
			confidence += 0.1
			break
		}
	}
	if strings.TrimSpace(input.Occupation) != "" {
		confidence += 0.05
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

func matches(phrase, text string, tags []string) bool {
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

func appendSorted(lexicon []WeightedPhrase, extras map[string]int) []WeightedPhrase {
	if len(extras) == 0 {
		return lexicon
	}
	phrases := make([]string, 0, len(extras))
	for phrase := range extras {
		phrases = append(phrases, phrase)
	}
	sort.Strings(phrases)
	out := make([]WeightedPhrase, len(lexicon), len(lexicon)+len(phrases))
	copy(out, lexicon)
	for _, phrase := range phrases {
		points := extras[phrase]
		if points <= 0 {
			continue
		}
		out = append(out, WeightedPhrase{Phrase: strings.ToLower(phrase), Points: points})
	}
	return out
}
