package fusion

import (
	"strings"

	"github.com/kastilyo/leadscout/internal/record"
	"github.com/kastilyo/leadscout/internal/scoring"
)

// Merge confidence by number of fused source records.
const (
	ConfidenceManySources = 0.95 // merged_count >= 3
	ConfidenceTwoSources  = 0.85 // merged_count == 2
	ConfidenceSingle      = 0.70 // merged_count == 1
)

// MergedEntity is the fused, deduplicated representation of one resolved
// identity. Attribute sets are unions across every contributing record.
type MergedEntity struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Channels []string `json:"channels"`
	// Sources maps each contributing channel to the record it supplied,
	// retaining full provenance through the merge.
	Sources map[string]record.CandidateRecord `json:"sources"`

	Occupations []string `json:"occupations,omitempty"`
	Interests   []string `json:"interests,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Signals     []string `json:"signals,omitempty"`    // intent keyword matches
	Sentiments  []string `json:"sentiments,omitempty"` // pain keyword matches
	Topics      []string `json:"topics,omitempty"`
	Activities  []string `json:"activities,omitempty"`

	Location    string               `json:"location,omitempty"`
	ContactInfo []record.ContactInfo `json:"contact_info,omitempty"`
	SocialLinks []record.SocialLink  `json:"social_links,omitempty"`

	Followers         int `json:"followers,omitempty"`
	Engagement        int `json:"engagement,omitempty"`
	MutualConnections int `json:"mutual_connections,omitempty"`
	PastInteractions  int `json:"past_interactions,omitempty"`

	// RelationshipStrength is populated by a later enrichment stage; the
	// fusion pass always leaves it at zero.
	RelationshipStrength int `json:"relationship_strength"`

	MergedCount int     `json:"merged_count"`
	Confidence  float64 `json:"confidence"`

	Score *scoring.ScoreResult `json:"score,omitempty"`
}

// Merger fuses clusters of candidate records into merged entities.
type Merger struct {
	extractor *SignalExtractor
	ids       IDGenerator
}

// NewMerger creates a Merger using the given signal extractor and ID source.
func NewMerger(extractor *SignalExtractor, ids IDGenerator) *Merger {
	return &Merger{extractor: extractor, ids: ids}
}

// Merge fuses a cluster into one MergedEntity. The canonical name comes from
// the first member encountered during clustering; attributes are unioned
// across all members and every member's free text runs through the signal
// extractor.
func (m *Merger) Merge(cluster Cluster) MergedEntity {
	entity := MergedEntity{
		ID:      m.ids.NewID(),
		Sources: make(map[string]record.CandidateRecord, len(cluster.Records)),
	}

	occupations := newStringSet()
	interests := newStringSet()
	skills := newStringSet()
	signals := newStringSet()
	sentiments := newStringSet()
	topics := newStringSet()
	activities := newStringSet()
	contactSeen := make(map[string]bool)
	linkSeen := make(map[string]bool)

	for _, rec := range cluster.Records {
		if entity.Name == "" && rec.Name != "" {
			entity.Name = rec.Name
		}
		if _, ok := entity.Sources[rec.Channel]; !ok {
			entity.Sources[rec.Channel] = rec
			entity.Channels = append(entity.Channels, rec.Channel)
		}

		occupations.add(rec.Occupation)
		for _, interest := range rec.Interests {
			interests.add(interest)
		}
		for _, skill := range rec.Skills {
			skills.add(skill)
		}

		sig := m.extractor.Extract(rec.Text, rec.Interests)
		for _, s := range sig.Intent {
			signals.add(s)
		}
		for _, s := range sig.Pain {
			sentiments.add(s)
		}
		for _, s := range sig.Topics {
			topics.add(s)
		}
		for _, s := range sig.Activities {
			activities.add(s)
		}

		if entity.Location == "" && rec.Location != "" {
			entity.Location = rec.Location
		}

		if rec.Email != "" {
			addContact(&entity, contactSeen, "email", rec.Email)
		}
		if rec.Phone != "" {
			addContact(&entity, contactSeen, "phone", rec.Phone)
		}
		if rec.ProfileURL != "" && !linkSeen[rec.ProfileURL] {
			linkSeen[rec.ProfileURL] = true
			entity.SocialLinks = append(entity.SocialLinks, record.SocialLink{
				URL:      rec.ProfileURL,
				Platform: InferPlatform(rec.ProfileURL),
			})
		}

		entity.Followers = maxInt(entity.Followers, rec.Followers)
		entity.Engagement = maxInt(entity.Engagement, rec.Engagement)
		entity.MutualConnections = maxInt(entity.MutualConnections, rec.MutualConnections)
		entity.PastInteractions = maxInt(entity.PastInteractions, rec.PastInteractions)
	}

	entity.Occupations = occupations.values()
	entity.Interests = interests.values()
	entity.Skills = skills.values()
	entity.Signals = signals.values()
	entity.Sentiments = sentiments.values()
	entity.Topics = topics.values()
	entity.Activities = activities.values()

	entity.MergedCount = len(cluster.Records)
	switch {
	case entity.MergedCount >= 3:
		entity.Confidence = ConfidenceManySources
	case entity.MergedCount == 2:
		entity.Confidence = ConfidenceTwoSources
	default:
		entity.Confidence = ConfidenceSingle
	}

	return entity
}

// Convert wraps a lone record into a MergedEntity with merged_count 1.
func (m *Merger) Convert(rec record.CandidateRecord) MergedEntity {
	return m.Merge(Cluster{Records: []record.CandidateRecord{rec}})
}

// InferPlatform guesses the social platform from a profile URL.
func InferPlatform(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "facebook"):
		return "facebook"
	case strings.Contains(lower, "instagram"):
		return "instagram"
	case strings.Contains(lower, "twitter"), strings.Contains(lower, "x.com"):
		return "twitter-x"
	case strings.Contains(lower, "linkedin"):
		return "linkedin"
	case strings.Contains(lower, "tiktok"):
		return "tiktok"
	default:
		return "unknown"
	}
}

func addContact(entity *MergedEntity, seen map[string]bool, typ, value string) {
	key := typ + ":" + strings.ToLower(strings.TrimSpace(value))
	if seen[key] {
		return
	}
	seen[key] = true
	entity.ContactInfo = append(entity.ContactInfo, record.ContactInfo{Type: typ, Value: value})
}

// stringSet is an insertion-ordered set so merge output is stable for a
// stable input order.
type stringSet struct {
	seen  map[string]bool
	items []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]bool)}
}

func (s *stringSet) add(value string) {
	value = strings.TrimSpace(value)
	if value == "" || s.seen[value] {
		return
	}
	s.seen[value] = true
	s.items = append(s.items, value)
}

func (s *stringSet) values() []string {
	return s.items
}
