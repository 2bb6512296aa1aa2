package fusion

import (
	"sort"
	"strings"
	"time"

	"github.com/kastilyo/leadscout/internal/record"
	"github.com/kastilyo/leadscout/internal/scoring"
)

// ProgressReporter receives stage-progress callbacks at pipeline boundaries.
// The pipeline has no opinion on how progress is displayed or stored.
type ProgressReporter interface {
	Progress(step string, percent int, message string)
}

// NopReporter discards progress callbacks.
type NopReporter struct{}

// Progress implements ProgressReporter.
func (NopReporter) Progress(string, int, string) {}

// PipelineConfig holds tuning for one fusion pass.
type PipelineConfig struct {
	// Minimum pairwise match score for clustering (default 0.75).
	GroupThreshold float64
	// Extra name suffixes stripped during matching.
	ExtraSuffixes []string
	// Lexicon extensions merged into the scoring tables.
	ExtraIntent     map[string]int
	ExtraPain       map[string]int
	ExtraLifeEvents map[string]int
}

// PipelineResult is the output of one fusion pass.
type PipelineResult struct {
	Entities []MergedEntity
	// Counts for the run summary.
	TotalRecords int
	TotalMerged  int
	Hot          int
	Warm         int
	Cold         int
	Duration     time.Duration
}

// Pipeline runs the full fusion pass: group duplicates, merge each cluster,
// score each merged entity, and sort descending by score. It is synchronous,
// single-threaded, pure computation; each invocation owns its working set.
type Pipeline struct {
	grouper  *Grouper
	merger   *Merger
	scorer   *scoring.Engine
	reporter ProgressReporter
}

// NewPipeline wires a Pipeline from config. reporter may be nil.
func NewPipeline(cfg PipelineConfig, ids IDGenerator, reporter ProgressReporter) *Pipeline {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}

	matcher := NewMatcher(cfg.ExtraSuffixes...)
	extractor := NewSignalExtractor(DefaultSignalLexicon)
	scorer := scoring.NewEngine().WithExtras(cfg.ExtraIntent, cfg.ExtraPain, cfg.ExtraLifeEvents)

	return &Pipeline{
		grouper:  NewGrouper(matcher, cfg.GroupThreshold),
		merger:   NewMerger(extractor, ids),
		scorer:   scorer,
		reporter: reporter,
	}
}

// Run executes the fusion pass over one ingestion run's candidate set.
// Re-running on the same candidate set with a stable iteration order yields
// identical clusters, entities, and scores (modulo generated IDs).
func (p *Pipeline) Run(records []record.CandidateRecord) PipelineResult {
	start := time.Now()
	result := PipelineResult{TotalRecords: len(records)}

	p.reporter.Progress("clustering", 10, "matching duplicate records")
	clusters := p.grouper.Group(records)

	p.reporter.Progress("merging", 45, "merging matched profiles")
	entities := make([]MergedEntity, 0, len(clusters))
	for _, cluster := range clusters {
		entities = append(entities, p.merger.Merge(cluster))
	}

	p.reporter.Progress("scoring", 80, "scoring merged leads")
	for i := range entities {
		score := p.scorer.Score(scoringInput(&entities[i]))
		entities[i].Score = &score
		switch score.Rank {
		case scoring.RankHot:
			result.Hot++
		case scoring.RankWarm:
			result.Warm++
		default:
			result.Cold++
		}
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Score.Score > entities[j].Score.Score
	})

	result.Entities = entities
	result.TotalMerged = len(entities)
	result.Duration = time.Since(start)
	return result
}

// scoringInput builds the scorable view of a merged entity. Source texts are
// walked in channel order so the output is deterministic.
func scoringInput(entity *MergedEntity) scoring.Input {
	var texts []string
	for _, channel := range entity.Channels {
		if text := entity.Sources[channel].Text; text != "" {
			texts = append(texts, text)
		}
	}

	var tags []string
	tags = append(tags, entity.Interests...)
	tags = append(tags, entity.Signals...)
	tags = append(tags, entity.Sentiments...)
	tags = append(tags, entity.Topics...)
	tags = append(tags, entity.Activities...)

	occupation := ""
	if len(entity.Occupations) > 0 {
		occupation = entity.Occupations[0]
	}

	return scoring.Input{
		Text:              strings.Join(texts, "\n"),
		Tags:              tags,
		Occupation:        occupation,
		HasLocation:       entity.Location != "",
		HasSocialLinks:    len(entity.SocialLinks) > 0,
		HasSkills:         len(entity.Skills) > 0 || len(entity.Interests) > 0,
		Followers:         entity.Followers,
		Engagement:        entity.Engagement,
		MutualConnections: entity.MutualConnections,
		PastInteractions:  entity.PastInteractions,
	}
}
