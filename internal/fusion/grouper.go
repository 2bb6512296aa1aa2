package fusion

import "github.com/kastilyo/leadscout/internal/record"

// Cluster is a group of candidate records believed to denote the same person.
// A singleton cluster is an unmatched record.
type Cluster struct {
	// Seed is the index of the record that started the cluster; every other
	// member matched the seed, not necessarily each other.
	Seed    int
	Records []record.CandidateRecord
}

// Grouper partitions candidate records into clusters using pairwise matching.
type Grouper struct {
	matcher   *Matcher
	threshold float64
}

// NewGrouper creates a Grouper. threshold is the minimum pairwise score for
// two records to land in the same cluster; values <= 0 fall back to 0.75.
func NewGrouper(matcher *Matcher, threshold float64) *Grouper {
	if threshold <= 0 {
		threshold = 0.75
	}
	return &Grouper{matcher: matcher, threshold: threshold}
}

// Group partitions records into clusters in a single pass: each unprocessed
// record seeds a cluster and absorbs all later unprocessed records that match
// the seed at or above the threshold.
//
// This is deliberately not a transitive closure. Members are compared against
// the seed only, so two records that each match a third but not each other can
// share a cluster, and iteration order affects the final grouping. Every input
// record appears in exactly one output cluster. O(n^2) pairwise comparisons;
// fine for batches in the tens to low hundreds, a scaling bound beyond that.
func (g *Grouper) Group(records []record.CandidateRecord) []Cluster {
	processed := make([]bool, len(records))
	var clusters []Cluster

	for i := range records {
		if processed[i] {
			continue
		}
		processed[i] = true
		cluster := Cluster{
			Seed:    i,
			Records: []record.CandidateRecord{records[i]},
		}

		for j := i + 1; j < len(records); j++ {
			if processed[j] {
				continue
			}
			if g.matcher.Match(records[i], records[j]) >= g.threshold {
				cluster.Records = append(cluster.Records, records[j])
				processed[j] = true
			}
		}

		clusters = append(clusters, cluster)
	}

	return clusters
}
