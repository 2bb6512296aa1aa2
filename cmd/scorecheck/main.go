// Command scorecheck runs the lead scoring verification harness.
//
// Each fixture file holds one scenario: a set of raw channel records plus the
// leads a full fusion pass over them must produce. The harness imports the
// records into an isolated in-memory database, runs cluster/merge/score, and
// compares the persisted leads against the expectations.
//
// Usage:
//
//	scorecheck [flags]
//
// Flags:
//
//	-fixtures string
//	      Path to fixtures directory (default "testdata/scorecheck")
//	-fixture string
//	      Run only this specific fixture (e.g., "expo-booth")
//	-verbose
//	      Show every produced lead, not just mismatches
//
// Exit codes:
//
//	0 - All fixtures passed
//	1 - One or more fixtures failed
//	2 - Error loading fixtures or configuration
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kastilyo/leadscout/internal/db"
	"github.com/kastilyo/leadscout/internal/fusion"
	"github.com/kastilyo/leadscout/internal/record"
	"github.com/kastilyo/leadscout/internal/store"
)

type fixture struct {
	Name    string           `json:"name"`
	Channel string           `json:"channel"`
	Records []record.RawRecord `json:"records"`
	Expect  []expectation    `json:"expect"`
}

type expectation struct {
	Name        string `json:"name"`
	Rank        string `json:"rank"`
	MinScore    int    `json:"min_score"`
	MaxScore    int    `json:"max_score"`
	MergedCount int    `json:"merged_count"`
}

func main() {
	fixturesPath := flag.String("fixtures", "testdata/scorecheck", "Path to fixtures directory")
	singleFixture := flag.String("fixture", "", "Run only this specific fixture (e.g., 'expo-booth')")
	verbose := flag.Bool("verbose", false, "Show every produced lead, not just mismatches")
	flag.Parse()

	fixtures, err := loadFixtures(*fixturesPath, *singleFixture)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
		os.Exit(2)
	}
	if len(fixtures) == 0 {
		fmt.Fprintf(os.Stderr, "No fixtures found in %s\n", *fixturesPath)
		os.Exit(2)
	}

	ctx := context.Background()
	passed, failed := 0, 0

	for _, fix := range fixtures {
		problems, leads, err := runFixture(ctx, fix)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running fixture %s: %v\n", fix.Name, err)
			os.Exit(2)
		}

		if len(problems) == 0 {
			passed++
			fmt.Printf("✓ %s (%d leads)\n", fix.Name, len(leads))
		} else {
			failed++
			fmt.Printf("✗ %s\n", fix.Name)
			for _, problem := range problems {
				fmt.Printf("    %s\n", problem)
			}
		}

		if *verbose {
			for _, lead := range leads {
				fmt.Printf("    [%-4s] %-30s score %3d  merged %d\n",
					lead.Rank, lead.Name, lead.Score, lead.MergedCount)
			}
		}
	}

	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func loadFixtures(dir, only string) ([]fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var fixtures []fixture
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")
		if only != "" && stem != only {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		var fix fixture
		if err := json.Unmarshal(data, &fix); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		if fix.Name == "" {
			fix.Name = stem
		}
		fixtures = append(fixtures, fix)
	}

	sort.Slice(fixtures, func(i, j int) bool { return fixtures[i].Name < fixtures[j].Name })
	return fixtures, nil
}

// runFixture executes one scenario end to end against an isolated in-memory
// database and returns the list of expectation mismatches.
func runFixture(ctx context.Context, fix fixture) ([]string, []store.Lead, error) {
	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if _, err := database.Exec(db.Schema()); err != nil {
		return nil, nil, fmt.Errorf("init schema: %w", err)
	}

	st := store.New(database)
	ids := fusion.UUIDGenerator{}

	defaultChannel := fix.Channel
	if defaultChannel == "" {
		defaultChannel = record.ChannelFileImport
	}
	// A per-record "channel" key overrides the fixture default so one
	// scenario can span several capture channels.
	var records []record.CandidateRecord
	for _, raw := range fix.Records {
		channel := defaultChannel
		if c, ok := raw["channel"].(string); ok && c != "" {
			channel = c
		}
		rec := record.Normalize(raw, channel)
		if rec.Name == "" && rec.Email == "" && rec.Phone == "" && rec.Text == "" {
			continue
		}
		records = append(records, rec)
	}

	runID := ids.NewID()
	if err := st.CreateRun(ctx, runID, "scorecheck:"+fix.Name); err != nil {
		return nil, nil, err
	}
	if err := st.AddCandidates(ctx, runID, records); err != nil {
		return nil, nil, err
	}

	loaded, err := st.LoadCandidates(ctx, runID)
	if err != nil {
		return nil, nil, err
	}

	pipeline := fusion.NewPipeline(fusion.PipelineConfig{}, ids, nil)
	result := pipeline.Run(loaded)

	if err := st.FinalizeRun(ctx, runID, result); err != nil {
		return nil, nil, err
	}

	leads, err := st.RankedLeads(ctx, runID)
	if err != nil {
		return nil, nil, err
	}

	return checkExpectations(fix.Expect, leads), leads, nil
}

func checkExpectations(expects []expectation, leads []store.Lead) []string {
	byName := make(map[string]store.Lead, len(leads))
	for _, lead := range leads {
		byName[strings.ToLower(lead.Name)] = lead
	}

	var problems []string
	for _, want := range expects {
		lead, ok := byName[strings.ToLower(want.Name)]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing lead %q", want.Name))
			continue
		}
		if want.Rank != "" && lead.Rank != want.Rank {
			problems = append(problems, fmt.Sprintf("%s: rank %s, want %s (score %d)",
				want.Name, lead.Rank, want.Rank, lead.Score))
		}
		if want.MinScore > 0 && lead.Score < want.MinScore {
			problems = append(problems, fmt.Sprintf("%s: score %d below %d", want.Name, lead.Score, want.MinScore))
		}
		if want.MaxScore > 0 && lead.Score > want.MaxScore {
			problems = append(problems, fmt.Sprintf("%s: score %d above %d", want.Name, lead.Score, want.MaxScore))
		}
		if want.MergedCount > 0 && lead.MergedCount != want.MergedCount {
			problems = append(problems, fmt.Sprintf("%s: merged %d, want %d", want.Name, lead.MergedCount, want.MergedCount))
		}
	}
	return problems
}
