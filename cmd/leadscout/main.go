package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kastilyo/leadscout/internal/compute"
	"github.com/kastilyo/leadscout/internal/config"
	"github.com/kastilyo/leadscout/internal/db"
	"github.com/kastilyo/leadscout/internal/fusion"
	"github.com/kastilyo/leadscout/internal/ingest"
	"github.com/kastilyo/leadscout/internal/live"
	"github.com/kastilyo/leadscout/internal/store"
)

var (
	version    = "dev"
	commit     = "none"
	buildDate  = "unknown"
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "leadscout",
		Short: "Lead identity fusion and scoring",
		Long: `LeadScout fuses prospect records captured across channels
(screenshots, scrapes, exports, manual notes) into deduplicated
lead profiles and scores each one for sales-readiness.`,
	}

	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	// version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				printJSON(map[string]string{
					"version": version,
					"commit":  commit,
					"date":    buildDate,
				})
			} else {
				fmt.Printf("leadscout %s (%s, %s)\n", version, commit, buildDate)
			}
		},
	})

	// init command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Initialize leadscout config and database",
		Run: func(cmd *cobra.Command, args []string) {
			type Result struct {
				OK        bool   `json:"ok"`
				Message   string `json:"message,omitempty"`
				ConfigDir string `json:"config_dir,omitempty"`
				DataDir   string `json:"data_dir,omitempty"`
				DBPath    string `json:"db_path,omitempty"`
			}

			result := Result{OK: true}

			configDir, err := config.GetConfigDir()
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to get config directory: %v", err)))
			}
			result.ConfigDir = configDir

			dataDir, err := config.GetDataDir()
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to get data directory: %v", err)))
			}
			result.DataDir = dataDir

			if err := os.MkdirAll(configDir, 0755); err != nil {
				fail(errResult(fmt.Sprintf("Failed to create config directory: %v", err)))
			}
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				fail(errResult(fmt.Sprintf("Failed to create data directory: %v", err)))
			}

			if err := db.Init(); err != nil {
				fail(errResult(fmt.Sprintf("Failed to initialize database: %v", err)))
			}

			dbPath, err := db.GetPath()
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to get database path: %v", err)))
			}
			result.DBPath = dbPath
			result.Message = "LeadScout initialized successfully"

			if jsonOutput {
				printJSON(result)
			} else {
				fmt.Printf("✓ Config directory: %s\n", result.ConfigDir)
				fmt.Printf("✓ Data directory: %s\n", result.DataDir)
				fmt.Printf("✓ Database: %s\n", result.DBPath)
				fmt.Println("\nLeadScout initialized successfully!")
			}
		},
	})

	// import command
	importCmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import channel dumps into a new run",
		Long:  "Import a dump file or a directory of dump files (*.json, *.csv) into a new pending run.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			database, err := db.Open()
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to open database: %v", err)))
			}
			defer database.Close()

			ctx := context.Background()
			st := store.New(database)

			result := ingest.ImportPath(ctx, st, fusion.UUIDGenerator{}, args[0])

			if jsonOutput {
				printJSON(result)
				if !result.OK {
					os.Exit(1)
				}
				return
			}

			if !result.OK && result.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", result.Message)
				os.Exit(1)
			}

			fmt.Printf("Run %s\n", result.RunID)
			for _, file := range result.Files {
				if file.Error != "" {
					fmt.Printf("✗ %s: %s\n", file.File, file.Error)
				} else {
					fmt.Printf("✓ %s: %d records (%s)\n", file.File, file.Records, file.Adapter)
				}
			}
			fmt.Printf("\nImported %d records. Next: leadscout run\n", result.TotalRecords)
			if !result.OK {
				os.Exit(1)
			}
		},
	}
	rootCmd.AddCommand(importCmd)

	// run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run fusion and scoring over pending runs",
		Long:  "Cluster, merge, and score the candidates of every pending run (or one specific run), persisting ranked leads.",
		Run: func(cmd *cobra.Command, args []string) {
			type Result struct {
				OK       bool        `json:"ok"`
				Message  string      `json:"message,omitempty"`
				Enqueued int         `json:"enqueued"`
				Runs     []store.Run `json:"runs,omitempty"`
			}

			runID, _ := cmd.Flags().GetString("run-id")
			workers, _ := cmd.Flags().GetInt("workers")

			cfg, err := config.Load()
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to load config: %v", err)))
			}

			database, err := db.Open()
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to open database: %v", err)))
			}
			defer database.Close()

			ctx := context.Background()
			st := store.New(database)

			eng, err := newComputeEngine(database, cfg, workers)
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to create compute engine: %v", err)))
			}

			result := Result{OK: true}
			if runID != "" {
				if err := eng.EnqueueRun(runID); err != nil {
					fail(errResult(fmt.Sprintf("Failed to enqueue run: %v", err)))
				}
				result.Enqueued = 1
			} else {
				count, err := eng.EnqueuePending(ctx)
				if err != nil {
					fail(errResult(fmt.Sprintf("Failed to enqueue pending runs: %v", err)))
				}
				result.Enqueued = count
			}

			if result.Enqueued == 0 {
				result.Message = "No pending runs"
				if jsonOutput {
					printJSON(result)
				} else {
					fmt.Println(result.Message)
				}
				return
			}

			if _, err := eng.Run(ctx); err != nil {
				fail(errResult(fmt.Sprintf("Fusion failed: %v", err)))
			}

			runs, err := st.ListRuns(ctx)
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to list runs: %v", err)))
			}
			result.Runs = runs
			result.Message = fmt.Sprintf("Processed %d run(s)", result.Enqueued)

			if jsonOutput {
				printJSON(result)
				return
			}

			fmt.Printf("%s\n\n", result.Message)
			for _, run := range runs {
				printRunLine(run)
			}
		},
	}
	runCmd.Flags().String("run-id", "", "Process one specific run")
	runCmd.Flags().Int("workers", 0, "Worker count override (default from engine config)")
	rootCmd.AddCommand(runCmd)

	// watch command
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a drop directory for new dumps",
		Long:  "Watch the configured drop directory; each new dump file is imported, fused, and scored automatically.",
		Run: func(cmd *cobra.Command, args []string) {
			dropDir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to load config: %v", err)))
			}
			if dropDir == "" {
				dropDir = cfg.Watch.DropDir
			}
			if dropDir == "" {
				fail(errResult("No drop directory configured (set watch.drop_dir or pass --dir)"))
			}

			database, err := db.Open()
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to open database: %v", err)))
			}
			defer database.Close()

			st := store.New(database)
			eng, err := newComputeEngine(database, cfg, 0)
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to create compute engine: %v", err)))
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := live.Options{
				DropDir:         dropDir,
				DebounceSeconds: cfg.Watch.DebounceSeconds,
				Logf: func(format string, args ...any) {
					fmt.Printf(format+"\n", args...)
				},
			}
			if err := live.Watch(ctx, st, eng, fusion.UUIDGenerator{}, opts); err != nil {
				fail(errResult(fmt.Sprintf("Watch failed: %v", err)))
			}
		},
	}
	watchCmd.Flags().String("dir", "", "Drop directory (overrides config)")
	rootCmd.AddCommand(watchCmd)

	// runs command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "runs",
		Short: "List ingestion runs",
		Run: func(cmd *cobra.Command, args []string) {
			database, err := db.Open()
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to open database: %v", err)))
			}
			defer database.Close()

			runs, err := store.New(database).ListRuns(context.Background())
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to list runs: %v", err)))
			}

			if jsonOutput {
				printJSON(runs)
				return
			}
			if len(runs) == 0 {
				fmt.Println("No runs yet. Start with: leadscout import <path>")
				return
			}
			for _, run := range runs {
				printRunLine(run)
			}
		},
	})

	// show command
	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a run's ranked leads",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			type Result struct {
				OK      bool         `json:"ok"`
				Message string       `json:"message,omitempty"`
				Run     *store.Run   `json:"run,omitempty"`
				Leads   []store.Lead `json:"leads,omitempty"`
			}

			limit, _ := cmd.Flags().GetInt("limit")

			database, err := db.Open()
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to open database: %v", err)))
			}
			defer database.Close()

			ctx := context.Background()
			st := store.New(database)

			run, err := st.GetRun(ctx, args[0])
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to load run: %v", err)))
			}
			if run == nil {
				fail(errResult(fmt.Sprintf("Run %s not found", args[0])))
			}

			leads, err := st.RankedLeads(ctx, run.ID)
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to load leads: %v", err)))
			}
			if limit > 0 && len(leads) > limit {
				leads = leads[:limit]
			}

			if jsonOutput {
				printJSON(Result{OK: true, Run: run, Leads: leads})
				return
			}

			printRunLine(*run)
			if run.Status != store.StatusCompleted {
				if run.ProgressStep != "" {
					fmt.Printf("  progress: %s (%d%%) %s\n", run.ProgressStep, run.ProgressPercent, run.ProgressMessage)
				}
				if run.ErrorMessage != "" {
					fmt.Printf("  error: %s\n", run.ErrorMessage)
				}
				return
			}

			fmt.Println()
			for i, lead := range leads {
				fmt.Printf("%3d. [%-4s] %-30s score %3d  conf %.2f  merged %d\n",
					i+1, lead.Rank, lead.Name, lead.Score, lead.Confidence, lead.MergedCount)
			}
		},
	}
	showCmd.Flags().Int("limit", 0, "Show at most N leads")
	rootCmd.AddCommand(showCmd)

	// stats command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show aggregate lead statistics",
		Run: func(cmd *cobra.Command, args []string) {
			database, err := db.Open()
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to open database: %v", err)))
			}
			defer database.Close()

			stats, err := store.New(database).GetStats(context.Background())
			if err != nil {
				fail(errResult(fmt.Sprintf("Failed to load stats: %v", err)))
			}

			if jsonOutput {
				printJSON(stats)
				return
			}
			fmt.Printf("Runs:  %d\n", stats.TotalRuns)
			fmt.Printf("Leads: %d\n", stats.TotalLeads)
			fmt.Printf("  hot:  %d\n", stats.Hot)
			fmt.Printf("  warm: %d\n", stats.Warm)
			fmt.Printf("  cold: %d\n", stats.Cold)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newComputeEngine wires the compute engine from loaded config.
func newComputeEngine(database *sql.DB, cfg *config.Config, workers int) (*compute.Engine, error) {
	engCfg := compute.DefaultConfig()
	if workers > 0 {
		engCfg.WorkerCount = workers
	}
	engCfg.Pipeline = fusion.PipelineConfig{
		GroupThreshold:  cfg.Matching.GroupThreshold,
		ExtraSuffixes:   cfg.Matching.ExtraSuffixes,
		ExtraIntent:     cfg.Scoring.ExtraIntent,
		ExtraPain:       cfg.Scoring.ExtraPain,
		ExtraLifeEvents: cfg.Scoring.ExtraLifeEvents,
	}
	return compute.NewEngine(database, fusion.UUIDGenerator{}, engCfg)
}

func printRunLine(run store.Run) {
	switch run.Status {
	case store.StatusCompleted:
		fmt.Printf("✓ %s  %s  %d records -> %d leads (%d hot, %d warm, %d cold)\n",
			run.ID, run.Status, run.TotalRecords, run.TotalLeads, run.Hot, run.Warm, run.Cold)
	case store.StatusFailed:
		fmt.Printf("✗ %s  %s  %s\n", run.ID, run.Status, run.ErrorMessage)
	default:
		fmt.Printf("· %s  %s  %d records\n", run.ID, run.Status, run.TotalRecords)
	}
}

type errorResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func errResult(message string) errorResult {
	return errorResult{Message: message}
}

// fail prints an error result (respecting --json) and exits non-zero.
func fail(result any) {
	if jsonOutput {
		printJSON(result)
	} else {
		if r, ok := result.(errorResult); ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", r.Message)
		} else {
			printJSON(result)
		}
	}
	os.Exit(1)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
