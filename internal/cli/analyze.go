package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"codescope/internal/analyzer"
	"codescope/internal/callgraph"
	"codescope/internal/config"
	"codescope/internal/library"
	"codescope/internal/model"
)

var (
	depthFlag     string
	thresholdFlag float64
	libraryFlag   string
	quietFlag     bool
	jsonFlag      bool
	callTreeFlag  string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a project tree and report its structural model",
	Long: `Analyze walks a project tree, extracts a structural model from every
supported source file, builds the cross-module call graph and reports
detected issues.

Examples:
  # Analyze the current directory
  codescope analyze

  # Shallow structural pass only, no detectors
  codescope analyze --depth shallow ./src

  # Match against a custom example library
  codescope analyze --library examples.yaml --threshold 0.8

  # Render a call tree from an entry point
  codescope analyze --call-tree mypkg.main
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&depthFlag, "depth", "", "analysis depth: shallow, medium or deep")
	analyzeCmd.Flags().Float64Var(&thresholdFlag, "threshold", 0, "similarity threshold for pattern matching")
	analyzeCmd.Flags().StringVar(&libraryFlag, "library", "", "path to a YAML code example library")
	analyzeCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress bars and non-error output")
	analyzeCmd.Flags().BoolVar(&jsonFlag, "json", false, "emit the full result as JSON")
	analyzeCmd.Flags().StringVar(&callTreeFlag, "call-tree", "", "render a call tree from a qualified entry point")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, stopping analysis...")
		cancel()
	}()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	projectPath := "."
	if len(args) > 0 {
		projectPath = args[0]
	}

	lib, err := loadLibrary(cfg.LibraryPath)
	if err != nil {
		return err
	}

	a, err := analyzer.New(projectPath, cfg.Languages, analyzer.Options{
		IgnorePatterns: cfg.IgnorePatterns,
		Depth:          cfg.Depth,
		Matcher:        library.NewMatcher(lib, cfg.SimilarityThreshold),
		Progress:       NewCLIProgressReporter(quietFlag || jsonFlag),
	})
	if err != nil {
		return err
	}

	result, matches, err := a.Run(ctx)
	if err != nil {
		return err
	}

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printSummary(result, matches)

	if callTreeFlag != "" {
		builder := callgraph.NewBuilder(result.Modules)
		builder.Build()
		fmt.Println()
		for _, line := range builder.CallTree(callTreeFlag, 4) {
			fmt.Println(line)
		}
	}

	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if depthFlag != "" {
		cfg.Depth = depthFlag
	}
	if thresholdFlag > 0 {
		cfg.SimilarityThreshold = thresholdFlag
	}
	if libraryFlag != "" {
		cfg.LibraryPath = libraryFlag
	}
}

func loadLibrary(path string) (*library.Library, error) {
	if path == "" {
		return library.DefaultLibrary(), nil
	}
	return library.Load(path)
}

func printSummary(result *model.Result, matches []library.PatternMatch) {
	fmt.Printf("\nAnalyzed %s\n", result.ProjectPath)
	fmt.Printf("  Modules:           %d\n", len(result.Modules))
	fmt.Printf("  Lines of code:     %d\n", result.Metrics.TotalLines)
	fmt.Printf("  Classes:           %d\n", result.Metrics.TotalClasses)
	fmt.Printf("  Functions:         %d\n", result.Metrics.TotalFunctions)
	fmt.Printf("  Avg complexity:    %.1f (max %d)\n", result.Metrics.AverageComplexity, result.Metrics.MaxComplexity)
	fmt.Printf("  Issues:            %d\n", result.Metrics.TotalIssues)
	fmt.Printf("  Critical sections: %d\n", len(result.CriticalSections))

	if len(result.Metrics.IssuesBySeverity) > 0 {
		var severities []string
		for sev := range result.Metrics.IssuesBySeverity {
			severities = append(severities, sev)
		}
		sort.Strings(severities)
		fmt.Println("\nIssues by severity:")
		for _, sev := range severities {
			fmt.Printf("  %-8s %d\n", sev, result.Metrics.IssuesBySeverity[sev])
		}
	}

	if len(matches) > 0 {
		report := library.BuildQualityReport(matches)
		fmt.Printf("\nPattern matches: %d (quality score %.1f/100)\n", report.TotalMatches, report.QualityScore)
		for _, pc := range report.TopPatterns {
			fmt.Printf("  %-16s %d\n", pc.Pattern, pc.Count)
		}
	}
}
