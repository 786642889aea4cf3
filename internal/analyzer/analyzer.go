// Package analyzer orchestrates a whole-project analysis run: file
// discovery, per-file extraction, call-graph construction, issue
// detection and pattern matching.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"codescope/internal/callgraph"
	"codescope/internal/extract"
	"codescope/internal/library"
	"codescope/internal/model"
)

// Depth controls how many detector passes run. Each level includes the
// detectors of the previous one.
const (
	DepthShallow = "shallow"
	DepthMedium  = "medium"
	DepthDeep    = "deep"
)

// ProgressReporter receives progress callbacks during a run. All methods
// may be called from the run goroutine only.
type ProgressReporter interface {
	OnDiscoveryComplete(totalFiles int)
	OnFileAnalyzed(processed, total int, path string)
	OnMatchingStart(totalModules int)
	OnModuleMatched(processed, total int)
}

// Options configures an Analyzer.
type Options struct {
	// IgnorePatterns are glob patterns excluded from discovery; nil
	// means DefaultIgnorePatterns.
	IgnorePatterns []string

	// Depth is one of DepthShallow, DepthMedium, DepthDeep. Empty means
	// deep.
	Depth string

	// Matcher, when non-nil, runs the pattern-matching pass against the
	// example library.
	Matcher *library.Matcher

	// Progress, when non-nil, receives progress callbacks.
	Progress ProgressReporter
}

// Analyzer analyzes one project tree. Extraction is strictly sequential
// over the discovered files; a failure in any single file is logged and
// skipped, never fatal to the run.
type Analyzer struct {
	projectPath string
	opts        Options
	registry    *extract.Registry
}

// New creates an Analyzer for projectPath with extractors registered for
// the named languages ("python", "javascript", "typescript").
func New(projectPath string, languages []string, opts Options) (*Analyzer, error) {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("resolve project path: %w", err)
	}

	var extractors []extract.Extractor
	for _, lang := range languages {
		switch lang {
		case "python":
			extractors = append(extractors, extract.NewPythonExtractor(abs))
		case "javascript", "typescript":
			// Both names map onto the one JS/TS extractor.
			extractors = append(extractors, extract.NewJavaScriptExtractor(abs))
		default:
			return nil, fmt.Errorf("no extractor for language %q", lang)
		}
	}
	// Drop a duplicate JS/TS registration when both names were enabled.
	extractors = dedupeExtractors(extractors)

	registry, err := extract.NewRegistry(extractors...)
	if err != nil {
		return nil, err
	}

	if opts.Depth == "" {
		opts.Depth = DepthDeep
	}
	if opts.IgnorePatterns == nil {
		opts.IgnorePatterns = DefaultIgnorePatterns
	}

	return &Analyzer{
		projectPath: abs,
		opts:        opts,
		registry:    registry,
	}, nil
}

// Run analyzes the project and returns the structural model plus any
// pattern matches. The returned module list is ordered by discovery
// order, so repeated runs on identical input produce identical output.
func (a *Analyzer) Run(ctx context.Context) (*model.Result, []library.PatternMatch, error) {
	discovery, err := NewFileDiscovery(a.projectPath, a.registry.Extensions(), a.opts.IgnorePatterns)
	if err != nil {
		return nil, nil, fmt.Errorf("compile ignore patterns: %w", err)
	}

	files, err := discovery.DiscoverFiles()
	if err != nil {
		return nil, nil, fmt.Errorf("discover files: %w", err)
	}
	if a.opts.Progress != nil {
		a.opts.Progress.OnDiscoveryComplete(len(files))
	}

	modules := a.extractModules(ctx, files)

	// The builder needs the fully-materialized list: pass 1 must see
	// every function before pass 2 resolves edges.
	builder := callgraph.NewBuilder(modules)
	builder.Build()

	result := &model.Result{
		ProjectPath:  a.projectPath,
		AnalysisDate: time.Now(),
		Modules:      modules,
	}

	result.CriticalSections = identifyCriticalSections(modules)

	if a.opts.Depth == DepthMedium || a.opts.Depth == DepthDeep {
		result.Issues = append(result.Issues, detectComplexityIssues(modules)...)
		result.Issues = append(result.Issues, detectUnusedCode(modules)...)
		result.Issues = append(result.Issues, detectCodeSmells(modules)...)
	}
	if a.opts.Depth == DepthDeep {
		result.Issues = append(result.Issues, detectDangerousImports(modules)...)
		result.Issues = append(result.Issues, detectGodClasses(modules)...)
	}

	var matches []library.PatternMatch
	if a.opts.Matcher != nil {
		matches = a.matchPatterns(ctx, modules)
		result.Issues = append(result.Issues, a.opts.Matcher.GenerateIssues(matches)...)
	}

	result.Metrics = calculateMetrics(modules, result.Issues)
	result.EntryPoints = identifyEntryPoints(modules)
	result.DependencyGraph = buildDependencyGraph(modules)

	return result, matches, nil
}

// extractModules dispatches each file to the extractor claiming its
// extension. Per-file errors are recovered here; the rest of the
// project must still be analyzed.
func (a *Analyzer) extractModules(ctx context.Context, files []string) []*model.Module {
	var modules []*model.Module
	for i, file := range files {
		if ctx.Err() != nil {
			break
		}

		extractor := a.registry.ForExtension(filepath.Ext(file))
		if extractor == nil {
			continue
		}

		mod, err := a.analyzeOne(extractor, file)
		if err != nil {
			log.Printf("skipping %s: %v", file, err)
		} else if mod != nil {
			modules = append(modules, mod)
		}

		if a.opts.Progress != nil {
			a.opts.Progress.OnFileAnalyzed(i+1, len(files), file)
		}
	}
	return modules
}

// analyzeOne wraps a single extractor call with panic recovery so a
// crash on one file cannot abort the run.
func (a *Analyzer) analyzeOne(extractor extract.Extractor, file string) (mod *model.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			mod = nil
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()
	return extractor.Analyze(file)
}

func (a *Analyzer) matchPatterns(ctx context.Context, modules []*model.Module) []library.PatternMatch {
	if a.opts.Progress != nil {
		a.opts.Progress.OnMatchingStart(len(modules))
	}

	var matches []library.PatternMatch
	for i, mod := range modules {
		if ctx.Err() != nil {
			break
		}
		matches = append(matches, a.opts.Matcher.FindMatches(mod)...)
		if a.opts.Progress != nil {
			a.opts.Progress.OnModuleMatched(i+1, len(modules))
		}
	}
	return matches
}

func dedupeExtractors(extractors []extract.Extractor) []extract.Extractor {
	seen := map[string]bool{}
	var out []extract.Extractor
	for _, e := range extractors {
		if !seen[e.Language()] {
			seen[e.Language()] = true
			out = append(out, e)
		}
	}
	return out
}
