package library

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"codescope/internal/model"
)

// DefaultSimilarityThreshold is the minimum score for a fragment to
// count as a match.
const DefaultSimilarityThreshold = 0.7

// PatternMatch records a fragment scoring at or above the threshold
// against a library example.
type PatternMatch struct {
	Example     CodeExample
	Location    model.Location
	Similarity  float64 // in [0, 1]
	MatchedCode string
	Context     string
}

// Matcher compares extracted code fragments against the example library.
//
// A comparison blends three views of the two fragments:
//
//	score = 0.3*textSim + 0.4*astSim + 0.3*tokenSim
//
// where textSim is the sequence ratio over raw characters, astSim the
// sequence ratio over syntax-node kind sequences, and tokenSim a
// normalized node-kind histogram overlap. When either fragment fails to
// parse (cross-language comparisons, loose method bodies) the score
// degrades to textSim alone rather than failing the match.
type Matcher struct {
	library   *Library
	threshold float64
	languages map[string]*sitter.Language
}

// NewMatcher creates a matcher over lib with the given similarity
// threshold; pass 0 for the default.
func NewMatcher(lib *Library, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Matcher{
		library:   lib,
		threshold: threshold,
		languages: map[string]*sitter.Language{
			"python":     sitter.NewLanguage(python.Language()),
			"javascript": sitter.NewLanguage(typescript.LanguageTypescript()),
			"typescript": sitter.NewLanguage(typescript.LanguageTypescript()),
		},
	}
}

// Threshold returns the active similarity threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

type snippet struct {
	code     string
	location model.Location
	context  string
	language string
}

// FindMatches compares every function, class and method fragment of a
// module that carries source text against every library example, and
// returns matches scoring at or above the threshold, highest first.
// Equal scores keep enumeration order.
func (m *Matcher) FindMatches(mod *model.Module) []PatternMatch {
	var matches []PatternMatch

	for _, sn := range m.extractSnippets(mod) {
		for _, ex := range m.library.Examples {
			sim := m.similarity(sn.code, sn.language, ex.Code, ex.Language)
			if sim >= m.threshold {
				matches = append(matches, PatternMatch{
					Example:     ex,
					Location:    sn.location,
					Similarity:  sim,
					MatchedCode: sn.code,
					Context:     sn.context,
				})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

func (m *Matcher) extractSnippets(mod *model.Module) []snippet {
	lang := languageTagForFile(mod.FilePath)
	var snippets []snippet

	for _, fn := range mod.Functions {
		if fn.SourceCode != "" {
			snippets = append(snippets, snippet{
				code:     fn.SourceCode,
				location: fn.Location,
				context:  fmt.Sprintf("Function: %s", fn.Name),
				language: lang,
			})
		}
	}
	for _, cls := range mod.Classes {
		if cls.SourceCode != "" {
			snippets = append(snippets, snippet{
				code:     cls.SourceCode,
				location: cls.Location,
				context:  fmt.Sprintf("Class: %s", cls.Name),
				language: lang,
			})
		}
		for _, method := range cls.Methods {
			if method.SourceCode != "" {
				snippets = append(snippets, snippet{
					code:     method.SourceCode,
					location: method.Location,
					context:  fmt.Sprintf("Method: %s.%s", cls.Name, method.Name),
					language: lang,
				})
			}
		}
	}
	return snippets
}

// similarity scores two fragments. Parse failure on either side reduces
// the score to the text component alone.
func (m *Matcher) similarity(code1, lang1, code2, lang2 string) float64 {
	textSim := sequenceRatio(splitChars(code1), splitChars(code2))

	kinds1, ok1 := m.nodeKinds(code1, lang1)
	kinds2, ok2 := m.nodeKinds(code2, lang2)
	if !ok1 || !ok2 {
		return textSim
	}

	astSim := sequenceRatio(kinds1, kinds2)
	tokenSim := histogramOverlap(kinds1, kinds2)

	return 0.3*textSim + 0.4*astSim + 0.3*tokenSim
}

// nodeKinds parses a fragment with the grammar for its language tag and
// returns the pre-order sequence of syntax-node kind names. The bool is
// false when no grammar is known or the fragment does not parse cleanly.
func (m *Matcher) nodeKinds(code, lang string) ([]string, bool) {
	language, ok := m.languages[normalizeLanguage(lang)]
	if !ok {
		return nil, false
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language)

	tree := parser.Parse([]byte(code), nil)
	if tree == nil {
		return nil, false
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, false
	}

	var kinds []string
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		kinds = append(kinds, node.Kind())
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(uint(i)))
		}
	}
	walk(root)
	return kinds, true
}

// histogramOverlap is the sum over node kinds of the smaller occurrence
// count, divided by the larger sequence length.
func histogramOverlap(kinds1, kinds2 []string) float64 {
	if len(kinds1) == 0 && len(kinds2) == 0 {
		return 1.0
	}

	count1 := map[string]int{}
	for _, k := range kinds1 {
		count1[k]++
	}
	count2 := map[string]int{}
	for _, k := range kinds2 {
		count2[k]++
	}

	overlap := 0
	for k, c1 := range count1 {
		if c2 := count2[k]; c2 < c1 {
			overlap += c2
		} else {
			overlap += c1
		}
	}

	max := len(kinds1)
	if len(kinds2) > max {
		max = len(kinds2)
	}
	return float64(overlap) / float64(max)
}

// GenerateIssues converts matches against smelly or bad examples into
// issues. Matches against excellent or good examples produce nothing.
func (m *Matcher) GenerateIssues(matches []PatternMatch) []model.Issue {
	var issues []model.Issue

	for _, match := range matches {
		ex := match.Example
		if ex.Classification == QualityExcellent || ex.Classification == QualityGood {
			continue
		}

		severity := model.SeverityMedium
		if ex.Classification == QualityBad {
			severity = model.SeverityHigh
		}

		recommendation := ex.Alternative
		if recommendation == "" {
			recommendation = fmt.Sprintf("Review and refactor this %s pattern", ex.PatternType)
		}

		issues = append(issues, model.Issue{
			Type:     model.IssueCodeSmell,
			Severity: severity,
			Title:    fmt.Sprintf("%s code pattern detected: %s", titleCase(string(ex.Classification)), ex.PatternType),
			Description: fmt.Sprintf("%s\n\nMatched with %.1f%% similarity in %s",
				ex.Reason, match.Similarity*100, match.Context),
			Location:       match.Location,
			Recommendation: recommendation,
		})
	}
	return issues
}

// QualityReport aggregates match counts per quality label and pattern
// type, with a 0-100 weighted quality score.
type QualityReport struct {
	TotalMatches        int
	QualityScore        float64
	QualityDistribution map[Quality]int
	PatternDistribution map[PatternType]int
	TopPatterns         []PatternCount
}

// PatternCount pairs a pattern type with its match count.
type PatternCount struct {
	Pattern PatternType
	Count   int
}

// qualityWeights maps each label to its contribution to the 0-100 score.
var qualityWeights = map[Quality]float64{
	QualityExcellent: 100,
	QualityGood:      75,
	QualitySmelly:    40,
	QualityBad:       0,
}

// BuildQualityReport summarizes a match set.
func BuildQualityReport(matches []PatternMatch) QualityReport {
	report := QualityReport{
		QualityDistribution: map[Quality]int{},
		PatternDistribution: map[PatternType]int{},
	}

	var weighted float64
	for _, match := range matches {
		report.QualityDistribution[match.Example.Classification]++
		report.PatternDistribution[match.Example.PatternType]++
		weighted += qualityWeights[match.Example.Classification]
	}

	report.TotalMatches = len(matches)
	if report.TotalMatches > 0 {
		report.QualityScore = weighted / float64(report.TotalMatches)
	}

	for p, c := range report.PatternDistribution {
		report.TopPatterns = append(report.TopPatterns, PatternCount{Pattern: p, Count: c})
	}
	sort.Slice(report.TopPatterns, func(i, j int) bool {
		if report.TopPatterns[i].Count != report.TopPatterns[j].Count {
			return report.TopPatterns[i].Count > report.TopPatterns[j].Count
		}
		return report.TopPatterns[i].Pattern < report.TopPatterns[j].Pattern
	})
	if len(report.TopPatterns) > 5 {
		report.TopPatterns = report.TopPatterns[:5]
	}

	return report
}

func languageTagForFile(path string) string {
	switch filepath.Ext(path) {
	case ".py", ".pyi":
		return "python"
	case ".ts", ".tsx":
		return "typescript"
	case ".js", ".jsx", ".mjs", ".cjs":
		return "javascript"
	}
	return ""
}

func normalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
