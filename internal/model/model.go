package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// IssueType classifies a detected issue.
type IssueType string

const (
	IssueBug           IssueType = "bug"
	IssueSecurity      IssueType = "security"
	IssuePerformance   IssueType = "performance"
	IssueCodeSmell     IssueType = "code_smell"
	IssueUnusedCode    IssueType = "unused_code"
	IssueComplexity    IssueType = "complexity"
	IssueConceptual    IssueType = "conceptual"
	IssueDocumentation IssueType = "documentation"
)

// IssueSeverity ranks how urgent an issue is.
type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "critical"
	SeverityHigh     IssueSeverity = "high"
	SeverityMedium   IssueSeverity = "medium"
	SeverityLow      IssueSeverity = "low"
	SeverityInfo     IssueSeverity = "info"
)

// Location identifies a span of source lines. Lines are 1-indexed and
// inclusive; StartLine is always <= EndLine.
type Location struct {
	FilePath     string `json:"file_path"`
	StartLine    int    `json:"start_line"`
	EndLine      int    `json:"end_line"`
	FunctionName string `json:"function_name,omitempty"`
	ClassName    string `json:"class_name,omitempty"`
}

// String renders the location as file:start[-end] with optional context.
func (l Location) String() string {
	s := fmt.Sprintf("%s:%d", l.FilePath, l.StartLine)
	if l.EndLine != l.StartLine {
		s += fmt.Sprintf("-%d", l.EndLine)
	}
	if l.FunctionName != "" {
		s += fmt.Sprintf(" in %s()", l.FunctionName)
	}
	if l.ClassName != "" {
		s += fmt.Sprintf(" [%s]", l.ClassName)
	}
	return s
}

// Issue is a single finding against a location.
type Issue struct {
	Type           IssueType     `json:"type"`
	Severity       IssueSeverity `json:"severity"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Location       Location      `json:"location"`
	Recommendation string        `json:"recommendation,omitempty"`
	CodeSnippet    string        `json:"code_snippet,omitempty"`
}

// Fingerprint returns a stable 16-hex-char identifier for issue tracking,
// derived from the location and title only so re-runs match up.
func (i Issue) Fingerprint() string {
	key := fmt.Sprintf("%s:%d:%s", i.Location.FilePath, i.Location.StartLine, i.Title)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:16]
}

// Function describes a function or method in a module.
type Function struct {
	Name       string   `json:"name"`
	Location   Location `json:"location"`
	Parameters []string `json:"parameters"`
	ReturnType string   `json:"return_type,omitempty"`
	Docstring  string   `json:"docstring,omitempty"`

	// Complexity is a cyclomatic complexity estimate, always >= 1.
	// ComplexityEstimated is set when the body could not be located and a
	// weaker parameter-count heuristic was used instead.
	Complexity          int  `json:"complexity"`
	ComplexityEstimated bool `json:"complexity_estimated,omitempty"`

	IsAsync     bool `json:"is_async,omitempty"`
	IsGenerator bool `json:"is_generator,omitempty"`

	// Calls holds raw callee names as written at the call site ("a.b.c").
	// CalledBy holds qualified caller names and is populated only by the
	// call-graph builder.
	Calls    []string `json:"calls,omitempty"`
	CalledBy []string `json:"called_by,omitempty"`

	Decorators []string `json:"decorators,omitempty"`
	SourceCode string   `json:"source_code,omitempty"`
}

// Class describes a class and its methods.
type Class struct {
	Name       string     `json:"name"`
	Location   Location   `json:"location"`
	Bases      []string   `json:"bases,omitempty"`
	Docstring  string     `json:"docstring,omitempty"`
	Methods    []Function `json:"methods,omitempty"`
	Attributes []string   `json:"attributes,omitempty"`
	IsAbstract bool       `json:"is_abstract,omitempty"`
	SourceCode string     `json:"source_code,omitempty"`
}

// Module is the per-file unit of the structural model.
type Module struct {
	// Name is the dotted path of the file relative to the project root,
	// e.g. "pkg.sub.mod" for pkg/sub/mod.py.
	Name        string     `json:"name"`
	FilePath    string     `json:"file_path"`
	Docstring   string     `json:"docstring,omitempty"`
	Imports     []string   `json:"imports,omitempty"`
	Classes     []Class    `json:"classes,omitempty"`
	Functions   []Function `json:"functions,omitempty"`
	LinesOfCode int        `json:"lines_of_code"`
	Complexity  int        `json:"complexity"`
}

// AllFunctions returns pointers to every function and method in the
// module, top-level functions first, in declaration order.
func (m *Module) AllFunctions() []*Function {
	var out []*Function
	for i := range m.Functions {
		out = append(out, &m.Functions[i])
	}
	for i := range m.Classes {
		for j := range m.Classes[i].Methods {
			out = append(out, &m.Classes[i].Methods[j])
		}
	}
	return out
}

// CriticalSection flags code whose failure or modification carries
// outsized risk.
type CriticalSection struct {
	Name         string        `json:"name"`
	Location     Location      `json:"location"`
	Reason       string        `json:"reason"`
	RiskLevel    IssueSeverity `json:"risk_level"`
	Dependencies []string      `json:"dependencies,omitempty"`
	ImpactAreas  []string      `json:"impact_areas,omitempty"`
}

// Metrics aggregates whole-project numbers.
type Metrics struct {
	TotalFiles        int            `json:"total_files"`
	TotalLines        int            `json:"total_lines"`
	TotalClasses      int            `json:"total_classes"`
	TotalFunctions    int            `json:"total_functions"`
	TotalIssues       int            `json:"total_issues"`
	IssuesBySeverity  map[string]int `json:"issues_by_severity"`
	IssuesByType      map[string]int `json:"issues_by_type"`
	AverageComplexity float64        `json:"average_complexity"`
	MaxComplexity     int            `json:"max_complexity"`
}

// Result is the complete output of one analysis run.
type Result struct {
	ProjectPath      string              `json:"project_path"`
	AnalysisDate     time.Time           `json:"analysis_date"`
	Modules          []*Module           `json:"modules"`
	Issues           []Issue             `json:"issues"`
	CriticalSections []CriticalSection   `json:"critical_sections"`
	Metrics          Metrics             `json:"metrics"`
	DependencyGraph  map[string][]string `json:"dependency_graph"`
	EntryPoints      []string            `json:"entry_points"`
}

// IssuesBySeverity returns the issues matching a severity.
func (r *Result) IssuesBySeverity(sev IssueSeverity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// IssuesByType returns the issues matching a type.
func (r *Result) IssuesByType(t IssueType) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Type == t {
			out = append(out, issue)
		}
	}
	return out
}
