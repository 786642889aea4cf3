package analyzer

import (
	"fmt"
	"strings"

	"codescope/internal/model"
)

// Complexity thresholds for issue and critical-section detection.
const (
	complexityHigh   = 15
	complexityMedium = 10
	maxParameters    = 5
	godClassMethods  = 20
	largeClass       = 15
)

// identifyCriticalSections flags high-complexity functions, oversized
// classes and entry points.
func identifyCriticalSections(modules []*model.Module) []model.CriticalSection {
	var sections []model.CriticalSection

	for _, mod := range modules {
		for _, fn := range mod.Functions {
			if fn.Complexity > complexityMedium {
				risk := model.SeverityMedium
				if fn.Complexity > complexityHigh {
					risk = model.SeverityHigh
				}
				sections = append(sections, model.CriticalSection{
					Name:         mod.Name + "." + fn.Name,
					Location:     fn.Location,
					Reason:       fmt.Sprintf("High complexity (%d)", fn.Complexity),
					RiskLevel:    risk,
					Dependencies: fn.Calls,
				})
			}
		}

		for _, cls := range mod.Classes {
			if len(cls.Methods) > largeClass {
				sections = append(sections, model.CriticalSection{
					Name:      mod.Name + "." + cls.Name,
					Location:  cls.Location,
					Reason:    fmt.Sprintf("Large class (%d methods)", len(cls.Methods)),
					RiskLevel: model.SeverityMedium,
				})
			}
		}

		for _, fn := range mod.Functions {
			if fn.Name == "main" {
				sections = append(sections, model.CriticalSection{
					Name:        mod.Name + ".main",
					Location:    fn.Location,
					Reason:      "Application entry point",
					RiskLevel:   model.SeverityHigh,
					ImpactAreas: []string{"startup", "initialization"},
				})
				break
			}
		}
	}

	return sections
}

func detectComplexityIssues(modules []*model.Module) []model.Issue {
	var issues []model.Issue
	for _, mod := range modules {
		for _, fn := range mod.AllFunctions() {
			switch {
			case fn.Complexity > complexityHigh:
				issues = append(issues, model.Issue{
					Type:           model.IssueComplexity,
					Severity:       model.SeverityHigh,
					Title:          fmt.Sprintf("High complexity in %s", fn.Name),
					Description:    fmt.Sprintf("Function has cyclomatic complexity of %d", fn.Complexity),
					Location:       fn.Location,
					Recommendation: "Consider breaking this function into smaller, more focused functions",
				})
			case fn.Complexity > complexityMedium:
				issues = append(issues, model.Issue{
					Type:           model.IssueComplexity,
					Severity:       model.SeverityMedium,
					Title:          fmt.Sprintf("Moderate complexity in %s", fn.Name),
					Description:    fmt.Sprintf("Function has cyclomatic complexity of %d", fn.Complexity),
					Location:       fn.Location,
					Recommendation: "Consider simplifying this function",
				})
			}
		}
	}
	return issues
}

// frameworkDecorators mark functions invoked by external frameworks;
// such functions are never reported as unused.
var frameworkDecorators = []string{
	"click.command", "click.group", "command", "group",
	"pytest.fixture", "fixture",
	"app.route", "route", "get", "post", "put", "delete",
	"app.get", "app.post", "app.put", "app.delete",
	"require_http_methods", "login_required",
	"task", "shared_task",
	"property", "staticmethod", "classmethod",
}

func hasFrameworkDecorator(fn *model.Function) bool {
	for _, dec := range fn.Decorators {
		lower := strings.ToLower(dec)
		for _, known := range frameworkDecorators {
			if strings.Contains(lower, known) {
				return true
			}
		}
	}
	return false
}

// isPublicAPI guesses whether a function is consumed outside the
// project: package entry modules and api/interface directories.
func isPublicAPI(fn *model.Function, mod *model.Module) bool {
	if strings.Contains(mod.FilePath, "__init__") {
		return true
	}
	if strings.HasPrefix(fn.Name, "_") {
		return false
	}
	for _, dir := range []string{"api", "public", "interface", "facade"} {
		if strings.Contains(mod.FilePath, dir) {
			return true
		}
	}
	return false
}

// detectUnusedCode reports top-level functions whose CalledBy stayed
// empty after call-graph construction, filtered down to functions that
// plausibly have no external callers either.
func detectUnusedCode(modules []*model.Module) []model.Issue {
	var issues []model.Issue
	for _, mod := range modules {
		for i := range mod.Functions {
			fn := &mod.Functions[i]
			if len(fn.CalledBy) > 0 {
				continue
			}
			switch fn.Name {
			case "main", "__init__", "__main__", "__str__", "__repr__":
				continue
			}
			if hasFrameworkDecorator(fn) || isPublicAPI(fn, mod) {
				continue
			}
			if strings.HasSuffix(mod.FilePath, "__init__.py") {
				continue
			}
			issues = append(issues, model.Issue{
				Type:           model.IssueUnusedCode,
				Severity:       model.SeverityLow,
				Title:          fmt.Sprintf("Potentially unused function: %s", fn.Name),
				Description:    "This function is not called anywhere in the codebase",
				Location:       fn.Location,
				Recommendation: "Consider removing if truly unused, or document its external usage",
			})
		}
	}
	return issues
}

func detectCodeSmells(modules []*model.Module) []model.Issue {
	var issues []model.Issue
	for _, mod := range modules {
		for _, fn := range mod.AllFunctions() {
			if len(fn.Parameters) > maxParameters {
				issues = append(issues, model.Issue{
					Type:           model.IssueCodeSmell,
					Severity:       model.SeverityMedium,
					Title:          fmt.Sprintf("Long parameter list in %s", fn.Name),
					Description:    fmt.Sprintf("Function has %d parameters", len(fn.Parameters)),
					Location:       fn.Location,
					Recommendation: "Consider using a configuration object or builder pattern",
				})
			}
		}

		for _, fn := range mod.Functions {
			if fn.Docstring == "" && !strings.HasPrefix(fn.Name, "_") {
				issues = append(issues, model.Issue{
					Type:           model.IssueDocumentation,
					Severity:       model.SeverityLow,
					Title:          fmt.Sprintf("Missing docstring: %s", fn.Name),
					Description:    "Public function lacks documentation",
					Location:       fn.Location,
					Recommendation: "Add a docstring describing purpose, parameters, and return value",
				})
			}
		}
	}
	return issues
}

var dangerousImports = []string{"pickle", "marshal", "shelve"}

func detectDangerousImports(modules []*model.Module) []model.Issue {
	var issues []model.Issue
	for _, mod := range modules {
		for _, imp := range mod.Imports {
			for _, danger := range dangerousImports {
				if strings.Contains(imp, danger) {
					issues = append(issues, model.Issue{
						Type:        model.IssueSecurity,
						Severity:    model.SeverityMedium,
						Title:       fmt.Sprintf("Potentially dangerous import: %s", imp),
						Description: fmt.Sprintf("Module imports %s which can be unsafe", imp),
						Location: model.Location{
							FilePath:  mod.FilePath,
							StartLine: 1,
							EndLine:   1,
						},
						Recommendation: "Ensure proper input validation when using this module",
					})
					break
				}
			}
		}
	}
	return issues
}

func detectGodClasses(modules []*model.Module) []model.Issue {
	var issues []model.Issue
	for _, mod := range modules {
		for _, cls := range mod.Classes {
			if len(cls.Methods) > godClassMethods {
				issues = append(issues, model.Issue{
					Type:           model.IssueConceptual,
					Severity:       model.SeverityHigh,
					Title:          fmt.Sprintf("God class: %s", cls.Name),
					Description:    fmt.Sprintf("Class has %d methods, indicating too many responsibilities", len(cls.Methods)),
					Location:       cls.Location,
					Recommendation: "Consider splitting into smaller, more focused classes following SRP",
				})
			}
		}
	}
	return issues
}

// calculateMetrics aggregates whole-project totals.
func calculateMetrics(modules []*model.Module, issues []model.Issue) model.Metrics {
	metrics := model.Metrics{
		IssuesBySeverity: map[string]int{},
		IssuesByType:     map[string]int{},
	}

	metrics.TotalFiles = len(modules)
	for _, mod := range modules {
		metrics.TotalLines += mod.LinesOfCode
		metrics.TotalClasses += len(mod.Classes)
		metrics.TotalFunctions += len(mod.AllFunctions())
	}

	metrics.TotalIssues = len(issues)
	for _, issue := range issues {
		metrics.IssuesBySeverity[string(issue.Severity)]++
		metrics.IssuesByType[string(issue.Type)]++
	}

	var sum, count int
	for _, mod := range modules {
		for _, fn := range mod.AllFunctions() {
			sum += fn.Complexity
			count++
			if fn.Complexity > metrics.MaxComplexity {
				metrics.MaxComplexity = fn.Complexity
			}
		}
	}
	if count > 0 {
		metrics.AverageComplexity = float64(sum) / float64(count)
	}

	return metrics
}

// identifyEntryPoints finds main functions and CLI-style verbs.
func identifyEntryPoints(modules []*model.Module) []string {
	var entryPoints []string
	for _, mod := range modules {
		for _, fn := range mod.Functions {
			if fn.Name == "main" {
				entryPoints = append(entryPoints, mod.Name+".main")
				break
			}
		}
		for _, fn := range mod.Functions {
			if fn.Name == "cli" || fn.Name == "run" || fn.Name == "start" || fn.Name == "execute" {
				entryPoints = append(entryPoints, mod.Name)
				break
			}
		}
	}
	return entryPoints
}
