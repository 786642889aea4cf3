// Package library manages a curated set of quality-classified code
// examples and matches extracted code fragments against them.
package library

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Quality classifies how good an example is.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualitySmelly    Quality = "smelly"
	QualityBad       Quality = "bad"
)

// Valid reports whether q is one of the known quality labels.
func (q Quality) Valid() bool {
	switch q {
	case QualityExcellent, QualityGood, QualitySmelly, QualityBad:
		return true
	}
	return false
}

// PatternType tags what kind of pattern an example demonstrates.
type PatternType string

const (
	PatternSingleton     PatternType = "singleton"
	PatternFactory       PatternType = "factory"
	PatternObserver      PatternType = "observer"
	PatternStrategy      PatternType = "strategy"
	PatternErrorHandling PatternType = "error_handling"
	PatternValidation    PatternType = "validation"
	PatternSecurity      PatternType = "security"
	PatternPerformance   PatternType = "performance"
	PatternTesting       PatternType = "testing"
	PatternDocumentation PatternType = "documentation"
	PatternNaming        PatternType = "naming"
	PatternStructure     PatternType = "structure"
	PatternGeneral       PatternType = "general"
)

// CodeExample is one classified library entry.
type CodeExample struct {
	ID             string      `yaml:"id"`
	Classification Quality     `yaml:"classification"`
	PatternType    PatternType `yaml:"pattern_type"`
	Language       string      `yaml:"language"`
	Code           string      `yaml:"code"`
	Description    string      `yaml:"description,omitempty"`
	Reason         string      `yaml:"reason,omitempty"`
	Tags           []string    `yaml:"tags,omitempty"`
	Alternative    string      `yaml:"alternative,omitempty"`
}

// Library holds the example collection.
type Library struct {
	Examples []CodeExample `yaml:"examples"`
}

// Load reads a library from a YAML file. Unknown or malformed examples
// are skipped rather than failing the load.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library: %w", err)
	}

	var raw Library
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse library %s: %w", path, err)
	}

	lib := &Library{}
	for _, ex := range raw.Examples {
		if !ex.Classification.Valid() || ex.Code == "" {
			continue
		}
		lib.Examples = append(lib.Examples, ex)
	}
	return lib, nil
}

// Save writes the library to a YAML file.
func (l *Library) Save(path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal library: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write library: %w", err)
	}
	return nil
}

// AddExample appends an example, assigning a fresh ID when absent.
func (l *Library) AddExample(ex CodeExample) {
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	l.Examples = append(l.Examples, ex)
}

// ByQuality returns every example with the given classification.
func (l *Library) ByQuality(q Quality) []CodeExample {
	var out []CodeExample
	for _, ex := range l.Examples {
		if ex.Classification == q {
			out = append(out, ex)
		}
	}
	return out
}

// ByPattern returns every example with the given pattern type.
func (l *Library) ByPattern(p PatternType) []CodeExample {
	var out []CodeExample
	for _, ex := range l.Examples {
		if ex.PatternType == p {
			out = append(out, ex)
		}
	}
	return out
}

// ByTag returns every example carrying the tag.
func (l *Library) ByTag(tag string) []CodeExample {
	var out []CodeExample
	for _, ex := range l.Examples {
		for _, t := range ex.Tags {
			if t == tag {
				out = append(out, ex)
				break
			}
		}
	}
	return out
}

// DefaultLibrary returns a small built-in example set, used when no
// library file is configured.
func DefaultLibrary() *Library {
	lib := &Library{}

	lib.AddExample(CodeExample{
		ID:             "singleton-excellent-001",
		Classification: QualityExcellent,
		PatternType:    PatternSingleton,
		Language:       "python",
		Code: `class Singleton:
    _instance = None
    _lock = threading.Lock()

    def __new__(cls):
        if cls._instance is None:
            with cls._lock:
                if cls._instance is None:
                    cls._instance = super().__new__(cls)
        return cls._instance`,
		Description: "Thread-safe singleton with double-checked locking",
		Tags:        []string{"design-pattern", "thread-safe"},
	})

	lib.AddExample(CodeExample{
		ID:             "error-handling-excellent-001",
		Classification: QualityExcellent,
		PatternType:    PatternErrorHandling,
		Language:       "python",
		Code: `def read_file(path: str) -> str:
    try:
        with open(path, 'r') as f:
            return f.read()
    except FileNotFoundError:
        logger.error(f"File not found: {path}")
        raise
    except PermissionError:
        logger.error(f"Permission denied: {path}")
        raise
    except Exception as e:
        logger.error(f"Unexpected error reading {path}: {e}")
        raise`,
		Description: "Error handling with specific exceptions and logging",
		Tags:        []string{"error-handling", "logging"},
	})

	lib.AddExample(CodeExample{
		ID:             "eval-bad-001",
		Classification: QualityBad,
		PatternType:    PatternSecurity,
		Language:       "python",
		Code:           `result = eval(user_input)`,
		Description:    "Using eval() on user input",
		Reason:         "Arbitrary code execution vulnerability - eval allows execution of any code",
		Tags:           []string{"security", "injection"},
		Alternative:    "Use ast.literal_eval() for safe evaluation or validate/parse input explicitly",
	})

	lib.AddExample(CodeExample{
		ID:             "bare-except-bad-001",
		Classification: QualityBad,
		PatternType:    PatternErrorHandling,
		Language:       "python",
		Code: `try:
    do_something()
except:
    pass`,
		Description: "Bare except clause that swallows all exceptions",
		Reason:      "Silently catches all exceptions including KeyboardInterrupt, making debugging impossible",
		Tags:        []string{"error-handling"},
		Alternative: "Catch specific exceptions and handle or log them appropriately",
	})

	lib.AddExample(CodeExample{
		ID:             "god-class-smelly-001",
		Classification: QualitySmelly,
		PatternType:    PatternStructure,
		Language:       "python",
		Code: `class Manager:
    def __init__(self):
        pass

    def do_everything(self):
        self.connect_database()
        self.send_email()
        self.process_payment()
        self.generate_report()
        self.update_cache()`,
		Description: "God class doing too many unrelated things",
		Reason:      "Violates Single Responsibility Principle - class has too many responsibilities",
		Tags:        []string{"solid", "structure"},
		Alternative: "Split into separate classes: DatabaseManager, EmailService, PaymentProcessor, ReportGenerator, CacheManager",
	})

	return lib
}
