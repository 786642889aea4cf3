package analyzer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultIgnorePatterns excludes dependency caches, build output and
// version-control metadata from discovery.
var DefaultIgnorePatterns = []string{
	"**/venv/**",
	"**/env/**",
	"**/.venv/**",
	"**/node_modules/**",
	"**/migrations/**",
	"**/build/**",
	"**/dist/**",
	"**/.git/**",
	"**/__pycache__/**",
	"**/*.egg-info/**",
	"**/coverage/**",
}

// compiledPattern holds a compiled glob plus a variant with any leading
// **/ stripped, so "**/build/**" also matches the root-level "build".
type compiledPattern struct {
	pattern    string
	glob       glob.Glob
	simplified glob.Glob
}

// FileDiscovery walks a project root collecting source files for the
// enabled extensions, honoring glob ignore patterns.
type FileDiscovery struct {
	rootDir        string
	extensions     map[string]bool
	ignorePatterns []compiledPattern
}

// NewFileDiscovery compiles the ignore patterns and returns a discovery
// instance for the given extensions (leading dot included).
func NewFileDiscovery(rootDir string, extensions []string, ignorePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		rootDir:    rootDir,
		extensions: map[string]bool{},
	}
	for _, ext := range extensions {
		fd.extensions[ext] = true
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		cp := compiledPattern{pattern: pattern, glob: g}
		if strings.HasPrefix(pattern, "**/") {
			if sg, err := glob.Compile(strings.TrimPrefix(pattern, "**/"), '/'); err == nil {
				cp.simplified = sg
			}
		}
		fd.ignorePatterns = append(fd.ignorePatterns, cp)
	}

	return fd, nil
}

// DiscoverFiles walks the tree and returns matching files in lexical
// walk order, so repeated runs see an identical sequence.
func (fd *FileDiscovery) DiscoverFiles() ([]string, error) {
	var files []string

	err := filepath.Walk(fd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && fd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.shouldIgnore(relPath) {
			return nil
		}
		if fd.extensions[filepath.Ext(path)] {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// shouldIgnore checks a relative path against the ignore patterns. A
// directory is also tried with a /** suffix so "node_modules" matches
// "**/node_modules/**" before descent.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	if fd.matchesAny(relPath) {
		return true
	}
	return fd.matchesAny(relPath + "/**")
}

func (fd *FileDiscovery) matchesAny(path string) bool {
	for _, cp := range fd.ignorePatterns {
		if cp.glob.Match(path) {
			return true
		}
		if cp.simplified != nil && cp.simplified.Match(path) {
			return true
		}
	}
	return false
}
