package extract

import (
	"fmt"

	"codescope/internal/model"
)

// Extractor turns one source file into a structural Module.
//
// Analyze returns (nil, nil) for recoverable conditions (undecodable or
// unparseable files) so a failed file never aborts the run; the caller
// logs and moves on. Extensions and Language are pure and constant per
// implementation.
type Extractor interface {
	// Analyze parses the file at path and returns its Module, or nil if
	// the file should be skipped.
	Analyze(path string) (*model.Module, error)

	// Extensions lists the file extensions this extractor claims,
	// including the leading dot.
	Extensions() []string

	// Language names the language this extractor handles.
	Language() string
}

// Registry maps file extensions to extractors. At most one extractor may
// claim an extension; the registry is read-only after construction.
type Registry struct {
	byExt []extEntry
}

type extEntry struct {
	ext       string
	extractor Extractor
}

// NewRegistry registers the given extractors and returns the registry.
// A duplicate extension claim is an error.
func NewRegistry(extractors ...Extractor) (*Registry, error) {
	r := &Registry{}
	seen := map[string]string{}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			if prev, ok := seen[ext]; ok {
				return nil, fmt.Errorf("extension %s claimed by both %s and %s", ext, prev, e.Language())
			}
			seen[ext] = e.Language()
			r.byExt = append(r.byExt, extEntry{ext: ext, extractor: e})
		}
	}
	return r, nil
}

// ForExtension returns the extractor claiming ext, or nil.
func (r *Registry) ForExtension(ext string) Extractor {
	for _, e := range r.byExt {
		if e.ext == ext {
			return e.extractor
		}
	}
	return nil
}

// Extensions returns every registered extension in registration order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for _, e := range r.byExt {
		exts = append(exts, e.ext)
	}
	return exts
}
