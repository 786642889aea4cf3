package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for JavaScriptExtractor:
// - Locate named, arrow and class-method declarations by regex
// - Bound bodies with the string/comment-aware matching-brace scan
// - Count decision points: if and else-if each once, for, while, case,
//   catch, &&, ||, ternary
// - Fall back to the parameter-count estimate when no body is found
// - Truncate unterminated bodies to end-of-file
// - Collect ES imports and CommonJS requires, deduplicated and sorted

func writeJS(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	return path
}

func TestJavaScriptExtractor_Analyze(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	source := `// Shipping rate helpers.
import { round } from './math';
const fs = require('fs');

function computeRate(weight, zone) {
  if (weight > 10) {
    return zone * 2;
  }
  for (let i = 0; i < zone; i++) {
    weight += 1;
  }
  return weight;
}

export const formatRate = async (rate) => {
  return rate.toFixed(2);
};
`
	path := writeJS(t, tmpDir, "rates.js", source)

	mod, err := NewJavaScriptExtractor(tmpDir).Analyze(path)
	require.NoError(t, err)
	require.NotNil(t, mod)

	assert.Equal(t, "rates", mod.Name)
	assert.Equal(t, "Shipping rate helpers.", mod.Docstring)
	assert.Equal(t, []string{"./math", "fs"}, mod.Imports)

	require.Len(t, mod.Functions, 2)

	compute := mod.Functions[0]
	assert.Equal(t, "computeRate", compute.Name)
	assert.Equal(t, []string{"weight", "zone"}, compute.Parameters)
	// 1 base + if + for
	assert.Equal(t, 3, compute.Complexity)
	assert.False(t, compute.ComplexityEstimated)
	assert.Equal(t, 5, compute.Location.StartLine)
	assert.Equal(t, 13, compute.Location.EndLine)

	format := mod.Functions[1]
	assert.Equal(t, "formatRate", format.Name)
	assert.True(t, format.IsAsync)
	assert.Equal(t, 1, format.Complexity)
}

func TestJavaScriptExtractor_ElseIfCountsOnce(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	source := `function classify(x) {
  if (x > 0 && x < 10) {
    return 'small';
  } else if (x < 0) {
    return 'negative';
  }
  return 'large';
}
`
	path := writeJS(t, tmpDir, "classify.js", source)

	mod, err := NewJavaScriptExtractor(tmpDir).Analyze(path)
	require.NoError(t, err)
	require.Len(t, mod.Functions, 1)

	// 1 base + if + else-if + && : the else-if is one decision point.
	assert.Equal(t, 4, mod.Functions[0].Complexity)
}

func TestJavaScriptExtractor_Classes(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	source := `export class RateTable extends Table {
  constructor(zones) {
    this.zones = zones;
  }

  async lookup(zone) {
    if (this.zones[zone]) {
      return this.zones[zone];
    }
    return null;
  }
}

function standalone() {
  return 1;
}
`
	path := writeJS(t, tmpDir, "table.js", source)

	mod, err := NewJavaScriptExtractor(tmpDir).Analyze(path)
	require.NoError(t, err)

	require.Len(t, mod.Classes, 1)
	cls := mod.Classes[0]
	assert.Equal(t, "RateTable", cls.Name)
	assert.Equal(t, []string{"Table"}, cls.Bases)
	assert.Equal(t, 1, cls.Location.StartLine)
	assert.Equal(t, 12, cls.Location.EndLine)

	require.Len(t, cls.Methods, 2)
	assert.Equal(t, "constructor", cls.Methods[0].Name)
	assert.Equal(t, 1, cls.Methods[0].Complexity)
	lookup := cls.Methods[1]
	assert.Equal(t, "lookup", lookup.Name)
	assert.True(t, lookup.IsAsync)
	assert.Equal(t, 2, lookup.Complexity)
	assert.Equal(t, "RateTable", lookup.Location.ClassName)

	// Declarations inside the class span never duplicate as top-level
	// functions; the one outside still appears.
	require.Len(t, mod.Functions, 1)
	assert.Equal(t, "standalone", mod.Functions[0].Name)
}

func TestJavaScriptExtractor_BracesInStringsAndComments(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	source := `function render(name) {
  const open = "{";
  // stray } in a comment
  if (name) {
    return ` + "`hello ${name}`" + `;
  }
  return open;
}
`
	path := writeJS(t, tmpDir, "render.js", source)

	mod, err := NewJavaScriptExtractor(tmpDir).Analyze(path)
	require.NoError(t, err)
	require.Len(t, mod.Functions, 1)

	fn := mod.Functions[0]
	assert.Equal(t, 1, fn.Location.StartLine)
	assert.Equal(t, 8, fn.Location.EndLine, "braces inside literals and comments must not end the body")
	assert.Equal(t, 2, fn.Complexity)
	assert.False(t, fn.ComplexityEstimated)
}

func TestJavaScriptExtractor_UnterminatedBody(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	source := `function broken(a) {
  if (a) {
    return a;
`
	path := writeJS(t, tmpDir, "broken.js", source)

	mod, err := NewJavaScriptExtractor(tmpDir).Analyze(path)
	require.NoError(t, err)
	require.Len(t, mod.Functions, 1)

	fn := mod.Functions[0]
	lineCount := len(strings.Split(source, "\n"))
	assert.Equal(t, lineCount, fn.Location.EndLine, "unterminated body truncates to end-of-file")
	assert.Equal(t, 2, fn.Complexity)
}

func TestFindMatchingBrace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		start int
		want  int
	}{
		{"simple", "{}", 0, 1},
		{"nested", "{ { } }", 0, 6},
		{"brace in string", `{ "}" }`, 0, 6},
		{"brace in line comment", "{ // }\n}", 0, 7},
		{"brace in block comment", "{ /* } */ }", 0, 10},
		{"escaped quote in string", `{ "\"}" }`, 0, 8},
		{"unterminated", "{ {", 0, -1},
		{"not a brace", "x{}", 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findMatchingBrace(tt.text, tt.start))
		})
	}
}

func TestSplitParameters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, splitParameters("a = 1, b: string, c"))
	assert.Nil(t, splitParameters(""))
	assert.Equal(t, []string{"opts"}, splitParameters("opts = {}"))
}

func TestJSModuleName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		relPath string
		want    string
	}{
		{"rates.js", "rates"},
		{"src/lib/util.ts", "src.lib.util"},
		{"src/lib/index.ts", "src.lib"},
		{"index.js", "index"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, jsModuleName(tt.relPath), tt.relPath)
	}
}
