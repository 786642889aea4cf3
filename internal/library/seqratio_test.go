package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for sequenceRatio:
// - Identical sequences score 1.0, disjoint ones 0.0
// - Two empty sequences are identical
// - Partial overlap follows 2*M/(len(a)+len(b))
// - The ratio is symmetric
// - splitChars keeps multi-byte runes as single elements

func TestSequenceRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, sequenceRatio(splitChars("abc"), splitChars("abc")))
	assert.Equal(t, 0.0, sequenceRatio(splitChars("abc"), splitChars("xyz")))
	assert.Equal(t, 1.0, sequenceRatio(nil, nil))
	assert.Equal(t, 0.0, sequenceRatio(splitChars("abc"), nil))

	// Longest common block "bcd" of size 3: 2*3/(4+4).
	assert.InDelta(t, 0.75, sequenceRatio(splitChars("abcd"), splitChars("bcde")), 1e-9)
}

func TestSequenceRatio_Symmetric(t *testing.T) {
	t.Parallel()

	a := splitChars("def process(order):\n    return order")
	b := splitChars("def handle(order):\n    return None")
	assert.InDelta(t, sequenceRatio(a, b), sequenceRatio(b, a), 1e-9)
}

func TestSequenceRatio_NodeKindSequences(t *testing.T) {
	t.Parallel()

	a := []string{"module", "function_definition", "block", "return_statement"}
	b := []string{"module", "function_definition", "block", "pass_statement"}
	// 3 of 4 elements match in one block: 2*3/8.
	assert.InDelta(t, 0.75, sequenceRatio(a, b), 1e-9)
}

func TestSplitChars(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"d", "é", "f"}, splitChars("déf"))
	assert.Empty(t, splitChars(""))
}
