package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Library:
// - Load skips malformed examples instead of failing the whole file
// - Save then Load round-trips the example set
// - AddExample assigns an ID when absent and keeps explicit ones
// - ByQuality, ByPattern and ByTag filter correctly
// - DefaultLibrary covers every quality class used by issue generation

func TestLibrary_LoadSkipsInvalidExamples(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	content := `examples:
  - id: ok-1
    classification: bad
    pattern_type: security
    language: python
    code: "result = eval(user_input)"
  - id: bad-classification
    classification: terrible
    pattern_type: general
    language: python
    code: "pass"
  - id: missing-code
    classification: good
    pattern_type: general
    language: python
`
	path := filepath.Join(tmpDir, "library.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	lib, err := Load(path)
	require.NoError(t, err)
	require.Len(t, lib.Examples, 1)
	assert.Equal(t, "ok-1", lib.Examples[0].ID)
}

func TestLibrary_LoadErrors(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	_, err := Load(filepath.Join(tmpDir, "missing.yaml"))
	assert.Error(t, err)

	broken := filepath.Join(tmpDir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("examples: [not: {valid"), 0644))
	_, err = Load(broken)
	assert.Error(t, err)
}

func TestLibrary_SaveRoundTrip(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	lib := &Library{}
	lib.AddExample(CodeExample{
		ID:             "bare-except-1",
		Classification: QualityBad,
		PatternType:    PatternErrorHandling,
		Language:       "python",
		Code:           "try:\n    pass\nexcept:\n    pass",
		Reason:         "Swallows every exception",
		Tags:           []string{"error-handling"},
		Alternative:    "Catch specific exceptions",
	})

	path := filepath.Join(tmpDir, "library.yaml")
	require.NoError(t, lib.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Examples, 1)
	assert.Equal(t, lib.Examples[0], loaded.Examples[0])
}

func TestLibrary_AddExampleAssignsID(t *testing.T) {
	t.Parallel()

	lib := &Library{}
	lib.AddExample(CodeExample{Classification: QualityGood, Code: "x = 1"})
	lib.AddExample(CodeExample{ID: "explicit", Classification: QualityGood, Code: "y = 2"})

	require.Len(t, lib.Examples, 2)
	assert.NotEmpty(t, lib.Examples[0].ID)
	assert.Equal(t, "explicit", lib.Examples[1].ID)
	assert.NotEqual(t, lib.Examples[0].ID, lib.Examples[1].ID)
}

func TestLibrary_Filters(t *testing.T) {
	t.Parallel()

	lib := &Library{Examples: []CodeExample{
		{ID: "a", Classification: QualityBad, PatternType: PatternSecurity, Tags: []string{"injection"}},
		{ID: "b", Classification: QualityBad, PatternType: PatternErrorHandling},
		{ID: "c", Classification: QualityExcellent, PatternType: PatternSecurity, Tags: []string{"injection", "validated"}},
	}}

	assert.Len(t, lib.ByQuality(QualityBad), 2)
	assert.Len(t, lib.ByQuality(QualitySmelly), 0)
	assert.Len(t, lib.ByPattern(PatternSecurity), 2)
	assert.Len(t, lib.ByTag("injection"), 2)
	assert.Len(t, lib.ByTag("validated"), 1)
}

func TestDefaultLibrary(t *testing.T) {
	t.Parallel()

	lib := DefaultLibrary()
	require.NotEmpty(t, lib.Examples)

	assert.NotEmpty(t, lib.ByQuality(QualityExcellent))
	assert.NotEmpty(t, lib.ByQuality(QualityBad))
	assert.NotEmpty(t, lib.ByQuality(QualitySmelly))

	for _, ex := range lib.Examples {
		assert.True(t, ex.Classification.Valid(), ex.ID)
		assert.NotEmpty(t, ex.Code, ex.ID)
		assert.NotEmpty(t, ex.Language, ex.ID)
	}
}

func TestQuality_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, QualityExcellent.Valid())
	assert.True(t, QualityBad.Valid())
	assert.False(t, Quality("terrible").Valid())
	assert.False(t, Quality("").Valid())
}
