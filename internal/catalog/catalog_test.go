package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcortes/harmonia/internal/rules"
)

func TestDefault(t *testing.T) {
	defs, err := Default()
	require.NoError(t, err)
	require.Len(t, defs, 14)

	byName := make(map[string]rules.Definition, len(defs))
	for _, d := range defs {
		byName[d.Name] = d
		assert.True(t, d.Enabled, "%s should default to enabled", d.Name)
		assert.NotEmpty(t, d.ShortMsg, d.Name)
		assert.NotEmpty(t, d.FullMsg, d.Name)
		assert.Regexp(t, `^#[0-9A-F]{6}$`, d.Color, d.Name)
	}

	pf := byName["parallel_fifths"]
	assert.Equal(t, rules.TierCritical, pf.Tier)
	assert.Equal(t, []rules.ExceptionKind{
		rules.ExceptionDominantPair,
		rules.ExceptionVoicingChange,
		rules.ExceptionSecondFifthDiminished,
	}, pf.Exceptions)

	assert.Equal(t, rules.TierImportant, byName["voice_overlap"].Tier)
	assert.Equal(t, []rules.ExceptionKind{rules.ExceptionParallelTenths},
		byName["unequal_fifths"].Exceptions)
}

// Every catalogue entry must bind to a detector and to registered
// exception kinds; the engine constructor is the authority.
func TestDefault_BindsToEngine(t *testing.T) {
	defs, err := Default()
	require.NoError(t, err)

	_, err = rules.NewEngine(defs, nil)
	require.NoError(t, err)
}

func compileString(t *testing.T, src string) ([]rules.Definition, error) {
	t.Helper()
	ctx := cuecontext.New()
	return Compile(ctx.CompileString(src))
}

func TestCompile(t *testing.T) {
	defs, err := compileString(t, `
rules: [{
	name:      "parallel_fifths"
	tier:      1
	color:     "#FF0000"
	short_msg: "Parallel fifths"
	full_msg:  "Two voices a fifth apart move to another fifth."
	exceptions: ["voicing_change"]
}, {
	name:      "voice_overlap"
	tier:      2
	color:     "#FFFF00"
	short_msg: "Voice overlap"
	full_msg:  "A voice moves past its neighbor."
	enabled:   false
}]
`)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, rules.Definition{
		Name:       "parallel_fifths",
		Tier:       rules.TierCritical,
		Color:      "#FF0000",
		ShortMsg:   "Parallel fifths",
		FullMsg:    "Two voices a fifth apart move to another fifth.",
		Exceptions: []rules.ExceptionKind{rules.ExceptionVoicingChange},
		Enabled:    true,
	}, defs[0])
	assert.False(t, defs[1].Enabled)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing rules", `other: 1`, "rules list is required"},
		{"empty list", `rules: []`, "at least one rule"},
		{"missing name", `rules: [{tier: 1, color: "#FF0000", short_msg: "x", full_msg: "y"}]`, "name is required"},
		{"missing tier", `rules: [{name: "x", color: "#FF0000", short_msg: "x", full_msg: "y"}]`, "tier is required"},
		{"tier out of range", `rules: [{name: "x", tier: 9, color: "#FF0000", short_msg: "x", full_msg: "y"}]`, "tier must be 1-3"},
		{"duplicate name", `rules: [
			{name: "x", tier: 1, color: "#FF0000", short_msg: "a", full_msg: "b"},
			{name: "x", tier: 1, color: "#FF0000", short_msg: "a", full_msg: "b"},
		]`, "duplicate rule"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileString(t, tt.src)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.cue")
	require.NoError(t, os.WriteFile(path, []byte(`
rules: [{
	name:      "parallel_octaves"
	tier:      1
	color:     "#00FF00"
	short_msg: "Parallel octaves"
	full_msg:  "Octaves moving together."
	exceptions: []
}]
`), 0o644))

	defs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "#00FF00", defs[0].Color)
}

func TestLoadFile_SchemaRejectsBadEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(`
rules: [{
	name:      "Parallel Fifths"
	tier:      1
	color:     "#FF0000"
	short_msg: "x"
	full_msg:  "y"
}]
`), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
}
