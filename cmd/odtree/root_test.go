package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/odtree"
)

func TestParseHeuristic(t *testing.T) {
	tests := []struct {
		in      string
		want    odtree.Heuristic
		wantErr bool
	}{
		{"", odtree.HeuristicDisabled, false},
		{"none", odtree.HeuristicDisabled, false},
		{"info-gain", odtree.HeuristicInformationGain, false},
		{"gain-ratio", odtree.HeuristicGainRatio, false},
		{"gini", odtree.HeuristicGini, false},
		{"bogus", 0, true},
	}

	for _, tt := range tests {
		got, err := parseHeuristic(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseCache(t *testing.T) {
	got, err := parseCache("hashmap")
	require.NoError(t, err)
	assert.Equal(t, odtree.CacheHashmap, got)

	_, err = parseCache("bogus")
	assert.Error(t, err)
}

func TestParseSchedule(t *testing.T) {
	got, err := parseSchedule("luby")
	require.NoError(t, err)
	assert.Equal(t, odtree.ScheduleLuby, got)

	_, err = parseSchedule("bogus")
	assert.Error(t, err)
}

func TestParsePolicyFlags(t *testing.T) {
	on, err := parseSpecialization("murtree")
	require.NoError(t, err)
	assert.True(t, on)

	off, err := parseSpecialization("disabled")
	require.NoError(t, err)
	assert.False(t, off)

	_, err = parseSpecialization("bogus")
	assert.Error(t, err)

	on, err = parseLowerBound("similarity")
	require.NoError(t, err)
	assert.True(t, on)

	_, err = parseLowerBound("bogus")
	assert.Error(t, err)

	on, err = parseBranching("dynamic")
	require.NoError(t, err)
	assert.True(t, on)

	_, err = parseBranching("bogus")
	assert.Error(t, err)
}

func TestParseInitStrategy(t *testing.T) {
	got, err := parseInitStrategy("dynamic-allocation")
	require.NoError(t, err)
	assert.Equal(t, odtree.InitDynamicAllocation, got)

	_, err = parseInitStrategy("bogus")
	assert.Error(t, err)
}

func writeXOR(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xor.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 0 0\n1 0 1\n1 1 0\n0 1 1\n"), 0o644))
	return path
}

func TestDL85Command(t *testing.T) {
	path := writeXOR(t)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"dl85", "--input", path, "--depth", "2", "--print-stats"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "error=0")
	assert.Contains(t, out.String(), "optimal=true")
	assert.Contains(t, out.String(), "\"tree_error\": 0")
}

func TestDL85CommandPolicyFlags(t *testing.T) {
	path := writeXOR(t)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"dl85", "--input", path, "--depth", "2",
		"--specialization", "disabled", "--lb", "similarity", "--branching", "dynamic",
	})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "error=0")

	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"dl85", "--input", path, "--lb", "bogus"})
	assert.Error(t, cmd.Execute())
}

func TestLGDTCommandMultipleInputs(t *testing.T) {
	a, b := writeXOR(t), writeXOR(t)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"lgdt", "--input", a, "--input", b, "--depth", "3"})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("error=0")))
}

func TestD2CommandDOT(t *testing.T) {
	path := writeXOR(t)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"d2-odt", "--input", path, "--depth", "2", "--dot"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "digraph tree {")
}

func TestRejectsUnknownHeuristic(t *testing.T) {
	path := writeXOR(t)

	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"dl85", "--input", path, "--heuristic", "bogus"})

	assert.Error(t, cmd.Execute())
}
