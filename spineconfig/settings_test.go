package spineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesDocumentedValues(t *testing.T) {
	s := Default()
	assert.Equal(t, float32(1e-4), s.BoneLengthEpsilon)
	assert.Equal(t, float32(1e-5), s.DeterminantEpsilon)
	assert.Equal(t, float32(0.05), s.EventMixThreshold)
	assert.Equal(t, 1, s.IKIterationCap)
	assert.Equal(t, 10, s.PathIterationCap)
}

func TestLoadOverridesOnlyMentionedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("event_mix_threshold: 0.2\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, float32(0.2), s.EventMixThreshold)
	assert.Equal(t, float32(1e-4), s.BoneLengthEpsilon)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
