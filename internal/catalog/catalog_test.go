package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/gafaws/internal/position"
)

func TestDefaultCoversChallengeKeys(t *testing.T) {
	c := Default()
	for _, key := range []string{position.MsgPrefixFog, position.MsgSuffixFog} {
		assert.True(t, c.Has(key), key)
		assert.NotEqual(t, key, c.Text(key))
	}
}

func TestUnknownKeyFallsBack(t *testing.T) {
	assert.Equal(t, "no.such.key", Default().Text("no.such.key"))
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("challenge.prefix_fog: Ordre des préfixes contradictoire\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Ordre des préfixes contradictoire", c.Text(position.MsgPrefixFog))
	assert.Equal(t, Default().Text(position.MsgSuffixFog), c.Text(position.MsgSuffixFog))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- a\n- b\n"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}
