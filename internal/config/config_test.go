package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Address)
	require.Equal(t, "massimino", cfg.Database.Name)

	// The moderation word lists must be populated out of the box, otherwise
	// the content policy can never reject anything.
	require.NotEmpty(t, cfg.Moderation.Blocked)
	require.NotEmpty(t, cfg.Moderation.Flagged)
}

func TestLoadConfig_FileOverridesModerationLists(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("moderation:\n  blocked:\n    - badword\n  flagged:\n    - borderline\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"badword"}, cfg.Moderation.Blocked)
	require.Equal(t, []string{"borderline"}, cfg.Moderation.Flagged)
}
