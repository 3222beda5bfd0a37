package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 8370, cfg.Server.Port)
	require.Equal(t, 14*time.Second, cfg.AttemptTimeout())
	require.Equal(t, 512, cfg.Scraper.MinHTMLBytes)
	require.Equal(t, "main", cfg.Sync.Branch)
	require.Equal(t, "data/recipes.json", cfg.Sync.Path)
	require.Empty(t, cfg.Sync.Token)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
sync:
  owner: alice
  repo: recipes
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "alice", cfg.Sync.Owner)
	require.Equal(t, "main", cfg.Sync.Branch, "unset keys keep defaults")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "server.port")
}

type fakeSlots struct {
	saved map[string]string
	err   error
}

func newFakeSlots() *fakeSlots { return &fakeSlots{saved: map[string]string{}} }

func (f *fakeSlots) SaveSlot(name, body string) error {
	if f.err != nil {
		return f.err
	}
	f.saved[name] = body
	return nil
}

func (f *fakeSlots) LoadSlot(name string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	body, ok := f.saved[name]
	return body, ok, nil
}

func TestSettingsMergeLayers(t *testing.T) {
	t.Parallel()

	base := Settings{Owner: "baked", Branch: "main", Path: "data/recipes.json"}
	override := Settings{Owner: "alice", Repo: "recipes", Token: "t0ken"}

	got := MergeSettings(base, override)
	require.Equal(t, "alice", got.Owner, "non-empty override wins")
	require.Equal(t, "recipes", got.Repo)
	require.Equal(t, "main", got.Branch, "empty override never shadows")
	require.Equal(t, "data/recipes.json", got.Path)
	require.True(t, got.Configured())
}

func TestLoadSettingsUsesPersistedOverride(t *testing.T) {
	t.Parallel()

	slots := newFakeSlots()
	require.NoError(t, SaveSettings(slots, Settings{Owner: "alice", Repo: "box"}))

	cfg := Config{Sync: SyncConfig{Owner: "baked", Branch: "main", Token: "envtoken"}}
	got := LoadSettings(cfg, slots)

	require.Equal(t, "alice", got.Owner)
	require.Equal(t, "box", got.Repo)
	require.Equal(t, "main", got.Branch)
	require.Equal(t, "envtoken", got.Token, "env token survives the overlay")
}

func TestLoadSettingsDegradesOnBrokenSlot(t *testing.T) {
	t.Parallel()

	slots := newFakeSlots()
	slots.saved[settingsSlot] = "{corrupt"

	cfg := Config{Sync: SyncConfig{Owner: "baked"}}
	require.Equal(t, "baked", LoadSettings(cfg, slots).Owner)

	broken := &fakeSlots{err: os.ErrPermission}
	require.Equal(t, "baked", LoadSettings(cfg, broken).Owner)

	require.Equal(t, "baked", LoadSettings(cfg, nil).Owner)
}
