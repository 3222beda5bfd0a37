package config

import (
	"encoding/json"
	"fmt"
)

// Settings is the effective sync target, merged from three layers at
// read time: baked-in defaults, the env/file config, and the locally
// persisted override slot. A non-empty value in a higher layer always
// wins; empty never shadows a lower layer.
type Settings struct {
	Owner  string `json:"owner,omitempty"`
	Repo   string `json:"repo,omitempty"`
	Branch string `json:"branch,omitempty"`
	Path   string `json:"path,omitempty"`
	Token  string `json:"token,omitempty"`
}

// Configured reports whether the settings identify a writable remote.
func (s Settings) Configured() bool {
	return s.Owner != "" && s.Repo != "" && s.Token != ""
}

// SlotStore is the piece of the snapshot store settings persistence
// needs.
type SlotStore interface {
	SaveSlot(name, body string) error
	LoadSlot(name string) (string, bool, error)
}

// settingsSlot matches snapshot.SlotSettings; kept as a literal so this
// package does not depend on the storage layer.
const settingsSlot = "settings"

// MergeSettings overlays override onto base, field by field.
func MergeSettings(base, override Settings) Settings {
	out := base
	if override.Owner != "" {
		out.Owner = override.Owner
	}
	if override.Repo != "" {
		out.Repo = override.Repo
	}
	if override.Branch != "" {
		out.Branch = override.Branch
	}
	if override.Path != "" {
		out.Path = override.Path
	}
	if override.Token != "" {
		out.Token = override.Token
	}
	return out
}

// LoadSettings resolves the effective settings for cfg, overlaying any
// persisted override. Persistence failures degrade to the config layer;
// a broken local slot must not make the tool unusable.
func LoadSettings(cfg Config, slots SlotStore) Settings {
	base := Settings{
		Owner:  cfg.Sync.Owner,
		Repo:   cfg.Sync.Repo,
		Branch: cfg.Sync.Branch,
		Path:   cfg.Sync.Path,
		Token:  cfg.Sync.Token,
	}
	if slots == nil {
		return base
	}
	body, ok, err := slots.LoadSlot(settingsSlot)
	if err != nil || !ok {
		return base
	}
	var override Settings
	if err := json.Unmarshal([]byte(body), &override); err != nil {
		return base
	}
	return MergeSettings(base, override)
}

// SaveSettings persists s as the local override layer.
func SaveSettings(slots SlotStore, s Settings) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := slots.SaveSlot(settingsSlot, string(body)); err != nil {
		return fmt.Errorf("persisting settings: %w", err)
	}
	return nil
}
