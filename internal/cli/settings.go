package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/pipeviz/pipeviz/pkg/render/mermaid"
)

// Settings are user preferences read from the optional config file at
// $XDG_CONFIG_HOME/pipeviz/config.toml (falling back to ~/.config).
// Every field has a working default, so the file is never required.
type Settings struct {
	Mode          string `toml:"mode"`           // default visualization mode
	Output        string `toml:"output"`         // default output selector
	MermaidConfig string `toml:"mermaid_config"` // Mermaid front-matter config block
	LiveBase      string `toml:"live_base_url"`  // mermaid.live endpoint override
	InkBase       string `toml:"ink_base_url"`   // mermaid.ink endpoint override
	ServeAddr     string `toml:"serve_addr"`     // default listen address for serve
}

// defaultSettings returns the built-in defaults.
func defaultSettings() Settings {
	return Settings{
		Mode:          string(mermaid.ModeDeps),
		Output:        OutputRaw,
		MermaidConfig: mermaid.DefaultConfig,
		ServeAddr:     "localhost:8844",
	}
}

// encoder returns a URL encoder honoring any endpoint overrides.
func (s Settings) encoder() mermaid.URLEncoder {
	return mermaid.URLEncoder{LiveBase: s.LiveBase, InkBase: s.InkBase}
}

// loadSettings reads the user config file, if any, on top of the defaults.
// A missing file is not an error; a malformed one returns the defaults along
// with the parse error so the caller can warn without aborting.
func loadSettings() (Settings, error) {
	s := defaultSettings()

	dir, err := configDir()
	if err != nil {
		return s, nil
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err != nil {
		return s, nil
	}

	loaded := Settings{}
	if _, err := toml.DecodeFile(path, &loaded); err != nil {
		return defaultSettings(), err
	}

	if loaded.Mode != "" {
		s.Mode = loaded.Mode
	}
	if loaded.Output != "" {
		s.Output = loaded.Output
	}
	if loaded.MermaidConfig != "" {
		s.MermaidConfig = loaded.MermaidConfig
	}
	if loaded.LiveBase != "" {
		s.LiveBase = loaded.LiveBase
	}
	if loaded.InkBase != "" {
		s.InkBase = loaded.InkBase
	}
	if loaded.ServeAddr != "" {
		s.ServeAddr = loaded.ServeAddr
	}
	return s, nil
}

// configDir returns the settings directory using the XDG standard
// (~/.config/pipeviz/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
