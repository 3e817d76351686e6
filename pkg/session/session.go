// Package session manages per-user configuration and data directories.
//
// A Session owns nothing the expression core depends on; it only resolves
// where the config file and the history archives live, and loads the
// session configuration (currently the decimal precision) from a TOML file,
// creating a commented default on first run.
package session

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// DefaultDecimalPlaces is the rendering precision used until the config
// file says otherwise.
const DefaultDecimalPlaces = 6

const (
	appDir         = "ratcrunch"
	configFileName = "session.toml"
)

const defaultConfigTOML = `# Auto generated session config

decimal_places = 6
`

// Config is the on-disk session configuration.
type Config struct {
	DecimalPlaces int `toml:"decimal_places"`
}

// Session holds the resolved directories and loaded configuration.
type Session struct {
	ConfigDir     string
	DataDir       string
	DecimalPlaces int
}

// New resolves the session under the user's config directory. Call Init
// before use.
func New() (*Session, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.Wrap(err, "resolving user config dir")
	}
	root := filepath.Join(base, appDir)
	return NewAt(root, filepath.Join(root, "data")), nil
}

// NewAt builds a session over explicit directories. Tests point this at
// temporary dirs and Purge afterwards.
func NewAt(configDir, dataDir string) *Session {
	return &Session{
		ConfigDir:     configDir,
		DataDir:       dataDir,
		DecimalPlaces: DefaultDecimalPlaces,
	}
}

// Init creates the directories if needed, writes a default config file on
// first run, and loads the configuration.
func (s *Session) Init() error {
	if err := os.MkdirAll(s.ConfigDir, 0o755); err != nil {
		return errors.Wrap(err, "creating config dir")
	}
	if err := os.MkdirAll(s.DataDir, 0o755); err != nil {
		return errors.Wrap(err, "creating data dir")
	}
	path := s.ConfigFilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if werr := os.WriteFile(path, []byte(defaultConfigTOML), 0o644); werr != nil {
			return errors.Wrap(werr, "writing default config")
		}
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return errors.Wrapf(err, "loading config %s", path)
	}
	if cfg.DecimalPlaces >= 0 {
		s.DecimalPlaces = cfg.DecimalPlaces
	}
	return nil
}

// ConfigFilePath returns the path of the session config file.
func (s *Session) ConfigFilePath() string {
	return filepath.Join(s.ConfigDir, configFileName)
}

// Purge removes the session's directories and everything in them. Intended
// for tests.
func (s *Session) Purge() error {
	if err := os.RemoveAll(s.ConfigDir); err != nil {
		return errors.Wrap(err, "removing config dir")
	}
	if err := os.RemoveAll(s.DataDir); err != nil {
		return errors.Wrap(err, "removing data dir")
	}
	return nil
}
