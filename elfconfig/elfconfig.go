// Package elfconfig loads the optional YAML configuration file the
// elfboot command accepts, covering settings that don't belong on the
// command line because they're either long-lived (a default search
// path) or too numerous to spell out as flags every run.
package elfconfig

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quietside/elfboot/loaderror"
)

// Config is the full set of settings the elfboot command can take from
// a config file, with command-line flags always taking precedence over
// whatever a file sets.
type Config struct {
	// Disassemble enables the entry-point disassembly preview by default.
	Disassemble bool `yaml:"disassemble"`

	// DisassembleCount is how many instructions the preview decodes.
	DisassembleCount int `yaml:"disassemble_count"`

	// SearchPaths is the search_paths list from the file. The elfboot
	// command does not read it: its path argument is always opened as
	// given.
	SearchPaths []string `yaml:"search_paths"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{DisassembleCount: 10}
}

// Load reads and parses the YAML document at path.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, loaderror.Wrap(loaderror.KindOpen, "failed to read config file", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, loaderror.Wrap(loaderror.KindFormat, "failed to parse config file", err)
	}

	return cfg, nil
}
