package elfconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"

	"github.com/quietside/elfboot/elfconfig"
)

type ElfConfigSuite struct{}

func TestElfConfig(t *testing.T) {
	suite.RunTests(t, &ElfConfigSuite{})
}

func (ElfConfigSuite) TestDefaultHasTenInstructionPreview(t *testing.T) {
	cfg := elfconfig.Default()
	expect.Equal(t, 10, cfg.DisassembleCount)
	expect.False(t, cfg.Disassemble)
}

func (ElfConfigSuite) TestLoadParsesYamlAndFillsInDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "elfboot.yaml")

	err := os.WriteFile(path, []byte("disassemble: true\nsearch_paths:\n  - /usr/bin\n"), 0o644)
	expect.Nil(t, err)

	cfg, err := elfconfig.Load(path)
	expect.Nil(t, err)
	expect.True(t, cfg.Disassemble)
	expect.Equal(t, 10, cfg.DisassembleCount)
	expect.Equal(t, []string{"/usr/bin"}, cfg.SearchPaths)
}

func (ElfConfigSuite) TestLoadMissingFileFails(t *testing.T) {
	_, err := elfconfig.Load("/nonexistent/elfboot.yaml")
	expect.NotNil(t, err)
}
