package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from SINGLEINCLUDE_* variables and any .env file.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{EnvRoot, EnvEntry, EnvOutput, EnvTree, EnvOnce, EnvExclude, EnvDebug} {
		t.Setenv(env, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", false)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "HippoMocks", cfg.Root)
	assert.Equal(t, "hippomocks.h", cfg.Entry)
	assert.Equal(t, filepath.Join("SingleInclude", "hippomocks.h"), cfg.Output)
	require.NoError(t, cfg.Validate())
}

func TestLoad_HCLFile(t *testing.T) {
	clearEnv(t)
	hcl := `
root    = "include"
entry   = "lib.h"
output  = "dist/lib.h"
tree    = "debug/tree.txt"
once    = true
exclude = ["detail/oldtuple.h", "gen/"]
`
	require.NoError(t, os.WriteFile(DefaultFile, []byte(hcl), 0o644))

	cfg, err := Load("", false)
	require.NoError(t, err)

	assert.Equal(t, Config{
		Root:    "include",
		Entry:   "lib.h",
		Output:  "dist/lib.h",
		Tree:    "debug/tree.txt",
		Once:    true,
		Exclude: []string{"detail/oldtuple.h", "gen/"},
	}, cfg)
}

func TestLoad_PartialHCLKeepsDefaults(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile("custom.hcl", []byte(`output = "out/one.h"`), 0o644))

	cfg, err := Load("custom.hcl", true)
	require.NoError(t, err)

	assert.Equal(t, "HippoMocks", cfg.Root)
	assert.Equal(t, "out/one.h", cfg.Output)
}

func TestLoad_RequiredFileMissing(t *testing.T) {
	clearEnv(t)

	_, err := Load("absent.hcl", true)

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoad_InvalidHCL(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(DefaultFile, []byte(`root = `), 0o644))

	_, err := Load("", false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")
}

func TestLoad_UnknownAttribute(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(DefaultFile, []byte(`color = "blue"`), 0o644))

	_, err := Load("", false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode HCL file")
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(DefaultFile, []byte(`root = "from-file"`), 0o644))
	t.Setenv(EnvRoot, "from-env")
	t.Setenv(EnvOnce, "true")
	t.Setenv(EnvExclude, "a.h, b/ ,")

	cfg, err := Load("", false)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Root)
	assert.True(t, cfg.Once)
	assert.Equal(t, []string{"a.h", "b/"}, cfg.Exclude)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvEntry)
	require.NoError(t, os.WriteFile(".env", []byte(EnvEntry+"=umbrella.h\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv(EnvEntry) })

	cfg, err := Load("", false)
	require.NoError(t, err)

	assert.Equal(t, "umbrella.h", cfg.Entry)
}

func TestLoad_InvalidBoolean(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOnce, "sometimes")

	_, err := Load("", false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvOnce)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"empty root", func(c *Config) { c.Root = "" }, "source root"},
		{"empty entry", func(c *Config) { c.Entry = "" }, "entry file"},
		{"empty output", func(c *Config) { c.Output = "" }, "output file"},
		{"absolute entry", func(c *Config) { c.Entry = filepath.Join(string(filepath.Separator), "abs.h") }, "relative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
