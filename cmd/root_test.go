package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_RunsAmalgamation(t *testing.T) {
	work := t.TempDir()
	t.Chdir(work)
	require.NoError(t, os.MkdirAll("lib/detail", 0o755))
	require.NoError(t, os.WriteFile("lib/lib.h", []byte("#include \"detail/a.h\"\n#include \"detail/old.h\"\n#include <map>\n"), 0o644))
	require.NoError(t, os.WriteFile("lib/detail/a.h", []byte("int a;\n"), 0o644))
	require.NoError(t, os.WriteFile("lib/detail/old.h", []byte("int old;\n"), 0o644))

	var stdout bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetArgs([]string{
		"--root", "lib",
		"--entry", "lib.h",
		"--output", "dist/lib.h",
		"--tree", "dist/tree.txt",
		"--exclude", "old.h",
	})
	require.NoError(t, Execute())

	out, err := os.ReadFile(filepath.Join("dist", "lib.h"))
	require.NoError(t, err)
	merged := string(out)
	assert.True(t, strings.HasPrefix(merged, "/*\n"))
	assert.Contains(t, merged, "// start lib/detail/a.h\nint a;\n// end lib/detail/a.h\n")
	assert.Contains(t, merged, "#include \"detail/old.h\"\n")
	assert.Contains(t, merged, "#include <map>\n")
	assert.True(t, strings.HasSuffix(merged, "#endif\n\n"))

	tree, err := os.ReadFile(filepath.Join("dist", "tree.txt"))
	require.NoError(t, err)
	assert.Equal(t, "lib/lib.h\n├── detail/a.h\n└── detail/old.h (excluded)\n", string(tree))
	assert.Contains(t, stdout.String(), "Wrote dist/lib.h")
}

func TestVersionCommand_Short(t *testing.T) {
	var stdout bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetArgs([]string{"version", "--short"})

	require.NoError(t, Execute())

	assert.Equal(t, "dev\n", stdout.String())
}
