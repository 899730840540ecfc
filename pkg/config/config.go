// Package config resolves the settings of an amalgamation run from built-in
// defaults, an optional HCL file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
)

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "singleinclude.hcl"

// Environment variables consulted by Load.
const (
	EnvRoot    = "SINGLEINCLUDE_ROOT"
	EnvEntry   = "SINGLEINCLUDE_ENTRY"
	EnvOutput  = "SINGLEINCLUDE_OUTPUT"
	EnvTree    = "SINGLEINCLUDE_TREE"
	EnvOnce    = "SINGLEINCLUDE_ONCE"
	EnvExclude = "SINGLEINCLUDE_EXCLUDE"
	EnvDebug   = "SINGLEINCLUDE_DEBUG"
)

// Config holds the resolved settings.
type Config struct {
	Root    string   // Source root directory.
	Entry   string   // Entry file, relative to Root.
	Output  string   // Merged output file.
	Tree    string   // Optional include tree report.
	Once    bool     // Expand each file at most once.
	Exclude []string // Include targets to keep as directives.
	Debug   bool     // Development logging.
}

// FileConfig mirrors the attributes accepted in the HCL file.
type FileConfig struct {
	Root    string   `hcl:"root,optional"`
	Entry   string   `hcl:"entry,optional"`
	Output  string   `hcl:"output,optional"`
	Tree    string   `hcl:"tree,optional"`
	Once    bool     `hcl:"once,optional"`
	Exclude []string `hcl:"exclude,optional"`
	Debug   bool     `hcl:"debug,optional"`
}

// Default returns the conventional root, entry and output triple.
func Default() Config {
	return Config{
		Root:   "HippoMocks",
		Entry:  "hippomocks.h",
		Output: filepath.Join("SingleInclude", "hippomocks.h"),
	}
}

// Load layers defaults, the HCL file at path and the environment. A missing
// file is an error only when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFile
	}
	fc, err := DecodeFile(path)
	switch {
	case err == nil:
		cfg.merge(fc)
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return Config{}, err
	}

	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecodeFile parses and decodes an HCL config file.
func DecodeFile(path string) (*FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", path, diags.Error())
	}

	var fc FileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", path, diags.Error())
	}
	return &fc, nil
}

func (c *Config) merge(fc *FileConfig) {
	if fc.Root != "" {
		c.Root = fc.Root
	}
	if fc.Entry != "" {
		c.Entry = fc.Entry
	}
	if fc.Output != "" {
		c.Output = fc.Output
	}
	if fc.Tree != "" {
		c.Tree = fc.Tree
	}
	if fc.Once {
		c.Once = true
	}
	if fc.Debug {
		c.Debug = true
	}
	c.Exclude = append(c.Exclude, fc.Exclude...)
}

func (c *Config) applyEnv() error {
	for env, dst := range map[string]*string{
		EnvRoot:   &c.Root,
		EnvEntry:  &c.Entry,
		EnvOutput: &c.Output,
		EnvTree:   &c.Tree,
	} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}
	for env, dst := range map[string]*bool{
		EnvOnce:  &c.Once,
		EnvDebug: &c.Debug,
	} {
		v := strings.TrimSpace(os.Getenv(env))
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env, err)
		}
		*dst = b
	}
	if v := os.Getenv(EnvExclude); v != "" {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Exclude = append(c.Exclude, p)
			}
		}
	}
	return nil
}

// Validate checks the settings are usable for a run.
func (c Config) Validate() error {
	switch {
	case c.Root == "":
		return errors.New("source root must not be empty")
	case c.Entry == "":
		return errors.New("entry file must not be empty")
	case c.Output == "":
		return errors.New("output file must not be empty")
	case filepath.IsAbs(c.Entry):
		return fmt.Errorf("entry file %s must be relative to the source root", c.Entry)
	}
	return nil
}
