// Package ignore matches include targets against gitignore-style patterns.
// A matching target is left as a directive instead of being inlined.
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/woozymasta/pathrules"
	"go.uber.org/zap"
)

// FileName is the pattern file looked up in the source root.
const FileName = ".singleincludeignore"

// Pattern describes one compiled rule and where it came from.
type Pattern struct {
	Line   string // Pattern text as written, without the negation prefix.
	Negate bool   // Indicates if the pattern is a negation (starts with '!').
	Source string // File the pattern came from; empty for inline patterns.
}

// Patterns is an ordered list of rules; the last match wins.
type Patterns struct {
	rules    []pathrules.Rule
	patterns []*Pattern
	matcher  *pathrules.Matcher
	logger   *zap.Logger
}

// New returns an empty pattern list.
func New(logger *zap.Logger) *Patterns {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Patterns{logger: logger}
}

// Load compiles the pattern file in root, if present, followed by extra.
func Load(root string, extra []string, logger *zap.Logger) (*Patterns, error) {
	p := New(logger)
	if root != "" {
		if err := p.CompileFile(filepath.Join(root, FileName)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if err := p.CompileLines("", extra...); err != nil {
		return nil, err
	}
	p.logger.Debug("Loaded include exclusion patterns", zap.Int("totalPatterns", p.Len()))
	return p, nil
}

// CompileLines parses pattern lines attributed to source and adds them.
func (p *Patterns) CompileLines(source string, lines ...string) error {
	rules, err := pathrules.ParseRulesString(strings.Join(lines, "\n"), pathrules.ParseOptions{})
	if err != nil {
		return fmt.Errorf("failed to parse exclusion patterns: %w", err)
	}
	return p.add(source, rules)
}

// CompileFile reads a pattern file and adds its rules.
func (p *Patterns) CompileFile(path string) error {
	rules, err := pathrules.LoadRulesFile(path, pathrules.ParseOptions{})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Debug("Pattern file does not exist and will be skipped", zap.String("filePath", path))
		} else {
			p.logger.Error("Failed to read pattern file", zap.String("filePath", path), zap.Error(err))
		}
		return err
	}
	return p.add(path, rules)
}

// add anchors and compiles rules, replacing the matcher only on success.
func (p *Patterns) add(source string, rules []pathrules.Rule) error {
	if len(rules) == 0 {
		return nil
	}

	next := append([]pathrules.Rule(nil), p.rules...)
	var added []*Pattern
	for _, rule := range rules {
		added = append(added, &Pattern{
			Line:   rule.Pattern,
			Negate: rule.Action == pathrules.ActionInclude,
			Source: source,
		})
		rule.Pattern = anchorPattern(rule.Pattern)
		next = append(next, rule)
	}

	matcher, err := pathrules.NewMatcher(next, pathrules.MatcherOptions{})
	if err != nil {
		p.logger.Error("Invalid exclusion pattern", zap.String("source", source), zap.Error(err))
		return fmt.Errorf("failed to compile exclusion patterns: %w", err)
	}

	p.rules = next
	p.patterns = append(p.patterns, added...)
	p.matcher = matcher
	for _, ip := range added {
		p.logger.Debug("Compiled exclusion pattern",
			zap.String("source", ip.Source),
			zap.String("pattern", ip.Line),
			zap.Bool("negate", ip.Negate))
	}
	return nil
}

// anchorPattern roots a pattern with a slash before its last character,
// as git does. "**/" prefixes already match at any depth.
func anchorPattern(pattern string) string {
	if strings.HasPrefix(pattern, "/") || strings.HasPrefix(pattern, "**/") {
		return pattern
	}
	if strings.Contains(strings.TrimSuffix(pattern, "/"), "/") {
		return "/" + pattern
	}
	return pattern
}

// Len returns the number of compiled patterns.
func (p *Patterns) Len() int {
	return len(p.patterns)
}

// MatchesPath reports whether the include target path is excluded.
func (p *Patterns) MatchesPath(path string) bool {
	matches, _ := p.MatchesPathWithPattern(path)
	return matches
}

// MatchesPathWithPattern reports whether path is excluded and returns the
// last pattern that matched it, negations included.
func (p *Patterns) MatchesPathWithPattern(path string) (bool, *Pattern) {
	if p.matcher == nil {
		return false, nil
	}
	res := p.matcher.Decide(filepath.ToSlash(path), false)
	if !res.Matched {
		return false, nil
	}
	return !res.Included, p.patterns[res.RuleIndex]
}
