// File: pkg/amalgamate/expand.go
package amalgamate

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// frame is a file currently being expanded.
type frame struct {
	abs     string
	display string
}

// expander carries the state of one expansion through the recursion.
type expander struct {
	w       io.Writer
	root    string
	exclude Matcher
	once    bool
	logger  *zap.Logger

	stack    []frame
	visiting map[string]bool
	expanded map[string]bool

	lines int
	files int
}

// Expand writes the recursive expansion of opts.Entry to w. Only Root, Entry,
// Exclude and Once are consulted. The returned tree mirrors the traversal.
func Expand(w io.Writer, opts Options, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := checkInputs(opts.Root, opts.Entry); err != nil {
		return nil, err
	}

	e := &expander{
		w:        w,
		root:     opts.Root,
		exclude:  opts.Exclude,
		once:     opts.Once,
		logger:   logger,
		visiting: make(map[string]bool),
		expanded: make(map[string]bool),
	}

	entryPath := filepath.Join(opts.Root, opts.Entry)
	tree, err := e.expandFile("", entryPath)
	if err != nil {
		return nil, err
	}
	return &Result{Tree: tree, Lines: e.lines, Files: e.files}, nil
}

// checkInputs verifies the source root is a directory and the entry exists.
func checkInputs(root, entry string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("source root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source root %s is not a directory: %w", root, fs.ErrInvalid)
	}
	if _, err := os.Stat(filepath.Join(root, entry)); err != nil {
		return fmt.Errorf("entry file %s: %w", entry, err)
	}
	return nil
}

// expandFile emits the markers and content of one file, recursing into
// every resolvable include.
func (e *expander) expandFile(target, path string) (*Node, error) {
	display := filepath.ToSlash(path)
	node := &Node{Target: target, Path: display, Kind: NodeExpanded}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", display, err)
	}

	if e.visiting[abs] {
		return nil, e.cycle(abs, display)
	}

	if e.once && e.expanded[abs] {
		e.logger.Debug("Skipping file already included", zap.String("file", display))
		node.Kind = NodeSkipped
		return node, e.emit(fmt.Sprintf("// skipped %s (already included)", display))
	}

	file, err := os.Open(path)
	if err != nil {
		e.logger.Error("Failed to open file", zap.String("file", display), zap.Error(err))
		return nil, fmt.Errorf("failed to open %s: %w", display, err)
	}
	defer file.Close()

	e.logger.Debug("Expanding file", zap.String("file", display), zap.Int("depth", len(e.stack)))
	e.stack = append(e.stack, frame{abs: abs, display: display})
	e.visiting[abs] = true
	e.expanded[abs] = true
	e.files++
	defer func() {
		e.stack = e.stack[:len(e.stack)-1]
		delete(e.visiting, abs)
	}()

	if err := e.emit("// start " + display); err != nil {
		return nil, err
	}

	reader := bufio.NewReader(file)
	for {
		line, readErr := readLine(reader)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read %s: %w", display, readErr)
		}
		if readErr == nil || line != "" {
			child, err := e.processLine(line)
			if err != nil {
				return nil, err
			}
			if child != nil {
				node.Children = append(node.Children, child)
			}
		}
		if readErr != nil {
			break
		}
	}

	if err := e.emit("// end " + display); err != nil {
		return nil, err
	}
	return node, nil
}

// processLine handles one source line. It returns a node when the line is a
// quoted include directive.
func (e *expander) processLine(line string) (*Node, error) {
	target, ok := matchDirective(line)
	if !ok {
		return nil, e.emit(trimTrailing(line))
	}

	if e.exclude != nil && e.exclude.MatchesPath(filepath.ToSlash(target)) {
		e.logger.Debug("Keeping excluded include", zap.String("target", target))
		return &Node{Target: target, Kind: NodeExcluded}, e.emit(trimTrailing(line))
	}

	resolved := filepath.Join(e.root, target)
	if !isRegularFile(resolved) {
		e.logger.Debug("Keeping unresolved include", zap.String("target", target))
		return &Node{Target: target, Path: filepath.ToSlash(resolved), Kind: NodeUnresolved}, e.emit(trimTrailing(line))
	}

	return e.expandFile(target, resolved)
}

// cycle builds the error for re-entering abs while it is still being expanded.
func (e *expander) cycle(abs, display string) error {
	var chain []string
	for i, f := range e.stack {
		if f.abs == abs {
			for _, g := range e.stack[i:] {
				chain = append(chain, g.display)
			}
			break
		}
	}
	chain = append(chain, display)
	e.logger.Error("Include cycle detected", zap.Strings("chain", chain))
	return &CycleError{Chain: chain}
}

// emit appends one line to the output.
func (e *expander) emit(line string) error {
	if _, err := io.WriteString(e.w, line+"\n"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	e.lines++
	return nil
}

// isRegularFile reports whether path names an existing regular file.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
