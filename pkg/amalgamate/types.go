// File: pkg/amalgamate/types.go
package amalgamate

import "time"

// Matcher reports whether an include target must be left as a directive.
// *ignore.Patterns satisfies it.
type Matcher interface {
	MatchesPath(path string) bool
}

// Options holds the configuration of a single amalgamation run.
type Options struct {
	Root    string           // Source root every quoted include is resolved against.
	Entry   string           // Entry file, relative to Root.
	Output  string           // Destination of the merged file; parent directories are created.
	Tree    string           // Optional destination of the rendered include tree.
	Exclude Matcher          // Optional; matching include targets are passed through verbatim.
	Once    bool             // Expand each file at most once per run.
	Now     func() time.Time // Clock for the header timestamp; time.Now when nil.
}

// NodeKind classifies how an include directive was handled.
type NodeKind int

const (
	NodeExpanded   NodeKind = iota // the file was inlined
	NodeUnresolved                 // target not found under the root, directive kept
	NodeExcluded                   // target matched an exclude pattern, directive kept
	NodeSkipped                    // already expanded earlier in a Once run
)

// Node is one entry of the include hierarchy produced by an expansion.
type Node struct {
	Target   string   // Path as written in the directive; empty for the entry file.
	Path     string   // Slash-separated path as opened, root included.
	Kind     NodeKind // How the directive was handled.
	Children []*Node  // Directives encountered inside this file, in source order.
}

// Result summarizes an expansion.
type Result struct {
	Tree  *Node // Include hierarchy rooted at the entry file.
	Lines int   // Number of lines written, markers included.
	Files int   // Number of files expanded, repeats included.
}

// Constants
const (
	TimestampLayout = "2006-01-02 15:04:05.000000"
	Trailer         = "#endif"
)
