package amalgamate

import (
	"bufio"
	"regexp"
	"strings"
	"unicode"
)

// includePattern recognizes a quoted include at the start of a line. Angle
// bracket includes never match.
var includePattern = regexp.MustCompile(`^\s*#\s*include\s*"(.*)"`)

// matchDirective returns the quoted path of an include directive.
func matchDirective(line string) (string, bool) {
	m := includePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// trimTrailing strips trailing Unicode whitespace.
func trimTrailing(line string) string {
	return strings.TrimRightFunc(line, unicode.IsSpace)
}

// readLine returns the next line without its terminator. "\n", "\r\n" and a
// lone "\r" all end a line. At end of input it returns the unterminated
// remainder, possibly empty, with io.EOF.
func readLine(r *bufio.Reader) (string, error) {
	var b strings.Builder
	for {
		c, err := r.ReadByte()
		if err != nil {
			return b.String(), err
		}
		switch c {
		case '\n':
			return b.String(), nil
		case '\r':
			if next, err := r.Peek(1); err == nil && next[0] == '\n' {
				_, _ = r.ReadByte()
			}
			return b.String(), nil
		}
		b.WriteByte(c)
	}
}
