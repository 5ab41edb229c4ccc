package expand

import (
	"strings"

	"github.com/go-errors/errors"
)

// DefaultMaxDepth bounds nested variable references.
const DefaultMaxDepth = 32

var (
	// ErrUndefinedVariable is returned when a reference names an unset variable.
	ErrUndefinedVariable = errors.New("undefined variable")
	// ErrRecursionLimit is returned when references nest deeper than MaxDepth,
	// which is how a self-referential variable surfaces.
	ErrRecursionLimit = errors.New("variable expansion too deep")
)

// Expander substitutes #name and #{name} references with values from a Store.
//
// Expansion is a single left-to-right pass:
//   - \n, \r and \t become newline, carriage return and tab
//   - \\ becomes \ and \# becomes a literal #
//   - any other backslash is kept as is
//   - #name and #{name} are replaced by the expanded value of name, where
//     name is a letter followed by letters, digits or underscores
type Expander struct {
	Store    *Store
	MaxDepth int
}

// New returns an Expander over store with the default depth limit.
func New(store *Store) *Expander {
	return &Expander{Store: store, MaxDepth: DefaultMaxDepth}
}

// Expand returns text with escapes and variable references resolved.
func (e *Expander) Expand(text string) (string, error) {
	return e.expand(text, 0)
}

func (e *Expander) expand(text string, depth int) (string, error) {
	if depth > e.MaxDepth {
		return "", errors.Errorf("%w: more than %d levels", ErrRecursionLimit, e.MaxDepth)
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '\\' && i+1 < len(text):
			if r, ok := escapes[text[i+1]]; ok {
				b.WriteByte(r)
				i += 2
				continue
			}
			b.WriteByte(c)
			i++
		case c == '#':
			name, n := reference(text[i:])
			if n == 0 {
				b.WriteByte(c)
				i++
				continue
			}
			value, ok := e.Store.Get(name)
			if !ok {
				return "", errors.Errorf("%w: %s", ErrUndefinedVariable, name)
			}
			expanded, err := e.expand(value, depth+1)
			if err != nil {
				return "", err
			}
			b.WriteString(expanded)
			i += n
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

var escapes = map[byte]byte{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'\\': '\\',
	'#':  '#',
}

// reference parses "#name" or "#{name}" at the start of s and returns the
// name and the number of bytes consumed, or 0 if s holds no reference.
func reference(s string) (string, int) {
	if len(s) < 2 {
		return "", 0
	}
	if s[1] == '{' {
		end := strings.IndexByte(s, '}')
		if end < 0 || !ValidName(s[2:end]) {
			return "", 0
		}
		return s[2:end], end + 1
	}
	n := 1
	for n < len(s) && isWordByte(s[n], n == 1) {
		n++
	}
	if n == 1 {
		return "", 0
	}
	return s[1:n], n
}

// ValidName reports whether name can be referenced: a letter followed by
// letters, digits or underscores.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isWordByte(name[i], i == 0) {
			return false
		}
	}
	return true
}

func isWordByte(c byte, first bool) bool {
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
		return true
	}
	if first {
		return false
	}
	return c >= '0' && c <= '9' || c == '_'
}
