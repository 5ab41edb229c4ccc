// Package command parses the two line grammars: the top-level shell and the
// control mode of an attached session. Both embed a common set of shared
// primitives.
package command

import (
	"bytes"

	"github.com/go-errors/errors"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

var (
	// ErrInvalidQuoting is returned for unterminated quotes or escapes.
	ErrInvalidQuoting = errors.New("invalid quoting")
	// ErrParse is returned for unknown commands and bad arguments.
	ErrParse = errors.New("parse error")
)

// ExpandFunc rewrites a single argument before it is parsed.
type ExpandFunc func(string) (string, error)

// Tokenize splits line into words using POSIX shell quoting rules.
func Tokenize(line string) ([]string, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, errors.Errorf("%w: %v", ErrInvalidQuoting, err)
	}
	return words, nil
}

// tokens tokenizes line and expands every argument after the command name,
// unless the command is listed in raw.
func tokens(line string, expand ExpandFunc, raw map[string]bool) ([]string, error) {
	words, err := Tokenize(line)
	if err != nil || len(words) == 0 || expand == nil || raw[words[0]] {
		return words, err
	}
	for i := 1; i < len(words); i++ {
		if words[i], err = expand(words[i]); err != nil {
			return nil, err
		}
	}
	return words, nil
}

// execute runs root over args and returns whatever it printed. Help output
// is not an error.
func execute(root *cobra.Command, args []string) (string, error) {
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	root.SilenceErrors = true
	root.SilenceUsage = true
	root.CompletionOptions.DisableDefaultCmd = true

	if _, err := root.ExecuteC(); err != nil {
		return "", errors.Errorf("%w: %v", ErrParse, err)
	}
	return out.String(), nil
}
