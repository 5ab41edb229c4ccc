package command

import (
	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/abdullathedruid/rctf/internal/expand"
)

// Shared is a primitive available in both grammars.
type Shared interface {
	isShared()
}

// Clear clears the local screen.
type Clear struct{}

// Quit leaves the current grammar: the program at top level, control mode
// inside a session.
type Quit struct{}

// Var reads, lists or sets variables. An empty Name lists all variables.
type Var struct {
	Name     string
	Value    string
	HasValue bool
}

// Help carries usage text that was requested instead of a command.
type Help struct {
	Text string
}

func (Clear) isShared() {}
func (Quit) isShared()  {}
func (Var) isShared()   {}
func (Help) isShared()  {}

// addShared registers the shared primitives on root. quitShort describes what
// exit does in this grammar.
func addShared(root *cobra.Command, quitShort string, set func(Shared)) {
	root.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Clear the screen",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				set(Clear{})
				return nil
			},
		},
		&cobra.Command{
			Use:     "exit",
			Aliases: []string{"quit", "q"},
			Short:   quitShort,
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				set(Quit{})
				return nil
			},
		},
		&cobra.Command{
			Use:                "var [<name> [<value>]]",
			Short:              "List, show or set variables",
			Args:               cobra.RangeArgs(0, 2),
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				v := Var{}
				if len(args) > 0 {
					if !expand.ValidName(args[0]) {
						return errors.Errorf("invalid variable name %q", args[0])
					}
					v.Name = args[0]
				}
				if len(args) > 1 {
					v.Value, v.HasValue = args[1], true
				}
				set(v)
				return nil
			},
		},
	)
}
