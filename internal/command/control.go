package command

import (
	"strings"

	"github.com/spf13/cobra"
)

// Control is a command of control mode.
type Control interface {
	isControl()
}

// Background detaches from the session and leaves it running.
type Background struct{}

// Name shows the session name, or renames it when Set is true.
type Name struct {
	NewName string
	Set     bool
}

// Printf sends Format to the session after variable expansion.
type Printf struct {
	Format string
}

// ControlShared wraps a shared primitive used in control mode.
type ControlShared struct {
	Shared
}

func (Background) isControl()    {}
func (Name) isControl()          {}
func (Printf) isControl()        {}
func (ControlShared) isControl() {}

// printf expands its own format, so its arguments are passed through raw.
var rawControl = map[string]bool{"printf": true}

// ParseControl parses one control-mode line. A blank line yields a nil
// command.
func ParseControl(line string, expand ExpandFunc) (Control, error) {
	args, err := tokens(line, expand, rawControl)
	if err != nil || len(args) == 0 {
		return nil, err
	}

	var result Control
	root := &cobra.Command{
		Use:   "termcraft",
		Short: "Control the attached session",
	}
	root.AddCommand(
		&cobra.Command{
			Use:     "bg",
			Aliases: []string{"background"},
			Short:   "Detach and keep the session running",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				result = Background{}
				return nil
			},
		},
		&cobra.Command{
			Use:                "name [<new-name>]",
			Short:              "Show or change the session name",
			Args:               cobra.MaximumNArgs(1),
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				n := Name{}
				if len(args) == 1 {
					n.NewName, n.Set = args[0], true
				}
				result = n
				return nil
			},
		},
		&cobra.Command{
			Use:                "printf <format-string>",
			Short:              "Expand variables in the text and send it",
			Args:               cobra.MinimumNArgs(1),
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				result = Printf{Format: strings.Join(args, " ")}
				return nil
			},
		},
	)
	addShared(root, "Return to the session", func(s Shared) { result = ControlShared{s} })

	text, err := execute(root, args)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return ControlShared{Help{Text: text}}, nil
	}
	return result, nil
}
