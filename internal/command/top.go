package command

import (
	"github.com/spf13/cobra"
)

// Top is a command of the top-level shell.
type Top interface {
	isTop()
}

// SSH opens and attaches a new SSH session. Port 0 means the configured
// default.
type SSH struct {
	User     string
	Host     string
	Password string
	Port     int
}

// Local opens and attaches a shell on this machine. An empty Shell means the
// configured default.
type Local struct {
	Shell string
}

// Session attaches an existing session by index or name. An empty Target
// lists sessions.
type Session struct {
	Target string
}

// TopShared wraps a shared primitive used at top level.
type TopShared struct {
	Shared
}

func (SSH) isTop()       {}
func (Local) isTop()     {}
func (Session) isTop()   {}
func (TopShared) isTop() {}

// ParseTop parses one top-level line. A blank line yields a nil command.
func ParseTop(line string, expand ExpandFunc) (Top, error) {
	args, err := tokens(line, expand, nil)
	if err != nil || len(args) == 0 {
		return nil, err
	}

	var result Top
	root := &cobra.Command{
		Use:   "rctf",
		Short: "Manage remote shell sessions",
	}

	var ssh SSH
	sshCmd := &cobra.Command{
		Use:   "ssh <username> <hostname>",
		Short: "Connect to a host over SSH",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ssh.User, ssh.Host = args[0], args[1]
			result = ssh
			return nil
		},
	}
	sshCmd.Flags().StringVarP(&ssh.Password, "password", "p", "", "password to authenticate with")
	sshCmd.Flags().IntVarP(&ssh.Port, "port", "P", 0, "port to connect to")

	root.AddCommand(
		sshCmd,
		&cobra.Command{
			Use:   "local [shell]",
			Short: "Start a shell on this machine",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				l := Local{}
				if len(args) == 1 {
					l.Shell = args[0]
				}
				result = l
				return nil
			},
		},
		&cobra.Command{
			Use:   "session [<name>|<index>]",
			Short: "List sessions or attach one",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s := Session{}
				if len(args) == 1 {
					s.Target = args[0]
				}
				result = s
				return nil
			},
		},
	)
	addShared(root, "Exit rctf", func(s Shared) { result = TopShared{s} })

	text, err := execute(root, args)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return TopShared{Help{Text: text}}, nil
	}
	return result, nil
}
