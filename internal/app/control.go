package app

import (
	"context"
	"io"
	"strconv"

	"github.com/go-errors/errors"

	"github.com/abdullathedruid/rctf/internal/command"
	"github.com/abdullathedruid/rctf/internal/lineedit"
	"github.com/abdullathedruid/rctf/internal/session"
)

// Unnamed is printed by "name" for a session without a name.
const Unnamed = "This session is currently unnamed."

// runControl is the control-mode prompt for the session at index. It reads
// lines until one of them yields an action for the manager. Command errors
// are printed and the prompt is shown again.
func (a *App) runControl(ctx context.Context, index int, sess session.Session) (session.Action, error) {
	a.printer.Println()
	for {
		prompt := a.printer.ControlPrompt(a.config.ControlPrompt, label(index, sess))
		line, err := a.control.ReadLine(ctx, prompt, a.keys)
		switch {
		case err == nil:
		case errors.Is(err, lineedit.ErrAborted):
			continue
		case errors.Is(err, lineedit.ErrEscaped), errors.Is(err, io.EOF):
			return session.Resume{}, nil
		default:
			return nil, err
		}

		action, err := a.handleControl(index, sess, line)
		if err != nil {
			a.printer.Error(err)
			continue
		}
		if action != nil {
			return action, nil
		}
	}
}

// handleControl runs one control-mode line. A nil action keeps the prompt.
func (a *App) handleControl(index int, sess session.Session, line string) (session.Action, error) {
	cmd, err := command.ParseControl(line, a.expander.Expand)
	if err != nil {
		return nil, err
	}

	switch c := cmd.(type) {
	case command.Background:
		return session.Detach{}, nil
	case command.Name:
		if c.Set {
			if err := a.manager.Rename(index, c.NewName); err != nil {
				return nil, err
			}
		}
		if name := sess.Name(); name != "" {
			a.printer.Println(name)
		} else {
			a.printer.Println(Unnamed)
		}
	case command.Printf:
		text, err := a.expander.Expand(c.Format)
		if err != nil {
			return nil, err
		}
		return session.SendText{Text: text}, nil
	case command.ControlShared:
		if a.handleShared(c.Shared) {
			return session.Resume{}, nil
		}
	}
	return nil, nil
}

// label identifies a session in the control prompt.
func label(index int, sess session.Session) string {
	if name := sess.Name(); name != "" {
		return name
	}
	return strconv.Itoa(index)
}
