// Package app provides the main application orchestration for rctf.
package app

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-errors/errors"

	"github.com/abdullathedruid/rctf/internal/command"
	"github.com/abdullathedruid/rctf/internal/config"
	"github.com/abdullathedruid/rctf/internal/expand"
	"github.com/abdullathedruid/rctf/internal/history"
	"github.com/abdullathedruid/rctf/internal/input"
	"github.com/abdullathedruid/rctf/internal/lineedit"
	"github.com/abdullathedruid/rctf/internal/localshell"
	"github.com/abdullathedruid/rctf/internal/session"
	"github.com/abdullathedruid/rctf/internal/sshsession"
	"github.com/abdullathedruid/rctf/internal/terminal"
	"github.com/abdullathedruid/rctf/internal/ui"
)

// History names, also used as file names by the history store.
const (
	TopHistory     = "rctf"
	ControlHistory = "termcraft"
)

// App is the main application.
type App struct {
	config     *config.Config
	logger     *log.Logger
	controlKey input.Event

	in      io.Reader
	out     io.Writer
	term    *terminal.Terminal
	printer *terminal.Printer

	vars      *expand.Store
	expander  *expand.Expander
	histories *history.Store
	top       *lineedit.Editor
	control   *lineedit.Editor

	keys    <-chan input.Event
	manager *session.Manager

	// newSession builds the session for an "ssh" or "local" command.
	newSession func(cmd command.Top, opts session.Options) session.Session
}

// New creates an App reading keys from in and writing to out. When in is a
// terminal it is switched to raw mode for the duration of Run.
func New(cfg *config.Config, logger *log.Logger, in io.Reader, out io.Writer) (*App, error) {
	controlKey, err := cfg.ControlEvent()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	local := terminal.NewWriter(out)
	vars := expand.NewStore()
	a := &App{
		config:     cfg,
		logger:     logger,
		controlKey: controlKey,
		in:         in,
		out:        out,
		printer:    terminal.NewPrinter(local, nil),
		vars:       vars,
		expander:   expand.New(vars),
		histories:  history.NewStore(cfg.HistoryDir()),
		top:        lineedit.New(local, history.New(cfg.HistoryLimit)),
		control:    lineedit.New(local, history.New(cfg.HistoryLimit)),
	}
	if f, ok := in.(*os.File); ok {
		a.term = terminal.New(f)
	}
	a.newSession = a.buildSession
	return a, nil
}

// Variables returns the variable store used for expansion.
func (a *App) Variables() *expand.Store {
	return a.vars
}

// Run runs the top-level shell until exit, Ctrl-D or the end of input.
// Every session still open is closed before Run returns.
func (a *App) Run(ctx context.Context) error {
	restore, err := a.enableRaw()
	if err != nil {
		return err
	}
	defer restore()

	a.loadHistories()
	defer a.saveHistories()

	kb := input.NewKeyboard(a.in)
	a.keys = kb.Events()
	a.manager = session.NewManager(a.keys, a.out, a.runControl, a.logger)
	defer a.manager.CloseAll()

	a.logger.Info("rctf started", "mode", a.manager.Mode(), "control_key", config.KeyToString(a.controlKey))
	for {
		line, err := a.top.ReadLine(ctx, a.printer.Prompt(a.config.Prompt), a.keys)
		switch {
		case err == nil:
		case errors.Is(err, lineedit.ErrAborted), errors.Is(err, lineedit.ErrEscaped):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, lineedit.ErrInputClosed):
			if kbErr := kb.Err(); kbErr != nil && !errors.Is(kbErr, io.EOF) {
				return errors.WrapPrefix(kbErr, "read input", 0)
			}
			return nil
		default:
			return err
		}

		quit, err := a.handleTop(ctx, line)
		if err != nil {
			a.printer.Error(err)
		}
		if quit {
			a.logger.Info("rctf exiting", "sessions", a.manager.Len())
			return nil
		}
	}
}

func (a *App) enableRaw() (func(), error) {
	if a.term == nil {
		return func() {}, nil
	}
	return a.term.EnableRaw()
}

func (a *App) loadHistories() {
	for name, ed := range a.editors() {
		if err := a.histories.Load(name, ed.History()); err != nil {
			a.logger.Warn("load history", "name", name, "err", err)
		}
	}
}

func (a *App) saveHistories() {
	for name, ed := range a.editors() {
		if err := a.histories.Save(name, ed.History()); err != nil {
			a.logger.Warn("save history", "name", name, "err", err)
		}
	}
}

func (a *App) editors() map[string]*lineedit.Editor {
	return map[string]*lineedit.Editor{
		TopHistory:     a.top,
		ControlHistory: a.control,
	}
}

// handleTop runs one top-level line. quit is true when the program should
// end.
func (a *App) handleTop(ctx context.Context, line string) (quit bool, err error) {
	cmd, err := command.ParseTop(line, a.expander.Expand)
	if err != nil {
		return false, err
	}

	switch c := cmd.(type) {
	case nil:
		return false, nil
	case command.SSH, command.Local:
		return false, a.start(ctx, a.newSession(c, a.sessionOptions()))
	case command.Session:
		if c.Target == "" {
			a.listSessions()
			return false, nil
		}
		return false, a.resume(ctx, selection(c.Target))
	case command.TopShared:
		return a.handleShared(c.Shared), nil
	}
	return false, nil
}

// buildSession creates the transport for an "ssh" or "local" command.
func (a *App) buildSession(cmd command.Top, opts session.Options) session.Session {
	switch c := cmd.(type) {
	case command.SSH:
		port := c.Port
		if port == 0 {
			port = a.config.DefaultPort
		}
		return sshsession.New(sshsession.Settings{
			User:     c.User,
			Host:     c.Host,
			Password: c.Password,
			Port:     port,
		}, opts)
	case command.Local:
		shell := c.Shell
		if shell == "" {
			shell = a.config.Shell
		}
		return localshell.New(shell, opts)
	}
	return nil
}

func (a *App) sessionOptions() session.Options {
	opts := session.DefaultOptions()
	opts.ControlKey = a.controlKey
	opts.ResetDelay = a.config.ResetDelay
	opts.TermType = a.config.TermType
	if a.term != nil {
		opts.Cols, opts.Rows = a.term.Size()
	}
	opts.Logger = a.logger
	return opts
}

func (a *App) start(ctx context.Context, sess session.Session) error {
	index, outcome, err := a.manager.Start(ctx, sess)
	if index < 0 {
		return err
	}
	return a.report(index, outcome, err)
}

func (a *App) resume(ctx context.Context, sel session.Selection) error {
	index, outcome, err := a.manager.Resume(ctx, sel)
	if index < 0 {
		return err
	}
	return a.report(index, outcome, err)
}

// report prints how a session turn ended. Errors are returned for the
// caller to print.
func (a *App) report(index int, outcome session.Outcome, err error) error {
	switch outcome {
	case session.Backgrounded:
		if err == nil {
			a.printer.Notice("Session %d is running in the background.", index)
		}
	case session.Closed:
		a.printer.Println()
		if err == nil {
			a.printer.Notice("Session %d closed. %s", index, session.Status(0))
		}
	}
	return err
}

func (a *App) listSessions() {
	infos := a.manager.List()
	rows := make([]ui.SessionRow, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, ui.SessionRow{Index: info.Index, Type: info.Type, Name: info.Name})
	}
	a.printer.Println(ui.SessionTable(a.printer.Renderer(), rows))
}

// selection treats a purely numeric target as an index and anything else
// as a name.
func selection(target string) session.Selection {
	if index, err := strconv.Atoi(target); err == nil && index >= 0 {
		return session.ByIndex(index)
	}
	return session.ByName(target)
}

// handleShared runs a primitive available in both grammars. It reports
// whether the primitive was exit.
func (a *App) handleShared(s command.Shared) bool {
	switch c := s.(type) {
	case command.Clear:
		a.printer.Clear()
	case command.Quit:
		return true
	case command.Var:
		a.handleVar(c)
	case command.Help:
		a.printer.Printf("%s", c.Text)
	}
	return false
}

func (a *App) handleVar(v command.Var) {
	if v.Name == "" {
		a.printer.Println(ui.VarTable(a.printer.Renderer(), a.vars.All()))
		return
	}
	if v.HasValue {
		a.vars.Set(v.Name, v.Value)
		a.logger.Debug("variable set", "name", v.Name)
	}
	value, ok := a.vars.Get(v.Name)
	if !ok {
		a.printer.Printf("Variable `%s` is currently unset.\n", v.Name)
		return
	}
	a.printer.Println(value)
}
