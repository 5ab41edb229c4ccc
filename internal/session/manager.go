package session

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-errors/errors"
	"github.com/google/uuid"

	"github.com/abdullathedruid/rctf/internal/input"
	"github.com/abdullathedruid/rctf/internal/registry"
)

// Action is what the control-mode processor asks the manager to do next.
type Action interface {
	isAction()
}

// SendText resets the remote prompt and sends Text followed by a newline,
// then resumes passthrough. No newline is added if Text already ends in one.
type SendText struct {
	Text string
}

// Detach leaves the session running in the background.
type Detach struct{}

// Resume resets the remote prompt and returns to passthrough.
type Resume struct{}

func (SendText) isAction() {}
func (Detach) isAction()   {}
func (Resume) isAction()   {}

// ControlFunc runs control mode for the session at index and returns the
// action that ends it. An error ends driving the session without removing
// it.
type ControlFunc func(ctx context.Context, index int, sess Session) (Action, error)

// Outcome is how driving a session ended.
type Outcome int

const (
	// Backgrounded means the session is still registered and connected.
	Backgrounded Outcome = iota + 1
	// Closed means the session was disconnected and removed.
	Closed
)

// Selection picks a registered session by index or by name.
type Selection struct {
	Index  int
	Name   string
	byName bool
}

// ByIndex selects the session at index.
func ByIndex(index int) Selection {
	return Selection{Index: index}
}

// ByName selects the session registered under name.
func ByName(name string) Selection {
	return Selection{Name: name, byName: true}
}

// Info describes a registered session for listings.
type Info struct {
	Index int
	Type  string
	Name  string
	State State
}

type entry struct {
	sess Session
	id   string
}

// Manager owns every session. It is driven from a single goroutine: the
// registry and name index are only touched between read loops.
type Manager struct {
	sessions *registry.Registry[*entry]
	names    map[string]int

	keys    <-chan input.Event
	out     io.Writer
	control ControlFunc
	logger  *log.Logger
	mode    input.Mode
}

// NewManager creates a manager reading keys and mirroring output to out.
func NewManager(keys <-chan input.Event, out io.Writer, control ControlFunc, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		sessions: registry.New[*entry](),
		names:    make(map[string]int),
		keys:     keys,
		out:      out,
		control:  control,
		logger:   logger,
		mode:     input.ModePrompt,
	}
}

// Mode returns the current input mode.
func (m *Manager) Mode() input.Mode {
	return m.mode
}

func (m *Manager) setMode(mode input.Mode) {
	if mode == m.mode {
		return
	}
	m.logger.Debug("input mode", "from", m.mode, "to", mode)
	m.mode = mode
}

// NextIndex returns the index the next started session will get.
func (m *Manager) NextIndex() int {
	return m.sessions.NextIndex()
}

// Start connects sess, registers it and drives it. A session that fails
// to connect is never registered.
func (m *Manager) Start(ctx context.Context, sess Session) (int, Outcome, error) {
	if err := sess.Connect(ctx); err != nil {
		m.logger.Warn("connect failed", "type", sess.TypeName(), "err", err)
		return -1, 0, err
	}

	e := &entry{sess: sess, id: uuid.NewString()}
	index := m.sessions.Push(e)
	m.logger.Info("session started", "session", e.id, "index", index, "type", sess.TypeName())

	outcome, err := m.drive(ctx, index, e)
	return index, outcome, err
}

// Resume drives a registered session again.
func (m *Manager) Resume(ctx context.Context, sel Selection) (int, Outcome, error) {
	index, e, err := m.lookup(sel)
	if err != nil {
		return -1, 0, err
	}
	m.logger.Info("session resumed", "session", e.id, "index", index)
	outcome, err := m.drive(ctx, index, e)
	return index, outcome, err
}

func (m *Manager) lookup(sel Selection) (int, *entry, error) {
	index := sel.Index
	if sel.byName {
		i, ok := m.names[sel.Name]
		if !ok {
			return -1, nil, errors.Errorf("%w: %s", ErrNameNotFound, sel.Name)
		}
		index = i
	}
	e, ok := m.sessions.Get(index)
	if !ok {
		return -1, nil, errors.Errorf("%w: %d", ErrIndexNotFound, index)
	}
	return index, e, nil
}

// Rename sets the display name of the session at index and points the
// name index at it. An existing mapping for the same name is overwritten.
func (m *Manager) Rename(index int, name string) error {
	e, ok := m.sessions.Get(index)
	if !ok {
		return errors.Errorf("%w: %d", ErrIndexNotFound, index)
	}
	m.unname(index, e)
	e.sess.SetName(name)
	if name != "" {
		m.names[name] = index
	}
	m.logger.Info("session renamed", "session", e.id, "index", index, "name", name)
	return nil
}

// List returns every registered session in index order.
func (m *Manager) List() []Info {
	var out []Info
	m.sessions.Each(func(index int, e *entry) bool {
		out = append(out, Info{
			Index: index,
			Type:  e.sess.TypeName(),
			Name:  e.sess.Name(),
			State: e.sess.State(),
		})
		return true
	})
	return out
}

// Len returns the number of registered sessions.
func (m *Manager) Len() int {
	return m.sessions.Len()
}

// CloseAll disconnects and removes every session.
func (m *Manager) CloseAll() {
	var indices []int
	m.sessions.Each(func(index int, _ *entry) bool {
		indices = append(indices, index)
		return true
	})
	for _, index := range indices {
		if e, ok := m.sessions.Get(index); ok {
			m.remove(index, e)
		}
	}
}

// drive alternates between the read loop and control mode until the
// session is backgrounded or ends.
func (m *Manager) drive(ctx context.Context, index int, e *entry) (Outcome, error) {
	defer m.setMode(input.ModePrompt)

	for {
		m.setMode(input.ModePassthrough)
		result, err := e.sess.ReadLoop(ctx, m.keys, m.out)
		if err != nil || result == RemoteExited {
			m.logger.Info("session ended", "session", e.id, "index", index, "result", result, "err", err)
			m.remove(index, e)
			return Closed, err
		}

		m.setMode(input.ModeControl)
		m.logger.Debug("control mode", "session", e.id, "index", index)
		action, err := m.control(ctx, index, e.sess)
		if err != nil {
			return Backgrounded, err
		}

		switch a := action.(type) {
		case Detach:
			m.logger.Info("session backgrounded", "session", e.id, "index", index)
			return Backgrounded, nil
		case SendText:
			if err := m.resetAndSend(ctx, e.sess, withNewline(a.Text)); err != nil {
				m.remove(index, e)
				return Closed, err
			}
		case Resume:
			if err := m.resetAndSend(ctx, e.sess, nil); err != nil {
				m.remove(index, e)
				return Closed, err
			}
		}
	}
}

func (m *Manager) resetAndSend(ctx context.Context, sess Session, data []byte) error {
	if err := sess.ResetPrompt(ctx); err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	return sess.Send(data)
}

// remove disconnects the session and frees its index and name.
func (m *Manager) remove(index int, e *entry) {
	if err := e.sess.Disconnect(); err != nil {
		m.logger.Warn("disconnect failed", "session", e.id, "index", index, "err", err)
	}
	m.unname(index, e)
	m.sessions.Remove(index)
	m.logger.Info("session removed", "session", e.id, "index", index)
}

func (m *Manager) unname(index int, e *entry) {
	if name := e.sess.Name(); name != "" {
		if i, ok := m.names[name]; ok && i == index {
			delete(m.names, name)
		}
	}
}

func withNewline(text string) []byte {
	if strings.HasSuffix(text, "\n") {
		return []byte(text)
	}
	return []byte(text + "\n")
}
