// Package sshsession implements an interactive session over SSH with a
// single password credential.
package sshsession

import (
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"golang.org/x/crypto/ssh"

	"github.com/abdullathedruid/rctf/internal/input"
	"github.com/abdullathedruid/rctf/internal/session"
)

// TypeName is shown in session listings.
const TypeName = "ssh"

// DefaultTimeout bounds the TCP connect and SSH handshake.
const DefaultTimeout = 15 * time.Second

// Settings identify the remote end and the credential.
type Settings struct {
	User     string
	Host     string
	Password string
	Port     int
	Timeout  time.Duration
}

// Addr returns host:port.
func (s Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Session is an SSH connection running an interactive shell on a pty.
type Session struct {
	session.Named

	settings Settings
	opts     session.Options

	client *ssh.Client
	sess   *ssh.Session
	stdin  io.WriteCloser
	stream *session.Stream
}

var _ session.Session = (*Session)(nil)

// New creates a disconnected SSH session.
func New(settings Settings, opts session.Options) *Session {
	if settings.Port == 0 {
		settings.Port = 22
	}
	if settings.Timeout == 0 {
		settings.Timeout = DefaultTimeout
	}
	return &Session{settings: settings, opts: opts}
}

// TypeName returns "ssh".
func (s *Session) TypeName() string {
	return TypeName
}

// Settings returns the connection settings.
func (s *Session) Settings() Settings {
	return s.settings
}

// State reports whether the session is connected.
func (s *Session) State() session.State {
	if s.client == nil || (s.stream != nil && s.stream.Exited()) {
		return session.Disconnected
	}
	return session.Connected
}

// Connect dials the host, authenticates and starts a shell on a pty.
func (s *Session) Connect(ctx context.Context) error {
	if s.client != nil {
		return nil
	}
	logger := s.opts.Log()
	addr := s.settings.Addr()

	dialCtx, cancel := context.WithTimeout(ctx, s.settings.Timeout)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return errors.Errorf("%w: dial %s: %v", session.ErrTransport, addr, err)
	}

	config := &ssh.ClientConfig{
		User: s.settings.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(s.settings.Password),
			ssh.KeyboardInteractive(s.answerPassword),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         s.settings.Timeout,
	}
	conn.SetDeadline(time.Now().Add(s.settings.Timeout))
	clientConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		if strings.Contains(err.Error(), "unable to authenticate") {
			return errors.Errorf("%w: %s@%s", session.ErrAuthenticationFailed, s.settings.User, addr)
		}
		return errors.Errorf("%w: handshake with %s: %v", session.ErrTransport, addr, err)
	}
	conn.SetDeadline(time.Time{})
	client := ssh.NewClient(clientConn, chans, reqs)

	if err := s.startShell(client); err != nil {
		client.Close()
		return errors.Errorf("%w: %v", session.ErrTransport, err)
	}
	s.client = client
	logger.Info("ssh connected", "addr", addr, "user", s.settings.User)
	return nil
}

func (s *Session) answerPassword(user, instruction string, questions []string, echos []bool) ([]string, error) {
	answers := make([]string, len(questions))
	for i := range answers {
		answers[i] = s.settings.Password
	}
	return answers, nil
}

func (s *Session) startShell(client *ssh.Client) error {
	sess, err := client.NewSession()
	if err != nil {
		return errors.WrapPrefix(err, "create ssh session", 0)
	}

	if err := sess.RequestPty(s.opts.TermType, s.opts.Rows, s.opts.Cols, terminalModes(s.opts.Chars)); err != nil {
		sess.Close()
		return errors.WrapPrefix(err, "request pty", 0)
	}

	stdin, err := sess.StdinPipe()
	if err != nil {
		sess.Close()
		return errors.WrapPrefix(err, "stdin pipe", 0)
	}
	stdout, err := sess.StdoutPipe()
	if err != nil {
		sess.Close()
		return errors.WrapPrefix(err, "stdout pipe", 0)
	}
	stderr, err := sess.StderrPipe()
	if err != nil {
		sess.Close()
		return errors.WrapPrefix(err, "stderr pipe", 0)
	}

	if err := sess.Shell(); err != nil {
		sess.Close()
		return errors.WrapPrefix(err, "start shell", 0)
	}

	s.sess = sess
	s.stdin = stdin
	s.stream = session.NewStream(s.opts, stdin, func() (session.ExitReason, error) {
		return exitReason(sess.Wait())
	}, stdout, stderr)
	return nil
}

// terminalModes maps the control characters onto pty modes.
func terminalModes(chars input.ControlChars) ssh.TerminalModes {
	return ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.VINTR:         uint32(chars.Interrupt),
		ssh.VEOF:          uint32(chars.EOF),
		ssh.VERASE:        uint32(chars.Erase),
		ssh.VEOL:          uint32(chars.EOL),
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
}

// exitReason classifies the result of ssh.Session.Wait.
func exitReason(err error) (session.ExitReason, error) {
	if err == nil {
		return session.Status(0), nil
	}
	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		if sig := exitErr.Signal(); sig != "" {
			return session.Signaled(sig, exitErr.Msg()), nil
		}
		return session.Status(exitErr.ExitStatus()), nil
	}
	return session.ExitReason{}, err
}

// ReadLoop forwards keys to the shell until the control key or the remote
// exit.
func (s *Session) ReadLoop(ctx context.Context, keys <-chan input.Event, out io.Writer) (session.LoopResult, error) {
	if s.stream == nil {
		return 0, session.ErrNotConnected
	}
	return s.stream.ReadLoop(ctx, keys, out)
}

// ResetPrompt interrupts the shell and discards output for a short delay.
func (s *Session) ResetPrompt(ctx context.Context) error {
	if s.stream == nil {
		return session.ErrNotConnected
	}
	return s.stream.ResetPrompt(ctx)
}

// Send writes raw bytes to the shell.
func (s *Session) Send(p []byte) error {
	if s.stream == nil {
		return session.ErrNotConnected
	}
	return s.stream.Send(p)
}

// Disconnect sends EOF and closes the connection. x/crypto/ssh closes the
// transport without a disconnect message.
func (s *Session) Disconnect() error {
	if s.client == nil {
		return nil
	}
	s.stdin.Close()
	s.stream.Close()
	s.sess.Close()
	err := s.client.Close()
	s.opts.Log().Info("ssh disconnected", "addr", s.settings.Addr())

	s.client, s.sess, s.stdin, s.stream = nil, nil, nil, nil
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return errors.Errorf("%w: close: %v", session.ErrTransport, err)
	}
	return nil
}
