package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"golang-logserver/internal/domain"
	"golang-logserver/internal/ports/output"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionService struct - Application service implementing the connection session use case
type SessionService struct {
	store       output.LogStore
	greeting    string
	readTimeout time.Duration
}

// SessionOption configures a SessionService
type SessionOption func(*SessionService)

// WithGreeting overrides the greeting line
func WithGreeting(greeting string) SessionOption {
	return func(s *SessionService) {
		if greeting != "" {
			s.greeting = greeting
		}
	}
}

// WithReadTimeout bounds the wait for the client's message. Zero waits forever.
func WithReadTimeout(timeout time.Duration) SessionOption {
	return func(s *SessionService) {
		s.readTimeout = timeout
	}
}

// NewSessionService func - Creates new session service over the shared store
func NewSessionService(store output.LogStore, opts ...SessionOption) *SessionService {
	s := &SessionService{
		store:    store,
		greeting: domain.DefaultGreeting,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// session holds the per-connection state of one exchange
type session struct {
	id     string
	conn   net.Conn
	reader *bufio.Reader
	state  domain.SessionState
	log    *logrus.Entry
}

// Serve func - Use case: run greet, receive, persist, readback and reply on conn
func (s *SessionService) Serve(ctx context.Context, conn net.Conn) error {
	sess := &session{
		id:     uuid.NewString(),
		conn:   conn,
		reader: bufio.NewReader(conn),
		state:  domain.SessionStateStart,
	}
	sess.log = logrus.WithFields(logrus.Fields{
		"session_id": sess.id,
		"remote":     remoteAddr(conn),
	})

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()
	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			sess.log.Debugf("Error closing client socket: %v", err)
		}
	}()

	err := s.run(sess)
	if err != nil {
		sess.log.WithField("state", sess.state).Errorf("Session failed: %v", err)
		sess.state = domain.SessionStateFail
		return err
	}
	sess.state = domain.SessionStateClose
	sess.log.Debug("Session closed")
	return nil
}

func (s *SessionService) run(sess *session) error {
	if err := sess.writeLine(s.greeting); err != nil {
		return fmt.Errorf("%w: send greeting: %v", domain.ErrProtocol, err)
	}

	sess.state = domain.SessionStateAwaitMessage
	message, err := sess.readLine(s.readTimeout)
	if err != nil {
		return err
	}
	sess.log.Infof("Message from client: %s", message)

	sess.state = domain.SessionStatePersist
	if err := s.store.Append(message); err != nil {
		sess.notify(domain.AppendErrorPrefix + err.Error())
		return err
	}

	sess.state = domain.SessionStateReadback
	content, err := s.store.ReadAll()
	if err != nil {
		sess.notify(domain.ReadErrorPrefix + err.Error())
		return err
	}

	sess.state = domain.SessionStateReply
	if err := sess.writeLine(domain.ContentLabel + strings.TrimSuffix(content, domain.LineTerminator)); err != nil {
		return fmt.Errorf("%w: send content: %v", domain.ErrProtocol, err)
	}
	return nil
}

// readLine returns one client line without its terminator. A partial line
// cut short by EOF still counts; EOF with no bytes at all does not.
func (sess *session) readLine(timeout time.Duration) (string, error) {
	if timeout > 0 {
		if err := sess.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return "", fmt.Errorf("%w: set read deadline: %v", domain.ErrProtocol, err)
		}
	}

	line, err := sess.reader.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	case errors.Is(err, io.EOF):
		return "", fmt.Errorf("%w: client closed before sending a message", domain.ErrProtocol)
	default:
		return "", fmt.Errorf("%w: read message: %v", domain.ErrProtocol, err)
	}

	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

func (sess *session) writeLine(line string) error {
	_, err := io.WriteString(sess.conn, line+domain.LineTerminator)
	return err
}

// notify is best effort: the stream itself may be what failed.
func (sess *session) notify(line string) {
	if err := sess.writeLine(line); err != nil {
		sess.log.Debugf("Could not report failure to client: %v", err)
	}
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
