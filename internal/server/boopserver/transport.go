package boopserver

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"time"
)

// ErrLineTooLong is returned by ReadLine for a line over the size limit.
var ErrLineTooLong = errors.New("boopserver: line too long")

// Transport is a duplex stream of newline-delimited lines.
//
// ReadLine and WriteLine may be called concurrently with each other, but
// each only from one goroutine at a time. Close unblocks both.
type Transport interface {
	// ReadLine returns the next line without its delimiter.
	ReadLine() (string, error)
	// WriteLine writes one complete line, delimiter included.
	WriteLine(line []byte) error
	Close() error
	RemoteAddr() string
}

// NetTransport adapts a net.Conn.
type NetTransport struct {
	conn    net.Conn
	br      *bufio.Reader
	maxLine int

	idleTimeout  time.Duration
	writeTimeout time.Duration

	closed atomic.Bool
}

// NewNetTransport wraps conn. Zero timeouts disable the deadline.
func NewNetTransport(conn net.Conn, maxLine int, idleTimeout, writeTimeout time.Duration) *NetTransport {
	// Room for the line, CR and LF.
	size := maxLine + 2
	return &NetTransport{
		conn:         conn,
		br:           bufio.NewReaderSize(conn, size),
		maxLine:      maxLine,
		idleTimeout:  idleTimeout,
		writeTimeout: writeTimeout,
	}
}

// ReadLine implements Transport. The idle deadline is re-armed on every
// call, so any received line keeps the connection alive, and it applies
// before authentication too. This intentionally differs from a PING-only
// watchdog that starts at login.
func (t *NetTransport) ReadLine() (string, error) {
	if t.idleTimeout > 0 {
		if err := t.conn.SetReadDeadline(time.Now().Add(t.idleTimeout)); err != nil {
			return "", err
		}
	}

	line, err := t.br.ReadSlice('\n')
	switch {
	case errors.Is(err, bufio.ErrBufferFull):
		return "", ErrLineTooLong
	case errors.Is(err, io.EOF) && len(line) > 0:
		// Unterminated last line; EOF is reported on the next call.
	case err != nil:
		return "", err
	}

	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) > t.maxLine {
		return "", ErrLineTooLong
	}
	return string(line), nil
}

// WriteLine implements Transport.
func (t *NetTransport) WriteLine(line []byte) error {
	if t.writeTimeout > 0 {
		if err := t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
			return err
		}
	}
	_, err := t.conn.Write(line)
	return err
}

// Close implements Transport. It is safe to call more than once.
func (t *NetTransport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	return t.conn.Close()
}

// RemoteAddr implements Transport.
func (t *NetTransport) RemoteAddr() string {
	if a := t.conn.RemoteAddr(); a != nil {
		return a.String()
	}
	return ""
}

// isTimeout reports whether err is a deadline expiry.
func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
