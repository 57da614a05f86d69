// Package transport builds HTTP clients bounded by a (connect, read) timeout
// pair and classifies the errors they return.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Timeouts mirrors the classic (connect, read) pair.
type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
}

// ConnectError wraps a failure to establish the TCP connection.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect: %v", e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// NewClient returns a client whose dials are bounded by t.Connect and whose
// wait for the response is bounded by t.Read. The overall client timeout is
// Connect+Read so a stalled body cannot hang forever.
func NewClient(t Timeouts) *http.Client {
	connect := t.Connect
	if connect <= 0 {
		connect = 5 * time.Second
	}
	read := t.Read
	if read <= 0 {
		read = 30 * time.Second
	}

	dialer := &net.Dialer{
		Timeout:   connect,
		KeepAlive: 30 * time.Second,
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, &ConnectError{Err: err}
		}
		return conn, nil
	}
	base.TLSHandshakeTimeout = connect
	base.ResponseHeaderTimeout = read

	return &http.Client{
		Transport: base,
		Timeout:   connect + read,
	}
}

// IsConnectError reports whether err came from establishing the connection.
func IsConnectError(err error) bool {
	var connErr *ConnectError
	return errors.As(err, &connErr)
}

// IsReadTimeout reports whether err is a timeout that happened after the
// connection was established.
func IsReadTimeout(err error) bool {
	if err == nil || IsConnectError(err) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
