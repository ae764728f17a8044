package http

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// ReaderConfig configures a single TimedReader.readForHeader call.
type ReaderConfig struct {
	// TimeoutMs is the millisecond deadline to wait for readability before
	// failing with ErrTimeout. Zero means wait indefinitely.
	TimeoutMs int
}

// TimedReader polls a socket for readability with an optional millisecond
// deadline, then issues a single read on one connection: readForHeader
// composes exactly one poll and one read per call, and the caller loops as
// needed.
type TimedReader struct {
	conn net.Conn
}

// NewTimedReader wraps a connection for header-phase reads.
func NewTimedReader(conn net.Conn) *TimedReader {
	return &TimedReader{conn: conn}
}

// readForHeader waits for readability (if cfg.TimeoutMs is set), then issues
// one read into buf. A 0-byte read with len(buf) == 0 means the caller gave
// no space left (ErrHeaderTooBig); a 0-byte read with len(buf) > 0 means the
// peer closed the connection (ErrConnectionClosed).
func (r *TimedReader) readForHeader(buf []byte, cfg ReaderConfig) (int, error) {
	if cfg.TimeoutMs > 0 {
		if err := r.waitReadable(cfg.TimeoutMs); err != nil {
			return 0, err
		}
	}

	if len(buf) == 0 {
		return 0, ErrHeaderTooBig
	}

	n, err := r.conn.Read(buf)
	if err != nil {
		if n == 0 {
			return 0, ErrConnectionClosed
		}
		return n, err
	}
	if n == 0 {
		return 0, ErrConnectionClosed
	}
	return n, nil
}

// waitReadable blocks until the underlying fd is readable or the deadline
// (in milliseconds) expires, using a single poll(2) call via golang.org/x/sys/unix.
func (r *TimedReader) waitReadable(timeoutMs int) error {
	sc, ok := r.conn.(syscall.Conn)
	if !ok {
		return nil
	}
	rawConn, err := sc.SyscallConn()
	if err != nil {
		return err
	}

	var pollErr error
	var ready bool
	ctrlErr := rawConn.Control(func(fd uintptr) {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, timeoutMs)
		if err != nil {
			pollErr = err
			return
		}
		if n == 0 {
			pollErr = ErrTimeout
			return
		}
		ready = fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0
	})
	if ctrlErr != nil {
		return ctrlErr
	}
	if pollErr != nil {
		return pollErr
	}
	if !ready {
		return ErrTimeout
	}
	return nil
}
