package protocol

import (
	"bufio"
	"io"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec handles the two framings used on a game connection:
// fixed 16-byte fields and msgpack host frames.
// Every read and write is bounded by the configured timeout.
type Codec struct {
	conn    net.Conn
	r       *bufio.Reader
	dec     *msgpack.Decoder
	timeout time.Duration
}

// NewCodec creates a codec for the given connection.
// A zero timeout disables deadlines.
func NewCodec(conn net.Conn, timeout time.Duration) *Codec {
	r := bufio.NewReaderSize(conn, FrameBufferSize)
	return &Codec{
		conn:    conn,
		r:       r,
		dec:     msgpack.NewDecoder(r),
		timeout: timeout,
	}
}

// WriteField sends s as one padded fixed-width field
func (c *Codec) WriteField(s string) error {
	field := EncodeField(s)
	if err := c.writeDeadline(); err != nil {
		return err
	}
	if _, err := c.conn.Write(field[:]); err != nil {
		return errors.Wrap(err, "write field")
	}
	return nil
}

// ReadField reads one fixed-width field and strips its padding
func (c *Codec) ReadField() (string, error) {
	var buf [FieldSize]byte
	if err := c.readDeadline(); err != nil {
		return "", err
	}
	if _, err := io.ReadFull(c.r, buf[:]); err != nil {
		return "", errors.Wrap(err, "read field")
	}
	return DecodeField(buf[:]), nil
}

// WriteFrame sends a host frame
func (c *Codec) WriteFrame(f *HostFrame) error {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "encode frame")
	}
	if err := c.writeDeadline(); err != nil {
		return err
	}
	if _, err := c.conn.Write(data); err != nil {
		return errors.Wrap(err, "write frame")
	}
	return nil
}

// ReadFrame reads one host frame
func (c *Codec) ReadFrame() (*HostFrame, error) {
	if err := c.readDeadline(); err != nil {
		return nil, err
	}
	var f HostFrame
	if err := c.dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "read frame")
	}
	return &f, nil
}

// SkipFrame consumes one host frame without interpreting it
func (c *Codec) SkipFrame() error {
	if err := c.readDeadline(); err != nil {
		return err
	}
	if err := c.dec.Skip(); err != nil {
		return errors.Wrap(err, "skip frame")
	}
	return nil
}

// Close closes the underlying connection
func (c *Codec) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the peer's address
func (c *Codec) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *Codec) readDeadline() error {
	if c.timeout <= 0 {
		return nil
	}
	return errors.Wrap(c.conn.SetReadDeadline(time.Now().Add(c.timeout)), "set read deadline")
}

func (c *Codec) writeDeadline() error {
	if c.timeout <= 0 {
		return nil
	}
	return errors.Wrap(c.conn.SetWriteDeadline(time.Now().Add(c.timeout)), "set write deadline")
}
