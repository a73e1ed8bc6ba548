package telnet

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeConn returns a Conn wrapping one end of an in-memory pipe and the raw
// peer end for the test to drive.
func pipeConn(t *testing.T) (*Conn, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return NewConn(server, time.Second, time.Second), client
}

func writeAsync(t *testing.T, peer net.Conn, data []byte) {
	t.Helper()
	go func() {
		_, _ = peer.Write(data)
	}()
}

func TestReadLine_Plain(t *testing.T) {
	conn, peer := pipeConn(t)
	writeAsync(t, peer, []byte("roll the dice\r\n"))

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "roll the dice", line)
}

func TestReadLine_BareNewline(t *testing.T) {
	conn, peer := pipeConn(t)
	writeAsync(t, peer, []byte("ok\n"))

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "ok", line)
}

func TestReadLine_FiltersIACNegotiation(t *testing.T) {
	conn, peer := pipeConn(t)
	writeAsync(t, peer, []byte{IAC, WILL, OptSuppressGoAhead, 'h', 'i', '\r', '\n'})

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "hi", line)
}

func TestReadLine_FiltersSubNegotiation(t *testing.T) {
	conn, peer := pipeConn(t)
	writeAsync(t, peer, []byte{'a', IAC, SB, 24, 0, 'x', IAC, SE, 'b', '\r', '\n'})

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "ab", line)
}

func TestReadLine_FiltersControlCharacters(t *testing.T) {
	conn, peer := pipeConn(t)
	writeAsync(t, peer, []byte{'a', 0x07, 'b', '\t', 'c', '\r', '\n'})

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "a\tbc", line, "tab survives, other control bytes are dropped")
}

func TestReadLine_MultipleLines(t *testing.T) {
	conn, peer := pipeConn(t)
	writeAsync(t, peer, []byte("first\r\nsecond\r\n"))

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "second", line)
}

func TestNegotiate(t *testing.T) {
	conn, peer := pipeConn(t)

	done := make(chan error, 1)
	go func() {
		done <- conn.Negotiate()
	}()

	buf := make([]byte, 3)
	_, err := peer.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{IAC, WILL, OptSuppressGoAhead}, buf)
	require.NoError(t, <-done)
}

func TestWriteLine(t *testing.T) {
	conn, peer := pipeConn(t)

	done := make(chan error, 1)
	go func() {
		done <- conn.WriteLine("your move")
	}()

	buf := make([]byte, 64)
	n, err := peer.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "your move\r\n", string(buf[:n]))
	require.NoError(t, <-done)
}
