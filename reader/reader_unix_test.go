//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package reader_test

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/momentics/posixread/adapters"
	"github.com/momentics/posixread/api"
	"github.com/momentics/posixread/fake"
	"github.com/momentics/posixread/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// tcpPair returns both ends of a loopback TCP connection.
func tcpPair(t *testing.T) (server, client *net.TCPConn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()
	c, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	s, ok := <-accepted
	require.True(t, ok)
	t.Cleanup(func() {
		c.Close()
		s.Close()
	})
	return s.(*net.TCPConn), c.(*net.TCPConn)
}

func nonBlocking(t *testing.T, c *net.TCPConn) bool {
	t.Helper()
	raw, err := c.SyscallConn()
	require.NoError(t, err)
	var flags int
	var ferr error
	require.NoError(t, raw.Control(func(fd uintptr) {
		flags, ferr = unix.FcntlInt(fd, unix.F_GETFL, 0)
	}))
	require.NoError(t, ferr)
	return flags&unix.O_NONBLOCK != 0
}

func TestRead_PrefixLeavesRemainder(t *testing.T) {
	r := newReader(t)
	server, client := tcpPair(t)
	_, err := client.Write([]byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	require.NoError(t, err)

	f, err := r.Read(adapters.FromConn(server), 10)
	require.NoError(t, err)
	buf, err := f.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJ", string(buf))
	assert.True(t, nonBlocking(t, server))

	rest := make([]byte, 16)
	require.NoError(t, server.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = io.ReadFull(server, rest)
	require.NoError(t, err)
	assert.Equal(t, "KLMNOPQRSTUVWXYZ", string(rest))
}

func TestRead_LargeRandomPayload(t *testing.T) {
	r := newReader(t)
	server, client := tcpPair(t)

	payload := make([]byte, 99999)
	_, err := rand.Read(payload)
	require.NoError(t, err)

	var g errgroup.Group
	g.Go(func() error {
		_, err := client.Write(payload)
		return err
	})

	f, err := r.Read(adapters.FromConn(server), 90000)
	require.NoError(t, err)
	buf, err := f.Wait(waitCtx(t))
	require.NoError(t, err)
	require.Len(t, buf, 90000)
	assert.True(t, bytes.Equal(payload[:90000], buf))

	rest := make([]byte, 9999)
	require.NoError(t, server.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = io.ReadFull(server, rest)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(payload[90000:], rest))
	require.NoError(t, g.Wait())
}

func TestReadFunc_EndOfFile(t *testing.T) {
	r := newReader(t)
	server, client := tcpPair(t)
	_, err := client.Write([]byte("123456789"))
	require.NoError(t, err)
	require.NoError(t, client.Close())

	type result struct {
		err error
		buf []byte
	}
	got := make(chan result, 1)
	require.NoError(t, r.ReadFunc(adapters.FromConn(server), 10, func(err error, buf []byte) {
		got <- result{err, buf}
	}))

	select {
	case res := <-got:
		require.Error(t, res.err)
		assert.Nil(t, res.buf)
		assert.True(t, api.IsEndOfFile(res.err))
		assert.Contains(t, res.err.Error(), "9 bytes")
	case <-time.After(5 * time.Second):
		t.Fatal("callback not delivered")
	}
}

func TestRead_SpansDelayedWrites(t *testing.T) {
	r := newReader(t)
	server, client := tcpPair(t)

	go func() {
		for _, chunk := range []string{"----------", "0123456789", "ABCDEFGHIJKLMNOPQRSTUVWXYZ"} {
			if _, err := client.Write([]byte(chunk)); err != nil {
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
	}()

	buf, err := r.ReadSync(adapters.FromConn(server), 25)
	require.NoError(t, err)
	assert.Equal(t, "----------0123456789ABCDE", string(buf))
	assert.True(t, nonBlocking(t, server))
}

func TestRead_WaitsForData(t *testing.T) {
	r := newReader(t)
	server, client := tcpPair(t)

	f, err := r.Read(adapters.FromConn(server), 4)
	require.NoError(t, err)

	select {
	case <-f.Done():
		t.Fatal("read completed without data")
	case <-time.After(50 * time.Millisecond):
	}

	_, err = client.Write([]byte("ping"))
	require.NoError(t, err)
	buf, err := f.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))
}

func TestRead_ClosedConnIsBadStream(t *testing.T) {
	r := newReader(t)
	server, _ := tcpPair(t)
	require.NoError(t, server.Close())

	f, err := r.Read(adapters.FromConn(server), 4)
	require.NoError(t, err)
	_, err = f.Wait(waitCtx(t))
	assert.True(t, api.IsBadStream(err))
	assert.Equal(t, api.MsgNotReadable, err.Error())
}

func TestRead_HalfClosedIsBadStream(t *testing.T) {
	r := newReader(t)
	server, _ := tcpPair(t)
	h := adapters.FromConn(server)
	require.NoError(t, h.CloseRead())

	f, err := r.Read(h, 4)
	require.NoError(t, err)
	assert.True(t, api.IsBadStream(f.Result().Err))
}

func TestRead_ConcurrentDistinctDescriptors(t *testing.T) {
	const n = 8
	r := newReader(t, reader.WithWorkers(n))

	var g errgroup.Group
	for i := 0; i < n; i++ {
		server, client := tcpPair(t)
		size := 1000 * (i + 1)
		payload := bytes.Repeat([]byte{byte('a' + i)}, size+7)
		g.Go(func() error {
			_, err := client.Write(payload)
			return err
		})
		g.Go(func() error {
			f, err := r.Read(adapters.FromConn(server), size)
			if err != nil {
				return err
			}
			res := f.Result()
			if res.Err != nil {
				return res.Err
			}
			buf := res.Value
			if !bytes.Equal(payload[:size], buf) {
				return fmt.Errorf("conn %d: payload mismatch", size)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int64(n), r.Stats()["outcome_success"])
}

func TestReader_CloseDeliversInFlight(t *testing.T) {
	r := reader.New()
	server, client := tcpPair(t)

	var mu sync.Mutex
	calls := 0
	delivered := make(chan []byte, 1)
	require.NoError(t, r.ReadFunc(adapters.FromConn(server), 3, func(err error, buf []byte) {
		mu.Lock()
		calls++
		mu.Unlock()
		assert.NoError(t, err)
		delivered <- buf
	}))
	r.Close()

	_, err := client.Write([]byte("abc"))
	require.NoError(t, err)
	select {
	case buf := <-delivered:
		assert.Equal(t, "abc", string(buf))
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight callback lost on Close")
	}
	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func TestPackageRead_NetConn(t *testing.T) {
	server, client := tcpPair(t)
	_, err := client.Write([]byte("hello, world"))
	require.NoError(t, err)

	got := make(chan string, 1)
	require.NoError(t, reader.Read(server, 5, func(err error, buf []byte) {
		assert.NoError(t, err)
		got <- string(buf)
	}))
	select {
	case s := <-got:
		assert.Equal(t, "hello", s)
	case <-time.After(5 * time.Second):
		t.Fatal("callback not delivered")
	}
}

func TestRead_BufferOwnershipOnSuccess(t *testing.T) {
	bp := &fake.BytePool{}
	r := newReader(t, reader.WithBytePool(bp))
	server, client := tcpPair(t)
	_, err := client.Write([]byte("xyz"))
	require.NoError(t, err)

	buf, err := r.ReadSync(adapters.FromConn(server), 3)
	require.NoError(t, err)
	assert.Equal(t, "xyz", string(buf))
	assert.Equal(t, 1, bp.Acquired())
	assert.Zero(t, bp.Released())
}
