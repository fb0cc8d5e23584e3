package main

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/http-fileserver/internal/response"
)

// serveOnce answers the first connection on ln with raw and reports the
// request line it received.
func serveOnce(t *testing.T, ln net.Listener, raw string) <-chan string {
	t.Helper()
	lines := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			close(lines)
			return
		}
		defer conn.Close()

		line, _ := bufio.NewReader(conn).ReadString('\n')
		lines <- line
		conn.Write([]byte(raw))
	}()
	return lines
}

func TestFetch(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	lines := serveOnce(t, ln, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 3\r\n\r\nhey")

	resp, err := fetch(ln.Addr().String(), "/notes.txt", 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Equal(t, "hey", string(resp.Body))
	assert.Equal(t, "GET /notes.txt HTTP/1.1\r\n", <-lines)
}

func TestFetchTimesOut(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// Accept but never answer.
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			defer conn.Close()
			time.Sleep(time.Second)
		}
	}()

	_, err = fetch(ln.Addr().String(), "/", 100*time.Millisecond)
	require.Error(t, err)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestFetchDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = fetch(addr, "/", time.Second)
	assert.Error(t, err)
}
