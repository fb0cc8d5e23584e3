package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/Brownie44l1/http-fileserver/internal/response"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "server address")
	path := flag.String("path", "/", "path to request")
	timeout := flag.Duration("timeout", 5*time.Second, "dial and read timeout")
	flag.Parse()

	resp, err := fetch(*addr, *path, *timeout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fsget:", err)
		os.Exit(1)
	}

	fmt.Println("Status Line")
	fmt.Printf("Code: %d\n", resp.Status)
	fmt.Printf("Reason: %s\n", response.StatusText(resp.Status))
	fmt.Println("Headers")
	for _, line := range resp.Headers.Lines() {
		fmt.Println(line)
	}
	fmt.Println("Body")
	os.Stdout.Write(resp.Body)
}

func fetch(addr, path string, timeout time.Duration) (*response.Response, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	if _, err := fmt.Fprintf(conn, "GET %s HTTP/1.1\r\nHost: %s\r\n\r\n", path, addr); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	return response.ReadResponse(bufio.NewReader(conn))
}
