package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/Brownie44l1/http-fileserver/internal/server"
)

func main() {
	config := server.DefaultConfig()

	flag.StringVar(&config.Addr, "addr", config.Addr, "address to listen on")
	flag.StringVar(&config.Root, "root", config.Root, "directory to serve")
	flag.IntVar(&config.MaxConns, "max-conns", 0, "maximum concurrent connections (0 = unbounded)")
	flag.DurationVar(&config.ReadTimeout, "read-timeout", 0, "deadline for reading a request (0 = none)")
	flag.BoolVar(&config.AllowEscape, "allow-escape", false, "allow paths that resolve outside the root")
	flag.Parse()

	srv := server.New(config)

	ln, err := net.Listen("tcp", config.Addr)
	if err != nil {
		srv.Logger.Error("bind failed", server.Field{Key: "addr", Value: config.Addr}, server.Field{Key: "error", Value: err})
		os.Exit(1)
	}

	banner(ln.Addr(), config)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
	case err := <-errCh:
		srv.Logger.Error("server stopped", server.Field{Key: "error", Value: err})
		os.Exit(1)
	}

	fmt.Println()
	color.Yellow("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		color.Red("Shutdown error: %v", err)
		os.Exit(1)
	}

	stats := srv.Stats()
	fmt.Println("Final stats:")
	fmt.Printf("   Requests:        %d\n", stats.RequestsTotal)
	fmt.Printf("   4xx responses:   %d\n", stats.Errors4xx)
	fmt.Printf("   5xx responses:   %d\n", stats.Errors5xx)
	fmt.Printf("   Average latency: %s\n", stats.AverageLatency)
}

func banner(addr net.Addr, config server.Config) {
	title := color.New(color.FgGreen, color.Bold)
	label := color.New(color.FgCyan)

	title.Printf("Serving files on http://%s\n", addr)
	label.Print("   root:  ")
	fmt.Println(config.Root)
	if config.MaxConns > 0 {
		label.Print("   limit: ")
		fmt.Printf("%d connections\n", config.MaxConns)
	}
	if config.AllowEscape {
		color.Red("   warning: paths outside the root are served")
	}
}
