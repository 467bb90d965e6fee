// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os/exec"
	"strings"
)

// Dial connects to a Neovim listen address: a unix socket path, or
// host:port for TCP.
func Dial(ctx context.Context, address string) (net.Conn, error) {
	network := "unix"
	if !strings.Contains(address, "/") && strings.Contains(address, ":") {
		network = "tcp"
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, &ConnectionError{Op: "dial", Err: err}
	}
	return conn, nil
}

// Process is an embedded Neovim child speaking msgpack-rpc on its stdin
// and stdout. It is both the writer and the reader passed to Open.
type Process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	closed bool
}

// Embed starts path with --embed followed by args.
func Embed(ctx context.Context, path string, args ...string) (*Process, error) {
	if path == "" {
		path = "nvim"
	}
	cmd := exec.CommandContext(ctx, path, append([]string{"--embed"}, args...)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, &ConnectionError{Op: "spawn", Err: err}
	}
	return &Process{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

// Write implements io.Writer.
func (p *Process) Write(b []byte) (int, error) { return p.stdin.Write(b) }

// Read implements io.Reader.
func (p *Process) Read(b []byte) (int, error) { return p.stdout.Read(b) }

// Pid returns the child's process id.
func (p *Process) Pid() int { return p.cmd.Process.Pid }

// Close closes the child's stdin, which makes Neovim exit, and waits for it.
func (p *Process) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	err := p.stdin.Close()
	if werr := p.cmd.Wait(); werr != nil {
		var exit *exec.ExitError
		if !errors.As(werr, &exit) {
			err = errors.Join(err, werr)
		} else if err == nil {
			err = fmt.Errorf("nvimrpc: nvim exited: %w", werr)
		}
	}
	return err
}
