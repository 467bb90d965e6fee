// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimtest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
)

// Editor is the in-memory state behind RegisterEditor.
type Editor struct {
	mu       sync.Mutex
	bufs     map[nvimrpc.Buffer]*buffer
	order    []nvimrpc.Buffer
	current  nvimrpc.Buffer
	next     nvimrpc.Buffer
	vars     map[string]any
	mode     string
	commands []string
	subs     map[string]bool
}

type buffer struct {
	name  string
	lines []string
}

// NewEditor returns an editor with one empty, unnamed buffer.
func NewEditor() *Editor {
	e := &Editor{
		bufs: make(map[nvimrpc.Buffer]*buffer),
		vars: make(map[string]any),
		mode: "n",
		next: 1,
		subs: make(map[string]bool),
	}
	e.current = e.newBuffer()
	return e
}

func (e *Editor) newBuffer() nvimrpc.Buffer {
	id := e.next
	e.next++
	e.bufs[id] = &buffer{lines: []string{""}}
	e.order = append(e.order, id)
	return id
}

// Commands returns the Ex commands run through nvim_command.
func (e *Editor) Commands() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.commands...)
}

// Lines returns the lines of buf.
func (e *Editor) Lines(buf nvimrpc.Buffer) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.bufs[buf]; ok {
		return append([]string(nil), b.lines...)
	}
	return nil
}

// RegisterEditor installs handlers for the functions in DefaultInfo backed
// by e.
func RegisterEditor(p *Peer, e *Editor) {
	p.Handle("nvim_command", e.command)
	p.Handle("nvim_eval", e.eval)
	p.Handle("nvim_get_mode", e.getMode)
	p.Handle("nvim_get_var", e.getVar)
	p.Handle("nvim_set_var", e.setVar)
	p.Handle("nvim_del_var", e.delVar)
	p.Handle("nvim_get_current_buf", e.currentBuf)
	p.Handle("nvim_list_bufs", e.listBufs)
	p.Handle("nvim_create_buf", e.createBuf)
	p.Handle("nvim_buf_get_name", e.bufGetName)
	p.Handle("nvim_buf_set_name", e.bufSetName)
	p.Handle("nvim_buf_line_count", e.bufLineCount)
	p.Handle("nvim_buf_get_lines", e.bufGetLines)
	p.Handle("nvim_buf_set_lines", e.bufSetLines)
	p.Handle("nvim_get_current_win", func(context.Context, *Peer, []any) (any, error) { return nvimrpc.Window(1000), nil })
	p.Handle("nvim_win_get_buf", e.winGetBuf)
	p.Handle("nvim_get_current_tabpage", func(context.Context, *Peer, []any) (any, error) { return nvimrpc.Tabpage(1), nil })
	p.Handle("nvim_subscribe", e.subscribe)
	p.Handle("nvim_buf_get_number", e.bufGetNumber)
}

func wantArgs(args []any, n int) error {
	if len(args) != n {
		return Validation("Wrong number of arguments: expecting %d but got %d", n, len(args))
	}
	return nil
}

func argString(args []any, i int) (string, error) {
	s, ok := args[i].(string)
	if !ok {
		return "", Validation("Wrong type for argument %d when calling function, expecting String", i+1)
	}
	return s, nil
}

func argInt(args []any, i int) (int64, error) {
	switch n := args[i].(type) {
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	}
	return 0, Validation("Wrong type for argument %d when calling function, expecting Integer", i+1)
}

func argBool(args []any, i int) (bool, error) {
	b, ok := args[i].(bool)
	if !ok {
		return false, Validation("Wrong type for argument %d when calling function, expecting Boolean", i+1)
	}
	return b, nil
}

// argBuffer accepts a Buffer ext value or an integer; 0 is the current
// buffer.
func (e *Editor) argBuffer(args []any, i int) (*buffer, nvimrpc.Buffer, error) {
	var id nvimrpc.Buffer
	switch v := args[i].(type) {
	case nvimrpc.Buffer:
		id = v
	case int64:
		id = nvimrpc.Buffer(v)
	default:
		return nil, 0, Validation("Wrong type for argument %d when calling function, expecting Buffer", i+1)
	}
	if id == 0 {
		id = e.current
	}
	b, ok := e.bufs[id]
	if !ok {
		return nil, 0, Validation("Invalid buffer id: %d", id)
	}
	return b, id, nil
}

func (e *Editor) command(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	cmd, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = append(e.commands, cmd)
	switch {
	case strings.HasPrefix(cmd, "let g:"):
		name, value, ok := strings.Cut(strings.TrimPrefix(cmd, "let g:"), "=")
		if !ok {
			return nil, Exception("Vim(let):E15: Invalid expression: %q", cmd)
		}
		v, err := evalLiteral(strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		e.vars[strings.TrimSpace(name)] = v
	case cmd == "startinsert":
		e.mode = "i"
	case cmd == "stopinsert":
		e.mode = "n"
	case strings.HasPrefix(cmd, "bogus"):
		return nil, Exception("Vim:E492: Not an editor command: %s", cmd)
	}
	return nil, nil
}

func (e *Editor) eval(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	expr, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	expr = strings.TrimSpace(expr)
	if name, ok := strings.CutPrefix(expr, "g:"); ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		if v, ok := e.vars[name]; ok {
			return v, nil
		}
		return nil, Exception("Vim:E121: Undefined variable: %s", expr)
	}
	if a, b, ok := strings.Cut(expr, "+"); ok {
		x, err1 := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
		y, err2 := strconv.ParseInt(strings.TrimSpace(b), 10, 64)
		if err1 == nil && err2 == nil {
			return x + y, nil
		}
	}
	return evalLiteral(expr)
}

// evalLiteral understands integers and single or double quoted strings.
func evalLiteral(s string) (any, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], nil
	}
	return nil, Exception("Vim:E15: Invalid expression: \"%s\"", s)
}

func (e *Editor) getMode(context.Context, *Peer, []any) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return map[string]any{"mode": e.mode, "blocking": false}, nil
}

func (e *Editor) getVar(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	name, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.vars[name]
	if !ok {
		return nil, Validation("Key not found: %s", name)
	}
	return v, nil
}

func (e *Editor) setVar(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}
	name, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[name] = args[1]
	return nil, nil
}

func (e *Editor) delVar(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	name, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.vars[name]; !ok {
		return nil, Validation("Key not found: %s", name)
	}
	delete(e.vars, name)
	return nil, nil
}

func (e *Editor) currentBuf(context.Context, *Peer, []any) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current, nil
}

func (e *Editor) listBufs(context.Context, *Peer, []any) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]any, len(e.order))
	for i, id := range e.order {
		out[i] = id
	}
	return out, nil
}

func (e *Editor) createBuf(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}
	for i := range args {
		if _, err := argBool(args, i); err != nil {
			return nil, err
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.newBuffer(), nil
}

func (e *Editor) bufGetName(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	b, _, err := e.argBuffer(args, 0)
	if err != nil {
		return nil, err
	}
	return b.name, nil
}

func (e *Editor) bufSetName(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}
	name, err := argString(args, 1)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	b, _, err := e.argBuffer(args, 0)
	if err != nil {
		return nil, err
	}
	b.name = name
	return nil, nil
}

func (e *Editor) bufLineCount(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	b, _, err := e.argBuffer(args, 0)
	if err != nil {
		return nil, err
	}
	return int64(len(b.lines)), nil
}

// lineRange resolves Neovim's end-exclusive, negative-from-end indexing.
func lineRange(n int, start, end int64, strict bool) (int, int, error) {
	norm := func(i int64) int64 {
		if i < 0 {
			return int64(n) + 1 + i
		}
		return i
	}
	s, en := norm(start), norm(end)
	if strict && (s > int64(n) || en > int64(n) || s < 0 || en < 0) {
		return 0, 0, Validation("Index out of bounds")
	}
	clamp := func(i int64) int {
		return int(max(0, min(i, int64(n))))
	}
	a, b := clamp(s), clamp(en)
	if a > b {
		return 0, 0, Validation("'start' is higher than 'end'")
	}
	return a, b, nil
}

func (e *Editor) bufGetLines(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 4); err != nil {
		return nil, err
	}
	start, err := argInt(args, 1)
	if err != nil {
		return nil, err
	}
	end, err := argInt(args, 2)
	if err != nil {
		return nil, err
	}
	strict, err := argBool(args, 3)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	b, _, err := e.argBuffer(args, 0)
	if err != nil {
		return nil, err
	}
	lo, hi, err := lineRange(len(b.lines), start, end, strict)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, hi-lo)
	for _, l := range b.lines[lo:hi] {
		out = append(out, l)
	}
	return out, nil
}

func (e *Editor) bufSetLines(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 5); err != nil {
		return nil, err
	}
	start, err := argInt(args, 1)
	if err != nil {
		return nil, err
	}
	end, err := argInt(args, 2)
	if err != nil {
		return nil, err
	}
	strict, err := argBool(args, 3)
	if err != nil {
		return nil, err
	}
	raw, ok := args[4].([]any)
	if !ok {
		return nil, Validation("Wrong type for argument 5 when calling function, expecting ArrayOf(String)")
	}
	repl := make([]string, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, Validation("'replacement string' item contains newlines or is not a String")
		}
		repl[i] = s
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	b, _, err := e.argBuffer(args, 0)
	if err != nil {
		return nil, err
	}
	lo, hi, err := lineRange(len(b.lines), start, end, strict)
	if err != nil {
		return nil, err
	}
	lines := append(append(append([]string(nil), b.lines[:lo]...), repl...), b.lines[hi:]...)
	if len(lines) == 0 {
		lines = []string{""}
	}
	b.lines = lines
	return nil, nil
}

func (e *Editor) winGetBuf(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current, nil
}

func (e *Editor) subscribe(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	event, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs[event] = true
	return nil, nil
}

func (e *Editor) bufGetNumber(_ context.Context, _ *Peer, args []any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, id, err := e.argBuffer(args, 0)
	if err != nil {
		return nil, err
	}
	return int64(id), nil
}

// String summarises the editor state.
func (e *Editor) String() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fmt.Sprintf("editor{bufs: %d, current: %d, mode: %s, vars: %d}", len(e.bufs), e.current, e.mode, len(e.vars))
}
