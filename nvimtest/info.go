// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimtest

import (
	"github.com/Query-farm/nvim-rpc/nvimrpc"
	"github.com/Query-farm/nvim-rpc/nvimrpc/msgrpc"
)

// Function is one entry of the fake api-info functions table.
type Function struct {
	Name       string
	Params     [][2]string // [type, name]
	ReturnType string
	Method     bool
	Since      int64
	// DeprecatedSince is nil for functions that are not deprecated.
	DeprecatedSince *int64
}

// Level returns a pointer to an api level, for Function.DeprecatedSince.
func Level(n int64) *int64 {
	return &n
}

// Event is one entry of the fake api-info ui_events table.
type Event struct {
	Name   string
	Params [][2]string
	Since  int64
}

// Info is the metadata a Peer publishes.
type Info struct {
	ChannelID  int64
	Major      int64
	Minor      int64
	Patch      int64
	APILevel   int64
	Prerelease bool
	Build      string
	Functions  []Function
	Events     []Event
	UIOptions  []string
	// ErrorTypes maps error type names to ids. Nil publishes Neovim's
	// table: Exception 0, Validation 1.
	ErrorTypes map[string]int64
}

// DefaultInfo describes a Neovim 0.10 peer at api level 12 publishing the
// functions served by RegisterEditor plus two deprecated ones.
func DefaultInfo() Info {
	return Info{
		ChannelID: 1,
		Major:     0,
		Minor:     10,
		Patch:     0,
		APILevel:  12,
		Functions: []Function{
			{Name: "nvim_get_api_info", ReturnType: "Array", Since: 1},
			{Name: "nvim_command", Params: [][2]string{{"String", "command"}}, ReturnType: "void", Since: 1},
			{Name: "nvim_eval", Params: [][2]string{{"String", "expr"}}, ReturnType: "Object", Since: 1},
			{Name: "nvim_get_mode", ReturnType: "Dict", Since: 2},
			{Name: "nvim_get_var", Params: [][2]string{{"String", "name"}}, ReturnType: "Object", Since: 1},
			{Name: "nvim_set_var", Params: [][2]string{{"String", "name"}, {"Object", "value"}}, ReturnType: "void", Since: 1},
			{Name: "nvim_del_var", Params: [][2]string{{"String", "name"}}, ReturnType: "void", Since: 1},
			{Name: "nvim_get_current_buf", ReturnType: "Buffer", Since: 1},
			{Name: "nvim_list_bufs", ReturnType: "ArrayOf(Buffer)", Since: 1},
			{Name: "nvim_create_buf", Params: [][2]string{{"Boolean", "listed"}, {"Boolean", "scratch"}}, ReturnType: "Buffer", Since: 6},
			{Name: "nvim_buf_get_name", Params: [][2]string{{"Buffer", "buffer"}}, ReturnType: "String", Method: true, Since: 1},
			{Name: "nvim_buf_set_name", Params: [][2]string{{"Buffer", "buffer"}, {"String", "name"}}, ReturnType: "void", Method: true, Since: 1},
			{Name: "nvim_buf_line_count", Params: [][2]string{{"Buffer", "buffer"}}, ReturnType: "Integer", Method: true, Since: 1},
			{Name: "nvim_buf_get_lines", Params: [][2]string{{"Buffer", "buffer"}, {"Integer", "start"}, {"Integer", "end"}, {"Boolean", "strict_indexing"}}, ReturnType: "ArrayOf(String)", Method: true, Since: 1},
			{Name: "nvim_buf_set_lines", Params: [][2]string{{"Buffer", "buffer"}, {"Integer", "start"}, {"Integer", "end"}, {"Boolean", "strict_indexing"}, {"ArrayOf(String)", "replacement"}}, ReturnType: "void", Method: true, Since: 1},
			{Name: "nvim_get_current_win", ReturnType: "Window", Since: 1},
			{Name: "nvim_win_get_buf", Params: [][2]string{{"Window", "window"}}, ReturnType: "Buffer", Method: true, Since: 1},
			{Name: "nvim_get_current_tabpage", ReturnType: "Tabpage", Since: 1},
			{Name: "nvim_subscribe", Params: [][2]string{{"String", "event"}}, ReturnType: "void", Since: 1, DeprecatedSince: Level(13)},
			{Name: "nvim_buf_get_number", Params: [][2]string{{"Buffer", "buffer"}}, ReturnType: "Integer", Method: true, Since: 1, DeprecatedSince: Level(2)},
			{Name: "buffer_get_line", Params: [][2]string{{"Buffer", "buffer"}, {"Integer", "index"}}, ReturnType: "String", Method: true, Since: 0, DeprecatedSince: Level(1)},
		},
		Events: []Event{
			{Name: "mode_change", Params: [][2]string{{"String", "mode"}, {"Integer", "mode_idx"}}, Since: 4},
			{Name: "flush", Since: 1},
		},
		UIOptions: []string{"rgb", "ext_cmdline", "ext_popupmenu", "ext_tabline", "ext_wildmenu", "ext_messages", "ext_linegrid", "ext_multigrid", "ext_hlstate", "ext_termcolors"},
	}
}

// Function returns the function named name.
func (i Info) Function(name string) (Function, bool) {
	for _, fn := range i.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return Function{}, false
}

// Encode returns the api-info map in Neovim's wire shape.
func (i Info) Encode() map[string]any {
	fns := make([]any, len(i.Functions))
	for k, fn := range i.Functions {
		m := map[string]any{
			"name":        fn.Name,
			"parameters":  encodeParams(fn.Params),
			"return_type": fn.ReturnType,
			"method":      fn.Method,
			"since":       fn.Since,
		}
		if fn.DeprecatedSince != nil {
			m["deprecated_since"] = *fn.DeprecatedSince
		}
		fns[k] = m
	}
	events := make([]any, len(i.Events))
	for k, ev := range i.Events {
		events[k] = map[string]any{
			"name":       ev.Name,
			"parameters": encodeParams(ev.Params),
			"since":      ev.Since,
		}
	}
	errorTypes := map[string]any{}
	if i.ErrorTypes == nil {
		errorTypes[nvimrpc.ErrorTypeException] = map[string]any{"id": int64(0)}
		errorTypes[nvimrpc.ErrorTypeValidation] = map[string]any{"id": int64(1)}
	}
	for name, id := range i.ErrorTypes {
		errorTypes[name] = map[string]any{"id": id}
	}
	options := make([]any, len(i.UIOptions))
	for k, o := range i.UIOptions {
		options[k] = o
	}
	var build any
	if i.Build != "" {
		build = i.Build
	}
	return map[string]any{
		"version": map[string]any{
			"major":          i.Major,
			"minor":          i.Minor,
			"patch":          i.Patch,
			"api_level":      i.APILevel,
			"api_compatible": int64(0),
			"api_prerelease": false,
			"prerelease":     i.Prerelease,
			"build":          build,
		},
		"functions":   fns,
		"ui_events":   events,
		"ui_options":  options,
		"error_types": errorTypes,
		"types": map[string]any{
			nvimrpc.TypeBuffer:  map[string]any{"id": int64(nvimrpc.ExtBuffer), "prefix": "nvim_buf_"},
			nvimrpc.TypeWindow:  map[string]any{"id": int64(nvimrpc.ExtWindow), "prefix": "nvim_win_"},
			nvimrpc.TypeTabpage: map[string]any{"id": int64(nvimrpc.ExtTabpage), "prefix": "nvim_tabpage_"},
		},
	}
}

// Msgpack returns the api-info map encoded as msgpack, the format written
// by `nvim --api-info`.
func (i Info) Msgpack() ([]byte, error) {
	return msgrpc.Marshal(nvimrpc.NewHandle(), i.Encode())
}

func encodeParams(params [][2]string) []any {
	out := make([]any, len(params))
	for k, p := range params {
		out[k] = []any{p[0], p[1]}
	}
	return out
}
