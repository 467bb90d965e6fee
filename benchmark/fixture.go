// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package benchmark holds a method fixture for measuring client call
// overhead against an in-process fake peer.
package benchmark

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
	"github.com/Query-farm/nvim-rpc/nvimtest"
)

// Catalog and methods

var (
	Catalog = nvimrpc.NewCatalog("benchmark")

	Noop           = nvimrpc.Define[nvimrpc.Tuple0, nvimrpc.Void](Catalog, "bench_noop")
	Add            = nvimrpc.Define[nvimrpc.Tuple2[float64, float64], float64](Catalog, "bench_add")
	Greet          = nvimrpc.Define[nvimrpc.Tuple1[string], string](Catalog, "bench_greet")
	RoundtripTypes = nvimrpc.Define[nvimrpc.Tuple3[string, map[string]int64, []int64], string](Catalog, "bench_roundtrip_types")
	Generate       = nvimrpc.Define[nvimrpc.Tuple1[int64], int64](Catalog, "bench_generate")
	Transform      = nvimrpc.Define[nvimrpc.Tuple2[float64, []float64], []float64](Catalog, "bench_transform")
)

// TickEvent is the notification bench_generate sends once per item.
const TickEvent = "bench_tick"

// Info returns the default peer metadata plus the fixture functions.
func Info() nvimtest.Info {
	info := nvimtest.DefaultInfo()
	info.Functions = append(info.Functions,
		nvimtest.Function{Name: "bench_noop", ReturnType: "void", Since: 1},
		nvimtest.Function{Name: "bench_add", Params: [][2]string{{"Float", "a"}, {"Float", "b"}}, ReturnType: "Float", Since: 1},
		nvimtest.Function{Name: "bench_greet", Params: [][2]string{{"String", "name"}}, ReturnType: "String", Since: 1},
		nvimtest.Function{Name: "bench_roundtrip_types", Params: [][2]string{{"String", "color"}, {"DictOf(Integer)", "mapping"}, {"ArrayOf(Integer)", "tags"}}, ReturnType: "String", Since: 1},
		nvimtest.Function{Name: "bench_generate", Params: [][2]string{{"Integer", "count"}}, ReturnType: "Integer", Since: 1},
		nvimtest.Function{Name: "bench_transform", Params: [][2]string{{"Float", "factor"}, {"ArrayOf(Float)", "values"}}, ReturnType: "ArrayOf(Float)", Since: 1},
	)
	return info
}

// RegisterMethods registers the fixture handlers on the peer.
func RegisterMethods(p *nvimtest.Peer) {
	p.Handle("bench_noop", noop)
	p.Handle("bench_add", add)
	p.Handle("bench_greet", greet)
	p.Handle("bench_roundtrip_types", roundtripTypes)
	p.Handle("bench_generate", generate)
	p.Handle("bench_transform", transform)
}

// Handler implementations

func noop(context.Context, *nvimtest.Peer, []any) (any, error) {
	return nil, nil
}

func add(_ context.Context, _ *nvimtest.Peer, args []any) (any, error) {
	if len(args) != 2 {
		return nil, nvimtest.Validation("bench_add: expected 2 arguments, got %d", len(args))
	}
	a, err := number(args[0])
	if err != nil {
		return nil, err
	}
	b, err := number(args[1])
	if err != nil {
		return nil, err
	}
	return a + b, nil
}

func greet(_ context.Context, _ *nvimtest.Peer, args []any) (any, error) {
	if len(args) != 1 {
		return nil, nvimtest.Validation("bench_greet: expected 1 argument, got %d", len(args))
	}
	name, ok := args[0].(string)
	if !ok {
		return nil, nvimtest.Validation("bench_greet: name is %T", args[0])
	}
	return "Hello, " + name + "!", nil
}

// roundtripTypes formats its arguments as color:true:{'k': v, ...}:[t, ...]
// with the mapping and tags sorted.
func roundtripTypes(_ context.Context, _ *nvimtest.Peer, args []any) (any, error) {
	if len(args) != 3 {
		return nil, nvimtest.Validation("bench_roundtrip_types: expected 3 arguments, got %d", len(args))
	}
	color, _ := args[0].(string)
	mapping, _ := args[1].(map[string]any)
	tagList, _ := args[2].([]any)

	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var mappingParts []string
	for _, k := range keys {
		mappingParts = append(mappingParts, fmt.Sprintf("'%s': %v", k, mapping[k]))
	}
	mappingStr := "{" + strings.Join(mappingParts, ", ") + "}"

	sortedTags := make([]int64, 0, len(tagList))
	for _, t := range tagList {
		n, ok := t.(int64)
		if !ok {
			return nil, nvimtest.Validation("bench_roundtrip_types: tag is %T", t)
		}
		sortedTags = append(sortedTags, n)
	}
	sort.Slice(sortedTags, func(i, j int) bool { return sortedTags[i] < sortedTags[j] })

	var tagParts []string
	for _, t := range sortedTags {
		tagParts = append(tagParts, fmt.Sprintf("%d", t))
	}
	tagsStr := "[" + strings.Join(tagParts, ", ") + "]"

	return fmt.Sprintf("%s:true:%s:%s", color, mappingStr, tagsStr), nil
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, nvimtest.Validation("expected a number, got %T", v)
}
