// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"reflect"

	"github.com/ugorji/go/codec"

	"github.com/Query-farm/nvim-rpc/nvimrpc/msgrpc"
)

// MaxArity is the largest parameter count a catalog entry can declare.
const MaxArity = 8

// Tuple is a fixed-arity, ordered parameter shape. It is implemented only by
// Tuple0 through Tuple8, so a struct with named fields cannot be used as a
// parameter shape.
type Tuple interface {
	// Values returns the positions in order, ready for encoding as a
	// msgpack array.
	Values() []any
	tuple()
}

// Tuple0 is the shape of a method without parameters.
type Tuple0 struct{}

// T0 returns the empty tuple.
func T0() Tuple0 { return Tuple0{} }

// Values implements Tuple.
func (Tuple0) Values() []any { return []any{} }

func (Tuple0) tuple() {}

// Tuple1 is a parameter shape with one position.
type Tuple1[T1 any] struct {
	V1 T1
}

// T1 builds a Tuple1.
func T1[T1 any](v1 T1) Tuple1[T1] {
	return Tuple1[T1]{v1}
}

// Values implements Tuple.
func (t Tuple1[T1]) Values() []any { return []any{t.V1} }

func (Tuple1[T1]) tuple() {}

// Tuple2 is a parameter shape with two positions.
type Tuple2[T1, T2 any] struct {
	V1 T1
	V2 T2
}

// T2 builds a Tuple2.
func T2[T1, T2 any](v1 T1, v2 T2) Tuple2[T1, T2] {
	return Tuple2[T1, T2]{v1, v2}
}

// Values implements Tuple.
func (t Tuple2[T1, T2]) Values() []any { return []any{t.V1, t.V2} }

func (Tuple2[T1, T2]) tuple() {}

// Tuple3 is a parameter shape with three positions.
type Tuple3[T1, T2, T3 any] struct {
	V1 T1
	V2 T2
	V3 T3
}

// T3 builds a Tuple3.
func T3[T1, T2, T3 any](v1 T1, v2 T2, v3 T3) Tuple3[T1, T2, T3] {
	return Tuple3[T1, T2, T3]{v1, v2, v3}
}

// Values implements Tuple.
func (t Tuple3[T1, T2, T3]) Values() []any { return []any{t.V1, t.V2, t.V3} }

func (Tuple3[T1, T2, T3]) tuple() {}

// Tuple4 is a parameter shape with four positions.
type Tuple4[T1, T2, T3, T4 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
}

// T4 builds a Tuple4.
func T4[T1, T2, T3, T4 any](v1 T1, v2 T2, v3 T3, v4 T4) Tuple4[T1, T2, T3, T4] {
	return Tuple4[T1, T2, T3, T4]{v1, v2, v3, v4}
}

// Values implements Tuple.
func (t Tuple4[T1, T2, T3, T4]) Values() []any { return []any{t.V1, t.V2, t.V3, t.V4} }

func (Tuple4[T1, T2, T3, T4]) tuple() {}

// Tuple5 is a parameter shape with five positions.
type Tuple5[T1, T2, T3, T4, T5 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
	V5 T5
}

// T5 builds a Tuple5.
func T5[T1, T2, T3, T4, T5 any](v1 T1, v2 T2, v3 T3, v4 T4, v5 T5) Tuple5[T1, T2, T3, T4, T5] {
	return Tuple5[T1, T2, T3, T4, T5]{v1, v2, v3, v4, v5}
}

// Values implements Tuple.
func (t Tuple5[T1, T2, T3, T4, T5]) Values() []any { return []any{t.V1, t.V2, t.V3, t.V4, t.V5} }

func (Tuple5[T1, T2, T3, T4, T5]) tuple() {}

// Tuple6 is a parameter shape with six positions.
type Tuple6[T1, T2, T3, T4, T5, T6 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
	V5 T5
	V6 T6
}

// T6 builds a Tuple6.
func T6[T1, T2, T3, T4, T5, T6 any](v1 T1, v2 T2, v3 T3, v4 T4, v5 T5, v6 T6) Tuple6[T1, T2, T3, T4, T5, T6] {
	return Tuple6[T1, T2, T3, T4, T5, T6]{v1, v2, v3, v4, v5, v6}
}

// Values implements Tuple.
func (t Tuple6[T1, T2, T3, T4, T5, T6]) Values() []any { return []any{t.V1, t.V2, t.V3, t.V4, t.V5, t.V6} }

func (Tuple6[T1, T2, T3, T4, T5, T6]) tuple() {}

// Tuple7 is a parameter shape with seven positions.
type Tuple7[T1, T2, T3, T4, T5, T6, T7 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
	V5 T5
	V6 T6
	V7 T7
}

// T7 builds a Tuple7.
func T7[T1, T2, T3, T4, T5, T6, T7 any](v1 T1, v2 T2, v3 T3, v4 T4, v5 T5, v6 T6, v7 T7) Tuple7[T1, T2, T3, T4, T5, T6, T7] {
	return Tuple7[T1, T2, T3, T4, T5, T6, T7]{v1, v2, v3, v4, v5, v6, v7}
}

// Values implements Tuple.
func (t Tuple7[T1, T2, T3, T4, T5, T6, T7]) Values() []any { return []any{t.V1, t.V2, t.V3, t.V4, t.V5, t.V6, t.V7} }

func (Tuple7[T1, T2, T3, T4, T5, T6, T7]) tuple() {}

// Tuple8 is a parameter shape with eight positions.
type Tuple8[T1, T2, T3, T4, T5, T6, T7, T8 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
	V5 T5
	V6 T6
	V7 T7
	V8 T8
}

// T8 builds a Tuple8.
func T8[T1, T2, T3, T4, T5, T6, T7, T8 any](v1 T1, v2 T2, v3 T3, v4 T4, v5 T5, v6 T6, v7 T7, v8 T8) Tuple8[T1, T2, T3, T4, T5, T6, T7, T8] {
	return Tuple8[T1, T2, T3, T4, T5, T6, T7, T8]{v1, v2, v3, v4, v5, v6, v7, v8}
}

// Values implements Tuple.
func (t Tuple8[T1, T2, T3, T4, T5, T6, T7, T8]) Values() []any { return []any{t.V1, t.V2, t.V3, t.V4, t.V5, t.V6, t.V7, t.V8} }

func (Tuple8[T1, T2, T3, T4, T5, T6, T7, T8]) tuple() {}

// tupleTypes returns the position types of P.
func tupleTypes[P Tuple]() []reflect.Type {
	t := reflect.TypeFor[P]()
	types := make([]reflect.Type, t.NumField())
	for i := range t.NumField() {
		types[i] = t.Field(i).Type
	}
	return types
}

// decodeTuple decodes a msgpack array into P, position by position.
func decodeTuple[P Tuple](h *codec.MsgpackHandle, raw []byte) (P, error) {
	var p P
	var parts []codec.Raw
	if err := msgrpc.Unmarshal(h, raw, &parts); err != nil {
		return p, err
	}
	v := reflect.ValueOf(&p).Elem()
	if len(parts) != v.NumField() {
		return p, &ArityError{Want: v.NumField(), Got: len(parts)}
	}
	for i, part := range parts {
		if err := msgrpc.Unmarshal(h, part, v.Field(i).Addr().Interface()); err != nil {
			return p, err
		}
	}
	return p, nil
}
