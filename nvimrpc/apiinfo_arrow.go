// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"sort"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// paramType is the element type of the parameters columns.
var paramType = arrow.StructOf(
	arrow.Field{Name: "type", Type: arrow.BinaryTypes.String},
	arrow.Field{Name: "name", Type: arrow.BinaryTypes.String},
)

// Column positions in functionsSchema.
const (
	fnName = iota
	fnParams
	fnReturn
	fnMethod
	fnSince
	fnDeprecated
)

var functionsSchema = arrow.NewSchema([]arrow.Field{
	{Name: "name", Type: arrow.BinaryTypes.String},
	{Name: "parameters", Type: arrow.ListOf(paramType)},
	{Name: "return_type", Type: arrow.BinaryTypes.String},
	{Name: "method", Type: &arrow.BooleanType{}},
	{Name: "since", Type: arrow.PrimitiveTypes.Int64},
	{Name: "deprecated_since", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
}, nil)

var eventsSchema = arrow.NewSchema([]arrow.Field{
	{Name: "name", Type: arrow.BinaryTypes.String},
	{Name: "parameters", Type: arrow.ListOf(paramType)},
	{Name: "since", Type: arrow.PrimitiveTypes.Int64},
}, nil)

var handleTypesSchema = arrow.NewSchema([]arrow.Field{
	{Name: "kind", Type: arrow.BinaryTypes.String},
	{Name: "id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "prefix", Type: arrow.BinaryTypes.String},
}, nil)

var errorTypesSchema = arrow.NewSchema([]arrow.Field{
	{Name: "kind", Type: arrow.BinaryTypes.String},
	{Name: "id", Type: arrow.PrimitiveTypes.Int64},
}, nil)

// appendParams appends one list element of [type, name] pairs.
func appendParams(lb *array.ListBuilder, params [][]string) {
	lb.Append(true)
	sb := lb.ValueBuilder().(*array.StructBuilder)
	types := sb.FieldBuilder(0).(*array.StringBuilder)
	names := sb.FieldBuilder(1).(*array.StringBuilder)
	for _, p := range params {
		sb.Append(true)
		var t, n string
		if len(p) > 0 {
			t = p[0]
		}
		if len(p) > 1 {
			n = p[1]
		}
		types.Append(t)
		names.Append(n)
	}
}

func buildFunctions(mem memory.Allocator, fns []functionWire) arrow.RecordBatch {
	nameBuilder := array.NewStringBuilder(mem)
	defer nameBuilder.Release()

	paramsBuilder := array.NewListBuilder(mem, paramType)
	defer paramsBuilder.Release()

	returnBuilder := array.NewStringBuilder(mem)
	defer returnBuilder.Release()

	methodBuilder := array.NewBooleanBuilder(mem)
	defer methodBuilder.Release()

	sinceBuilder := array.NewInt64Builder(mem)
	defer sinceBuilder.Release()

	deprecatedBuilder := array.NewInt64Builder(mem)
	defer deprecatedBuilder.Release()

	for _, fn := range fns {
		nameBuilder.Append(fn.Name)
		appendParams(paramsBuilder, fn.Parameters)
		returnBuilder.Append(fn.ReturnType)
		methodBuilder.Append(fn.Method)
		sinceBuilder.Append(fn.Since)
		if fn.DeprecatedSince != nil {
			deprecatedBuilder.Append(*fn.DeprecatedSince)
		} else {
			deprecatedBuilder.AppendNull()
		}
	}

	cols := []arrow.Array{
		nameBuilder.NewArray(),
		paramsBuilder.NewArray(),
		returnBuilder.NewArray(),
		methodBuilder.NewArray(),
		sinceBuilder.NewArray(),
		deprecatedBuilder.NewArray(),
	}
	for _, c := range cols {
		defer c.Release()
	}
	return array.NewRecordBatch(functionsSchema, cols, int64(len(fns)))
}

func buildEvents(mem memory.Allocator, events []eventWire) arrow.RecordBatch {
	nameBuilder := array.NewStringBuilder(mem)
	defer nameBuilder.Release()

	paramsBuilder := array.NewListBuilder(mem, paramType)
	defer paramsBuilder.Release()

	sinceBuilder := array.NewInt64Builder(mem)
	defer sinceBuilder.Release()

	for _, ev := range events {
		nameBuilder.Append(ev.Name)
		appendParams(paramsBuilder, ev.Parameters)
		sinceBuilder.Append(ev.Since)
	}

	cols := []arrow.Array{
		nameBuilder.NewArray(),
		paramsBuilder.NewArray(),
		sinceBuilder.NewArray(),
	}
	for _, c := range cols {
		defer c.Release()
	}
	return array.NewRecordBatch(eventsSchema, cols, int64(len(events)))
}

func buildStrings(mem memory.Allocator, values []string) *array.String {
	b := array.NewStringBuilder(mem)
	defer b.Release()
	b.AppendValues(values, nil)
	return b.NewStringArray()
}

func buildHandleTypes(mem memory.Allocator, types map[string]handleTypeWire) arrow.RecordBatch {
	kinds := sortedKeys(types)

	kindBuilder := array.NewStringBuilder(mem)
	defer kindBuilder.Release()

	idBuilder := array.NewInt64Builder(mem)
	defer idBuilder.Release()

	prefixBuilder := array.NewStringBuilder(mem)
	defer prefixBuilder.Release()

	for _, k := range kinds {
		kindBuilder.Append(k)
		idBuilder.Append(types[k].ID)
		prefixBuilder.Append(types[k].Prefix)
	}

	cols := []arrow.Array{
		kindBuilder.NewArray(),
		idBuilder.NewArray(),
		prefixBuilder.NewArray(),
	}
	for _, c := range cols {
		defer c.Release()
	}
	return array.NewRecordBatch(handleTypesSchema, cols, int64(len(kinds)))
}

func buildErrorTypes(mem memory.Allocator, types map[string]errorTypeWire) arrow.RecordBatch {
	kinds := sortedKeys(types)

	kindBuilder := array.NewStringBuilder(mem)
	defer kindBuilder.Release()

	idBuilder := array.NewInt64Builder(mem)
	defer idBuilder.Release()

	for _, k := range kinds {
		kindBuilder.Append(k)
		idBuilder.Append(types[k].ID)
	}

	cols := []arrow.Array{
		kindBuilder.NewArray(),
		idBuilder.NewArray(),
	}
	for _, c := range cols {
		defer c.Release()
	}
	return array.NewRecordBatch(errorTypesSchema, cols, int64(len(kinds)))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// readParams copies the parameter list at row i out of a list column.
func readParams(col *array.List, i int) []Parameter {
	start, end := col.ValueOffsets(i)
	st := col.ListValues().(*array.Struct)
	types := st.Field(0).(*array.String)
	names := st.Field(1).(*array.String)
	params := make([]Parameter, 0, end-start)
	for j := int(start); j < int(end); j++ {
		params = append(params, Parameter{
			Type: strings.Clone(types.Value(j)),
			Name: strings.Clone(names.Value(j)),
		})
	}
	return params
}
