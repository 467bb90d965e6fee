// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/Query-farm/nvim-rpc/nvimrpc/msgrpc"
)

// Version is the peer's version record.
type Version struct {
	Major         int64
	Minor         int64
	Patch         int64
	APILevel      int64
	APICompatible int64
	APIPrerelease bool
	Prerelease    bool
	Build         string
}

func (v Version) String() string {
	s := fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease {
		s += "-dev"
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// Parameter is one [type, name] pair of a function or event.
type Parameter struct {
	Type string
	Name string
}

// FunctionInfo is one row of the functions table.
type FunctionInfo struct {
	Name       string
	Parameters []Parameter
	ReturnType string
	Method     bool
	Since      int64
	// DeprecatedSince is nil when the function is not deprecated.
	DeprecatedSince *int64
}

// EventInfo is one row of the ui events table.
type EventInfo struct {
	Name       string
	Parameters []Parameter
	Since      int64
}

// HandleType describes a remote handle type.
type HandleType struct {
	Kind   string
	ID     int64
	Prefix string
}

// ApiInfo is the peer's capability metadata. Its tables are Arrow record
// batches owned by the allocator given at decode time; they are immutable
// and safe for concurrent reads until Release.
type ApiInfo struct {
	version     Version
	functions   arrow.RecordBatch
	events      arrow.RecordBatch
	uiOptions   *array.String
	handleTypes arrow.RecordBatch
	errorTypes  arrow.RecordBatch
	released    bool
}

// wire shapes of the api-info map.
type apiInfoWire struct {
	Version    versionWire               `codec:"version"`
	Functions  []functionWire            `codec:"functions"`
	UIEvents   []eventWire               `codec:"ui_events"`
	UIOptions  []string                  `codec:"ui_options"`
	Types      map[string]handleTypeWire `codec:"types"`
	ErrorTypes map[string]errorTypeWire  `codec:"error_types"`
}

type versionWire struct {
	Major         int64  `codec:"major"`
	Minor         int64  `codec:"minor"`
	Patch         int64  `codec:"patch"`
	APILevel      int64  `codec:"api_level"`
	APICompatible int64  `codec:"api_compatible"`
	APIPrerelease bool   `codec:"api_prerelease"`
	Prerelease    bool   `codec:"prerelease"`
	Build         string `codec:"build"`
}

type functionWire struct {
	Name            string     `codec:"name"`
	Parameters      [][]string `codec:"parameters"`
	ReturnType      string     `codec:"return_type"`
	Method          bool       `codec:"method"`
	Since           int64      `codec:"since"`
	DeprecatedSince *int64     `codec:"deprecated_since"`
}

type eventWire struct {
	Name       string     `codec:"name"`
	Parameters [][]string `codec:"parameters"`
	Since      int64      `codec:"since"`
}

type handleTypeWire struct {
	ID     int64  `codec:"id"`
	Prefix string `codec:"prefix"`
}

type errorTypeWire struct {
	ID int64 `codec:"id"`
}

// DecodeApiInfo decodes a msgpack-encoded api-info map. A nil mem uses the
// Go allocator.
func DecodeApiInfo(mem memory.Allocator, raw []byte) (*ApiInfo, error) {
	var w apiInfoWire
	if err := msgrpc.Unmarshal(plainHandle, raw, &w); err != nil {
		return nil, fmt.Errorf("nvimrpc: decoding api-info: %w", err)
	}
	return newApiInfo(mem, &w)
}

func newApiInfo(mem memory.Allocator, w *apiInfoWire) (*ApiInfo, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	for i, fn := range w.Functions {
		if fn.Name == "" {
			return nil, fmt.Errorf("nvimrpc: api-info function %d has no name", i)
		}
	}
	return &ApiInfo{
		version: Version{
			Major:         w.Version.Major,
			Minor:         w.Version.Minor,
			Patch:         w.Version.Patch,
			APILevel:      w.Version.APILevel,
			APICompatible: w.Version.APICompatible,
			APIPrerelease: w.Version.APIPrerelease,
			Prerelease:    w.Version.Prerelease,
			Build:         w.Version.Build,
		},
		functions:   buildFunctions(mem, w.Functions),
		events:      buildEvents(mem, w.UIEvents),
		uiOptions:   buildStrings(mem, w.UIOptions),
		handleTypes: buildHandleTypes(mem, w.Types),
		errorTypes:  buildErrorTypes(mem, w.ErrorTypes),
	}, nil
}

// Release frees every table. It is safe to call more than once; only the
// first call has an effect.
func (a *ApiInfo) Release() {
	if a == nil || a.released {
		return
	}
	a.released = true
	// Runs functions first and error types last.
	defer a.errorTypes.Release()
	defer a.handleTypes.Release()
	defer a.uiOptions.Release()
	defer a.events.Release()
	defer a.functions.Release()
}

// Version returns the peer's version record.
func (a *ApiInfo) Version() Version { return a.version }

// APILevel returns the peer's api level.
func (a *ApiInfo) APILevel() int64 { return a.version.APILevel }

// NumFunctions returns the number of functions the peer publishes.
func (a *ApiInfo) NumFunctions() int { return int(a.functions.NumRows()) }

// Function returns row i of the functions table.
func (a *ApiInfo) Function(i int) FunctionInfo {
	names := a.functions.Column(fnName).(*array.String)
	returns := a.functions.Column(fnReturn).(*array.String)
	methods := a.functions.Column(fnMethod).(*array.Boolean)
	since := a.functions.Column(fnSince).(*array.Int64)
	deprecated := a.functions.Column(fnDeprecated).(*array.Int64)

	fn := FunctionInfo{
		Name:       strings.Clone(names.Value(i)),
		Parameters: readParams(a.functions.Column(fnParams).(*array.List), i),
		ReturnType: strings.Clone(returns.Value(i)),
		Method:     methods.Value(i),
		Since:      since.Value(i),
	}
	if deprecated.IsValid(i) {
		v := deprecated.Value(i)
		fn.DeprecatedSince = &v
	}
	return fn
}

// Functions returns every function in peer order.
func (a *ApiInfo) Functions() []FunctionInfo {
	out := make([]FunctionInfo, a.NumFunctions())
	for i := range out {
		out[i] = a.Function(i)
	}
	return out
}

// FindFunction returns the row of the first function named name. Names are
// compared by length first, then by bytes.
func (a *ApiInfo) FindFunction(name string) (int, bool) {
	names := a.functions.Column(fnName).(*array.String)
	for i := range names.Len() {
		v := names.Value(i)
		if len(v) == len(name) && v == name {
			return i, true
		}
	}
	return -1, false
}

// deprecatedSince returns the deprecation level of row i.
func (a *ApiInfo) deprecatedSince(i int) (int64, bool) {
	col := a.functions.Column(fnDeprecated).(*array.Int64)
	if col.IsNull(i) {
		return 0, false
	}
	return col.Value(i), true
}

// NumEvents returns the number of ui events.
func (a *ApiInfo) NumEvents() int { return int(a.events.NumRows()) }

// Event returns row i of the ui events table.
func (a *ApiInfo) Event(i int) EventInfo {
	names := a.events.Column(0).(*array.String)
	since := a.events.Column(2).(*array.Int64)
	return EventInfo{
		Name:       strings.Clone(names.Value(i)),
		Parameters: readParams(a.events.Column(1).(*array.List), i),
		Since:      since.Value(i),
	}
}

// Events returns every ui event.
func (a *ApiInfo) Events() []EventInfo {
	out := make([]EventInfo, a.NumEvents())
	for i := range out {
		out[i] = a.Event(i)
	}
	return out
}

// UIOptions returns the ui option names.
func (a *ApiInfo) UIOptions() []string {
	out := make([]string, a.uiOptions.Len())
	for i := range out {
		out[i] = strings.Clone(a.uiOptions.Value(i))
	}
	return out
}

// HandleType looks up a remote handle type by kind ("Buffer", "Window",
// "Tabpage").
func (a *ApiInfo) HandleType(kind string) (HandleType, bool) {
	kinds := a.handleTypes.Column(0).(*array.String)
	ids := a.handleTypes.Column(1).(*array.Int64)
	prefixes := a.handleTypes.Column(2).(*array.String)
	for i := range kinds.Len() {
		if kinds.Value(i) == kind {
			return HandleType{
				Kind:   strings.Clone(kinds.Value(i)),
				ID:     ids.Value(i),
				Prefix: strings.Clone(prefixes.Value(i)),
			}, true
		}
	}
	return HandleType{}, false
}

// ErrorKindName maps an error type id to its name.
func (a *ApiInfo) ErrorKindName(id int64) (string, bool) {
	if a == nil {
		return "", false
	}
	kinds := a.errorTypes.Column(0).(*array.String)
	ids := a.errorTypes.Column(1).(*array.Int64)
	for i := range ids.Len() {
		if ids.Value(i) == id {
			return strings.Clone(kinds.Value(i)), true
		}
	}
	return "", false
}

// ErrorKindID maps an error type name to its id.
func (a *ApiInfo) ErrorKindID(name string) (int64, bool) {
	kinds := a.errorTypes.Column(0).(*array.String)
	ids := a.errorTypes.Column(1).(*array.Int64)
	for i := range kinds.Len() {
		if kinds.Value(i) == name {
			return ids.Value(i), true
		}
	}
	return 0, false
}

// FunctionsTable returns the functions record batch. It is owned by a and
// must not be used after Release unless the caller retains it.
func (a *ApiInfo) FunctionsTable() arrow.RecordBatch { return a.functions }

// WriteIPC writes the functions table to w as an Arrow IPC stream.
func (a *ApiInfo) WriteIPC(w io.Writer) error {
	if a.released {
		return errors.New("nvimrpc: api-info released")
	}
	iw := ipc.NewWriter(w, ipc.WithSchema(functionsSchema))
	if err := iw.Write(a.functions); err != nil {
		iw.Close()
		return err
	}
	return iw.Close()
}
