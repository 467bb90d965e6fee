// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"errors"
	"fmt"
)

// ParamSpec is one positional parameter of a MethodSpec.
type ParamSpec struct {
	Type string
	Name string
}

// MethodSpec declares a method by its api-info type strings.
type MethodSpec struct {
	Name       string
	Parameters []ParamSpec
	ReturnType string
	// RawOnly marks the method as not auto-callable. Methods returning
	// Object are always raw-only.
	RawOnly bool
}

// SpecError reports an invalid MethodSpec passed to CompileCatalog.
type SpecError struct {
	Index  int
	Method string
	Reason string
}

func (e *SpecError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("nvimrpc: method spec %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("nvimrpc: method spec %d (%s): %s", e.Index, e.Method, e.Reason)
}

// CompileCatalog validates specs and builds a catalog of dynamically typed
// entries, callable with CallDynamic or through CallWithReader. All
// problems are reported together.
func CompileCatalog(name string, specs []MethodSpec) (*Catalog, error) {
	cat := NewCatalog(name)
	var errs []error
	for i, spec := range specs {
		sig, err := compileSpec(spec)
		if err != nil {
			errs = append(errs, &SpecError{Index: i, Method: spec.Name, Reason: err.Error()})
			continue
		}
		if _, err := cat.add(sig); err != nil {
			errs = append(errs, &SpecError{Index: i, Method: spec.Name, Reason: err.Error()})
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cat.Seal(), nil
}

func compileSpec(spec MethodSpec) (Signature, error) {
	if spec.Name == "" {
		return Signature{}, errors.New("missing name")
	}
	if spec.ReturnType == "" {
		return Signature{}, errors.New("missing return type")
	}
	ret, err := ParseType(spec.ReturnType)
	if err != nil {
		return Signature{}, err
	}
	if len(spec.Parameters) > MaxArity {
		return Signature{}, fmt.Errorf("%d parameters are not a tuple of at most %d positions", len(spec.Parameters), MaxArity)
	}
	sig := Signature{
		Name:         spec.Name,
		Arity:        len(spec.Parameters),
		ParamTypes:   make([]string, len(spec.Parameters)),
		ParamNames:   make([]string, len(spec.Parameters)),
		ResultType:   ret.String(),
		AutoCallable: !spec.RawOnly && !ret.IsObject(),
	}
	for i, p := range spec.Parameters {
		t, err := ParseType(p.Type)
		if err != nil {
			return Signature{}, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		if t.IsVoid() {
			return Signature{}, fmt.Errorf("parameter %d: void is not a value type", i+1)
		}
		sig.ParamTypes[i] = t.String()
		sig.ParamNames[i] = p.Name
	}
	return sig, nil
}

// SpecsFromApiInfo returns a MethodSpec for every function in info.
func SpecsFromApiInfo(info *ApiInfo) []MethodSpec {
	fns := info.Functions()
	specs := make([]MethodSpec, len(fns))
	for i, fn := range fns {
		params := make([]ParamSpec, len(fn.Parameters))
		for j, p := range fn.Parameters {
			params[j] = ParamSpec{Type: p.Type, Name: p.Name}
		}
		specs[i] = MethodSpec{Name: fn.Name, Parameters: params, ReturnType: fn.ReturnType}
	}
	return specs
}
