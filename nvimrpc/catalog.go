// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"fmt"
	"reflect"
)

// MethodID identifies a method within its catalog. IDs are dense and
// assigned in definition order starting at zero.
type MethodID int

// Signature describes one catalog entry.
type Signature struct {
	ID    MethodID
	Name  string
	Arity int
	// Params and Result are the Go types of a statically defined method.
	// They are nil for entries produced by CompileCatalog.
	Params []reflect.Type
	Result reflect.Type
	// ParamTypes and ResultType are api-info type strings. They are empty
	// for statically defined methods.
	ParamTypes []string
	ParamNames []string
	ResultType string
	// AutoCallable is false for methods whose reply can only be read
	// through CallWithReader.
	AutoCallable bool
}

// Catalog is a closed table of remote methods. Entries are added at program
// initialisation with Define and DefineRaw, or built from data by
// CompileCatalog. A catalog must not be modified once a client uses it.
type Catalog struct {
	name   string
	sigs   []Signature
	byName map[string]MethodID
	sealed bool
}

// NewCatalog creates an empty catalog.
func NewCatalog(name string) *Catalog {
	return &Catalog{name: name, byName: make(map[string]MethodID)}
}

// Name returns the catalog name.
func (c *Catalog) Name() string { return c.name }

// Len returns the number of methods.
func (c *Catalog) Len() int { return len(c.sigs) }

// IDs returns every method id in definition order.
func (c *Catalog) IDs() []MethodID {
	ids := make([]MethodID, len(c.sigs))
	for i := range ids {
		ids[i] = MethodID(i)
	}
	return ids
}

// Lookup finds a method by name.
func (c *Catalog) Lookup(name string) (MethodID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Signature returns the entry for id. It panics if id is out of range.
func (c *Catalog) Signature(id MethodID) Signature {
	if id < 0 || int(id) >= len(c.sigs) {
		panic(fmt.Sprintf("nvimrpc: catalog %q has no method id %d", c.name, id))
	}
	return c.sigs[id]
}

// Seal forbids further definitions and returns c.
func (c *Catalog) Seal() *Catalog {
	c.sealed = true
	return c
}

// Sealed reports whether Seal has been called.
func (c *Catalog) Sealed() bool { return c.sealed }

func (c *Catalog) add(sig Signature) (MethodID, error) {
	switch {
	case c.sealed:
		return 0, fmt.Errorf("catalog %q is sealed", c.name)
	case sig.Name == "":
		return 0, fmt.Errorf("empty method name")
	case sig.Arity > MaxArity:
		return 0, fmt.Errorf("%d parameters exceed the maximum of %d", sig.Arity, MaxArity)
	}
	if _, dup := c.byName[sig.Name]; dup {
		return 0, fmt.Errorf("duplicate method name")
	}
	sig.ID = MethodID(len(c.sigs))
	c.sigs = append(c.sigs, sig)
	c.byName[sig.Name] = sig.ID
	return sig.ID, nil
}

// Ref is a reference to a catalog entry.
type Ref interface {
	ID() MethodID
	Name() string
	Catalog() *Catalog
}

// Caller is a method reference whose parameter shape is P.
type Caller[P Tuple] interface {
	Ref
	params(P)
}

type methodRef struct {
	cat  *Catalog
	id   MethodID
	name string
}

// ID returns the method id.
func (m methodRef) ID() MethodID { return m.id }

// Name returns the remote method name.
func (m methodRef) Name() string { return m.name }

// Catalog returns the catalog the method was defined in.
func (m methodRef) Catalog() *Catalog { return m.cat }

// Method is an auto-callable method taking P and returning R.
type Method[P Tuple, R any] struct{ methodRef }

func (Method[P, R]) params(P) {}

// RawMethod is a method whose reply is only available undecoded, through
// CallWithReader.
type RawMethod[P Tuple] struct{ methodRef }

func (RawMethod[P]) params(P) {}

// Void is the result type of methods returning nothing.
type Void struct{}

// Define adds an auto-callable method to cat. It panics on an empty or
// duplicate name, a sealed catalog, or a result type that cannot be decoded.
func Define[P Tuple, R any](cat *Catalog, name string) Method[P, R] {
	result := reflect.TypeFor[R]()
	if err := checkDecodable(result); err != nil {
		panic(fmt.Sprintf("nvimrpc: defining %q: invalid result type %v: %v", name, result, err))
	}
	params := mustParams[P](name)
	id, err := cat.add(Signature{
		Name:         name,
		Arity:        len(params),
		Params:       params,
		Result:       result,
		AutoCallable: true,
	})
	if err != nil {
		panic(fmt.Sprintf("nvimrpc: defining %q: %v", name, err))
	}
	return Method[P, R]{methodRef{cat: cat, id: id, name: name}}
}

// DefineRaw adds a method that is not auto-callable. It panics under the
// same conditions as Define.
func DefineRaw[P Tuple](cat *Catalog, name string) RawMethod[P] {
	params := mustParams[P](name)
	id, err := cat.add(Signature{Name: name, Arity: len(params), Params: params})
	if err != nil {
		panic(fmt.Sprintf("nvimrpc: defining %q: %v", name, err))
	}
	return RawMethod[P]{methodRef{cat: cat, id: id, name: name}}
}

func mustParams[P Tuple](name string) []reflect.Type {
	params := tupleTypes[P]()
	for i, t := range params {
		if err := checkDecodable(t); err != nil {
			panic(fmt.Sprintf("nvimrpc: defining %q: invalid parameter %d type %v: %v", name, i+1, t, err))
		}
	}
	return params
}

// checkDecodable rejects types msgpack cannot decode into.
func checkDecodable(t reflect.Type) error {
	seen := map[reflect.Type]bool{}
	var walk func(reflect.Type) error
	walk = func(t reflect.Type) error {
		if seen[t] {
			return nil
		}
		seen[t] = true
		switch t.Kind() {
		case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
			return fmt.Errorf("kind %s is not decodable", t.Kind())
		case reflect.Pointer, reflect.Slice, reflect.Array:
			return walk(t.Elem())
		case reflect.Map:
			if err := walk(t.Key()); err != nil {
				return err
			}
			return walk(t.Elem())
		case reflect.Struct:
			for i := range t.NumField() {
				f := t.Field(i)
				if !f.IsExported() {
					continue
				}
				if err := walk(f.Type); err != nil {
					return fmt.Errorf("field %s: %w", f.Name, err)
				}
			}
		}
		return nil
	}
	return walk(t)
}
