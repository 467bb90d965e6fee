// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeExpr is a parsed api-info type string such as "Integer",
// "ArrayOf(String, 2)" or "Dict(win_config)".
type TypeExpr struct {
	Name   string
	Args   []TypeExpr // element types of ArrayOf, DictOf and Union
	Len    int        // fixed length of ArrayOf(T, n), 0 otherwise
	Keyset string     // keyset name of Dict(name)
}

// Base type names known to the parser.
var baseTypes = map[string]bool{
	"Integer":    true,
	"Float":      true,
	"Boolean":    true,
	"String":     true,
	"Array":      true,
	"Dictionary": true,
	"Dict":       true,
	"Object":     true,
	"Buffer":     true,
	"Window":     true,
	"Tabpage":    true,
	"LuaRef":     true,
	"void":       true,
	"ArrayOf":    true,
	"DictOf":     true,
	"Union":      true,
}

// ParseType parses an api-info type string.
func ParseType(s string) (TypeExpr, error) {
	p := typeParser{src: s}
	t, err := p.parse()
	if err != nil {
		return TypeExpr{}, fmt.Errorf("parsing type %q: %w", s, err)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return TypeExpr{}, fmt.Errorf("parsing type %q: trailing input at %d", s, p.pos)
	}
	return t, nil
}

// IsVoid reports whether t is the void return type.
func (t TypeExpr) IsVoid() bool { return t.Name == "void" }

// IsObject reports whether t is the dynamically typed Object.
func (t TypeExpr) IsObject() bool { return t.Name == "Object" }

// IsKeyset reports whether t is a keyword dictionary with named fields.
func (t TypeExpr) IsKeyset() bool { return t.Name == "Dict" && t.Keyset != "" }

func (t TypeExpr) String() string {
	switch {
	case t.Keyset != "":
		return t.Name + "(" + t.Keyset + ")"
	case len(t.Args) == 0:
		return t.Name
	}
	args := make([]string, 0, len(t.Args)+1)
	for _, a := range t.Args {
		args = append(args, a.String())
	}
	if t.Len > 0 {
		args = append(args, strconv.Itoa(t.Len))
	}
	return t.Name + "(" + strings.Join(args, ", ") + ")"
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) accept(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) parse() (TypeExpr, error) {
	name := p.ident()
	if name == "" {
		return TypeExpr{}, fmt.Errorf("expected type name at %d", p.pos)
	}
	if !baseTypes[name] {
		return TypeExpr{}, fmt.Errorf("unknown type %q", name)
	}
	t := TypeExpr{Name: name}
	if !p.accept('(') {
		switch name {
		case "ArrayOf", "DictOf", "Union":
			return TypeExpr{}, fmt.Errorf("%s requires arguments", name)
		}
		return t, nil
	}
	switch name {
	case "Dict":
		t.Keyset = p.ident()
		if t.Keyset == "" {
			return TypeExpr{}, fmt.Errorf("Dict requires a keyset name")
		}
	case "ArrayOf", "DictOf", "Union":
		for {
			p.skipSpace()
			if name == "ArrayOf" && len(t.Args) == 1 && p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
				n, err := strconv.Atoi(p.ident())
				if err != nil {
					return TypeExpr{}, err
				}
				t.Len = n
			} else {
				arg, err := p.parse()
				if err != nil {
					return TypeExpr{}, err
				}
				t.Args = append(t.Args, arg)
			}
			if !p.accept(',') {
				break
			}
		}
	default:
		return TypeExpr{}, fmt.Errorf("%s takes no arguments", name)
	}
	if !p.accept(')') {
		return TypeExpr{}, fmt.Errorf("expected ')' at %d", p.pos)
	}
	return t, nil
}
