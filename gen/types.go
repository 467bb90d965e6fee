// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package gen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/juju/errors"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
)

// GoType returns the Go type used for t in generated code. The result is
// qualified with the nvimrpc package name where needed.
func GoType(t nvimrpc.TypeExpr) (string, error) {
	switch t.Name {
	case "Integer", "LuaRef":
		return "int64", nil
	case "Float":
		return "float64", nil
	case "Boolean":
		return "bool", nil
	case "String":
		return "string", nil
	case "Object", "Union":
		return "any", nil
	case "Array":
		return "[]any", nil
	case "Dictionary", "Dict":
		return "map[string]any", nil
	case "Buffer", "Window", "Tabpage":
		return "nvimrpc." + t.Name, nil
	case "void":
		return "nvimrpc.Void", nil
	case "ArrayOf":
		elem, err := elemType(t)
		if err != nil {
			return "", err
		}
		if t.Len > 0 {
			return fmt.Sprintf("[%d]%s", t.Len, elem), nil
		}
		return "[]" + elem, nil
	case "DictOf":
		elem, err := elemType(t)
		if err != nil {
			return "", err
		}
		return "map[string]" + elem, nil
	}
	return "", errors.NotSupportedf("type %s", t)
}

func elemType(t nvimrpc.TypeExpr) (string, error) {
	if len(t.Args) != 1 {
		return "", errors.NotValidf("%s with %d element types", t, len(t.Args))
	}
	elem, err := GoType(t.Args[0])
	return elem, errors.Trace(err)
}

// Identifier returns the exported Go name for an api method: the "nvim_"
// prefix is dropped and the remaining words are joined in camel case, so
// "nvim_buf_get_lines" becomes "BufGetLines".
func Identifier(method string) string {
	name := strings.TrimPrefix(method, "nvim_")
	var b strings.Builder
	for _, word := range strings.Split(name, "_") {
		if word == "" {
			continue
		}
		r := []rune(word)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	if b.Len() == 0 {
		return "Method"
	}
	out := b.String()
	if !unicode.IsLetter([]rune(out)[0]) {
		out = "M" + out
	}
	return out
}
