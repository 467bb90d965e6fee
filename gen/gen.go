// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package gen emits Go source for a typed method catalog from a Neovim
// api-info description. Every function becomes a Define or DefineRaw
// variable; functions returning Object are raw-only.
package gen

import (
	"bytes"
	"go/format"
	"path"
	"strconv"
	"strings"
	"text/template"

	"github.com/juju/errors"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
)

// Config controls code generation.
type Config struct {
	// Package is the generated package name. Default "nvimapi".
	Package string
	// CatalogVar is the catalog variable name. Default "Catalog".
	CatalogVar string
	// CatalogName is passed to NewCatalog. Default "nvim".
	CatalogName string
	// Include holds path.Match patterns; when non-empty only matching
	// functions are generated.
	Include []string
	// Exclude holds path.Match patterns of functions to leave out.
	Exclude []string
	// SkipDeprecated leaves out functions deprecated at the peer's api level.
	SkipDeprecated bool
	// Source describes where the api-info came from, for the header.
	Source string
	// Header is emitted verbatim above the generated-code marker, typically
	// a license comment.
	Header string
}

func (c *Config) setDefaults() {
	if c.Package == "" {
		c.Package = "nvimapi"
	}
	if c.CatalogVar == "" {
		c.CatalogVar = "Catalog"
	}
	if c.CatalogName == "" {
		c.CatalogName = "nvim"
	}
}

type method struct {
	Var        string
	Name       string
	Params     []string
	Result     string
	Raw        bool
	Signature  string
	Deprecated int64
}

func (m method) Tuple() string {
	if len(m.Params) == 0 {
		return "nvimrpc.Tuple0"
	}
	return "nvimrpc.Tuple" + strconv.Itoa(len(m.Params)) + "[" + strings.Join(m.Params, ", ") + "]"
}

type fileData struct {
	Config
	Version  string
	APILevel int64
	Methods  []method
}

var fileT = template.Must(template.New("").Parse(`{{with .Header}}{{.}}

{{end}}// Code generated by nvimrpc gen{{if .Source}} from {{.Source}}{{end}}. DO NOT EDIT.

// Package {{.Package}} is a typed catalog of the Neovim API, generated from
// nvim {{.Version}} (api level {{.APILevel}}).
package {{.Package}}

import "github.com/Query-farm/nvim-rpc/nvimrpc"

// {{.CatalogVar}} holds every method of this package.
var {{.CatalogVar}} = nvimrpc.NewCatalog({{printf "%q" .CatalogName}})

var (
{{- range $i, $m := .Methods}}
{{- if $i}}
{{end}}
	// {{.Var}} calls {{.Signature}}.
{{- if .Deprecated}}
	//
	// Deprecated: deprecated since api level {{.Deprecated}}.
{{- end}}
{{- if .Raw}}
	{{.Var}} = nvimrpc.DefineRaw[{{.Tuple}}]({{$.CatalogVar}}, {{printf "%q" $m.Name}})
{{- else}}
	{{.Var}} = nvimrpc.Define[{{.Tuple}}, {{.Result}}]({{$.CatalogVar}}, {{printf "%q" $m.Name}})
{{- end}}
{{- end}}
)

func init() {
	{{.CatalogVar}}.Seal()
}
`))

// Generate returns formatted Go source for the functions in info selected
// by cfg. The selection is compiled with CompileCatalog first, so invalid
// descriptions fail here rather than in the generated package.
func Generate(info *nvimrpc.ApiInfo, cfg Config) ([]byte, error) {
	cfg.setDefaults()
	cfg.Header = strings.TrimRight(cfg.Header, "\n")
	fns, err := selectFunctions(info, cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}

	specs := make([]nvimrpc.MethodSpec, len(fns))
	for i, fn := range fns {
		params := make([]nvimrpc.ParamSpec, len(fn.Parameters))
		for j, p := range fn.Parameters {
			params[j] = nvimrpc.ParamSpec{Type: p.Type, Name: p.Name}
		}
		specs[i] = nvimrpc.MethodSpec{Name: fn.Name, Parameters: params, ReturnType: fn.ReturnType}
	}
	cat, err := nvimrpc.CompileCatalog(cfg.CatalogName, specs)
	if err != nil {
		return nil, errors.Annotate(err, "compiling catalog")
	}

	data := fileData{
		Config:   cfg,
		Version:  info.Version().String(),
		APILevel: info.APILevel(),
	}
	seen := make(map[string]string, len(fns))
	for i, id := range cat.IDs() {
		m, err := newMethod(cat.Signature(id))
		if err != nil {
			return nil, errors.Annotatef(err, "method %s", fns[i].Name)
		}
		if other, dup := seen[m.Var]; dup {
			return nil, errors.AlreadyExistsf("identifier %s for %s and %s", m.Var, other, m.Name)
		}
		seen[m.Var] = m.Name
		if fns[i].DeprecatedSince != nil {
			m.Deprecated = *fns[i].DeprecatedSince
		}
		data.Methods = append(data.Methods, m)
	}

	var buf bytes.Buffer
	if err := fileT.Execute(&buf, data); err != nil {
		return nil, errors.Trace(err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Annotate(err, "formatting generated source")
	}
	return out, nil
}

func selectFunctions(info *nvimrpc.ApiInfo, cfg Config) ([]nvimrpc.FunctionInfo, error) {
	var out []nvimrpc.FunctionInfo
	for _, fn := range info.Functions() {
		ok, err := matches(cfg.Include, fn.Name, true)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if excluded, err := matches(cfg.Exclude, fn.Name, false); err != nil {
			return nil, err
		} else if excluded {
			continue
		}
		if cfg.SkipDeprecated && fn.DeprecatedSince != nil && *fn.DeprecatedSince <= info.APILevel() {
			continue
		}
		out = append(out, fn)
	}
	return out, nil
}

func matches(patterns []string, name string, empty bool) (bool, error) {
	if len(patterns) == 0 {
		return empty, nil
	}
	for _, p := range patterns {
		ok, err := path.Match(p, name)
		if err != nil {
			return false, errors.Annotatef(err, "pattern %q", p)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func newMethod(sig nvimrpc.Signature) (method, error) {
	m := method{
		Var:  Identifier(sig.Name),
		Name: sig.Name,
		Raw:  !sig.AutoCallable,
	}
	args := make([]string, len(sig.ParamTypes))
	for i, ts := range sig.ParamTypes {
		t, err := nvimrpc.ParseType(ts)
		if err != nil {
			return method{}, errors.Trace(err)
		}
		goType, err := GoType(t)
		if err != nil {
			return method{}, errors.Annotatef(err, "parameter %s", sig.ParamNames[i])
		}
		m.Params = append(m.Params, goType)
		args[i] = sig.ParamNames[i] + " " + ts
	}
	if !m.Raw {
		t, err := nvimrpc.ParseType(sig.ResultType)
		if err != nil {
			return method{}, errors.Trace(err)
		}
		if m.Result, err = GoType(t); err != nil {
			return method{}, errors.Annotate(err, "result")
		}
	}
	m.Signature = sig.Name + "(" + strings.Join(args, ", ") + ") " + sig.ResultType
	return m, nil
}
