// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// DeprecatedMethod is a catalog method the peer has deprecated.
type DeprecatedMethod struct {
	Name            string
	DeprecatedSince int64
	APILevel        int64
}

// Report compares a catalog with a peer's api-info.
type Report struct {
	Catalog    string
	Peer       Version
	Checked    int
	Missing    []string           // catalog methods the peer does not publish
	Deprecated []DeprecatedMethod // catalog methods that fail the deprecation check
	PeerOnly   []string           // peer functions absent from the catalog, sorted
}

// OK reports whether every catalog method would pass validation.
func (r Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Deprecated) == 0
}

// Check runs the pre-call validation for every method of cat against info.
func Check(cat *Catalog, info *ApiInfo) Report {
	rep := Report{Catalog: cat.Name(), Peer: info.Version(), Checked: cat.Len()}
	for _, sig := range cat.sigs {
		err := info.Validate(sig.Name)
		var verr *ValidationError
		switch {
		case err == nil:
		case errors.As(err, &verr) && errors.Is(err, ErrAPIDeprecated):
			rep.Deprecated = append(rep.Deprecated, DeprecatedMethod{
				Name:            sig.Name,
				DeprecatedSince: verr.DeprecatedSince,
				APILevel:        verr.APILevel,
			})
		default:
			rep.Missing = append(rep.Missing, sig.Name)
		}
	}
	for i := range info.NumFunctions() {
		name := info.Function(i).Name
		if _, ok := cat.Lookup(name); !ok {
			rep.PeerOnly = append(rep.PeerOnly, name)
		}
	}
	sort.Strings(rep.PeerOnly)
	return rep
}

// WriteTo prints the report in a human-readable form.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var n int64
	p := func(format string, args ...any) error {
		k, err := fmt.Fprintf(w, format, args...)
		n += int64(k)
		return err
	}
	if err := p("catalog %s against nvim %s (api level %d): %d methods checked\n", r.Catalog, r.Peer, r.Peer.APILevel, r.Checked); err != nil {
		return n, err
	}
	for _, m := range r.Missing {
		if err := p("  missing     %s\n", m); err != nil {
			return n, err
		}
	}
	for _, d := range r.Deprecated {
		if err := p("  deprecated  %s (since %d)\n", d.Name, d.DeprecatedSince); err != nil {
			return n, err
		}
	}
	if err := p("%d peer functions not in catalog\n", len(r.PeerOnly)); err != nil {
		return n, err
	}
	return n, nil
}
