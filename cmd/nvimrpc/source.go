// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/Query-farm/nvim-rpc/snapshot"
)

// apiSource selects where offline commands read api-info from.
type apiSource struct {
	snapshot string
	apiInfo  string
}

func (s *apiSource) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.snapshot, "snapshot", "", "read api-info from a snapshot file")
	cmd.Flags().StringVar(&s.apiInfo, "api-info", "", "read raw api-info msgpack (nvim --api-info), - for stdin")
}

func (s *apiSource) offline() bool {
	return s.snapshot != "" || s.apiInfo != ""
}

// load returns the raw api-info map and a description of its origin. With
// no file flag set the live peer is asked.
func (s *apiSource) load(ctx context.Context, a *app, stdin io.Reader) ([]byte, string, error) {
	switch {
	case s.snapshot != "" && s.apiInfo != "":
		return nil, "", errors.BadRequestf("--snapshot and --api-info are exclusive")
	case s.snapshot != "":
		raw, err := snapshot.ReadFile(s.snapshot)
		return raw, "snapshot " + s.snapshot, errors.Trace(err)
	case s.apiInfo == "-":
		raw, err := io.ReadAll(stdin)
		if err == nil {
			err = snapshot.Check(raw)
		}
		return raw, "nvim --api-info", errors.Annotate(err, "api-info from stdin")
	case s.apiInfo != "":
		raw, err := os.ReadFile(s.apiInfo)
		if err == nil {
			err = snapshot.Check(raw)
		}
		return raw, "nvim --api-info", errors.Annotatef(err, "api-info %s", s.apiInfo)
	}
	raw, err := a.fetchApiInfo(ctx)
	return raw, "nvim_get_api_info", errors.Trace(err)
}
