// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package snapshot stores a Neovim api-info map as zstd-compressed msgpack,
// so catalogs can be checked and generated without a running editor.
package snapshot

import (
	"bytes"
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/ugorji/go/codec"

	"github.com/Query-farm/nvim-rpc/nvimrpc/msgrpc"
)

// MaxDecodedSize bounds the decompressed size of a snapshot.
const MaxDecodedSize = 64 << 20

var handle = msgrpc.NewHandle()

// Check reports whether raw is a msgpack map carrying a functions list.
func Check(raw []byte) error {
	var m map[string]codec.Raw
	if err := msgrpc.Unmarshal(handle, raw, &m); err != nil {
		return errors.NewNotValid(err, "api-info")
	}
	if _, ok := m["functions"]; !ok {
		return errors.NotValidf("api-info without functions")
	}
	return nil
}

// Save compresses raw api-info msgpack to w.
func Save(w io.Writer, raw []byte) error {
	if err := Check(raw); err != nil {
		return errors.Trace(err)
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return errors.Trace(err)
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return errors.Annotate(err, "writing snapshot")
	}
	return errors.Annotate(enc.Close(), "writing snapshot")
}

// Load decompresses a snapshot from r and returns the api-info msgpack.
func Load(r io.Reader) ([]byte, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderMaxMemory(MaxDecodedSize))
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer dec.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, dec); err != nil {
		return nil, errors.Annotate(err, "reading snapshot")
	}
	raw := buf.Bytes()
	if err := Check(raw); err != nil {
		return nil, errors.Trace(err)
	}
	return raw, nil
}

// WriteFile saves raw to path.
func WriteFile(path string, raw []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	if err := Save(f, raw); err != nil {
		f.Close()
		return errors.Annotatef(err, "snapshot %s", path)
	}
	return errors.Trace(f.Close())
}

// ReadFile loads the snapshot at path.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	raw, err := Load(f)
	return raw, errors.Annotatef(err, "snapshot %s", path)
}
