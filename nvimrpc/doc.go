// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package nvimrpc is a statically typed msgpack-rpc client for Neovim.
//
// Remote methods are declared once, in a [Catalog], with their parameter
// shape and result type:
//
//	var (
//		api        = nvimrpc.NewCatalog("editor")
//		bufGetName = nvimrpc.Define[nvimrpc.Tuple1[nvimrpc.Buffer], string](api, "nvim_buf_get_name")
//		command    = nvimrpc.Define[nvimrpc.Tuple1[string], nvimrpc.Void](api, "nvim_command")
//	)
//
// Parameter shapes are always tuples ([Tuple0] through [Tuple8]); a method
// without parameters uses [Tuple0]. Methods whose result has no useful
// static type are declared with [DefineRaw] and can only be read through
// [CallWithReader].
//
// # Sessions
//
// [Open] performs the nvim_get_api_info handshake over any writer/reader
// pair and returns a [Client]. The peer's metadata is kept as Apache Arrow
// tables ([ApiInfo]) allocated from [Options].Allocator and released by
// [Client.Close].
//
// Before each call the method is checked against the peer's metadata:
// a method the peer does not publish fails with [ErrNotFindApi], and one
// deprecated at or below the peer's api level fails with
// [ErrAPIDeprecated]. The handshake method itself is never checked. Set
// [Options].SkipValidation to turn the check off.
//
// # Errors
//
// Transport failures are returned as *[ConnectionError]. Errors reported
// by the peer are returned as *[RpcError], whose Type is resolved through
// the peer's error_types table; use errors.Is(err, [ErrRpc]).
//
// # Concurrency
//
// A Client is sequential. A call writes its request and reads until its
// reply arrives, serving peer-initiated messages through the [Router] in
// the meantime. There are no internal goroutines or locks and no retries.
// A blocked call can only be aborted by closing the transport.
package nvimrpc
