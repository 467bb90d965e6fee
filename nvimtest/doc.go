// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package nvimtest provides an in-process fake Neovim peer for tests and
// benchmarks. A [Peer] answers the nvim_get_api_info handshake from an
// [Info] value, serves scripted method handlers, and can send requests and
// notifications back to the client from inside a handler.
//
// [RegisterEditor] installs a small in-memory editor (buffers, lines,
// global variables, mode) implementing a subset of the Neovim API.
package nvimtest
