// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

// HandshakeMethod is issued by Open to fetch the channel id and api-info.
// It is never validated against api-info.
const HandshakeMethod = "nvim_get_api_info"

// Handle type names in the api-info "types" table.
const (
	TypeBuffer  = "Buffer"
	TypeWindow  = "Window"
	TypeTabpage = "Tabpage"
)

// Error type names in the api-info "error_types" table.
const (
	ErrorTypeException  = "Exception"
	ErrorTypeValidation = "Validation"
)

// Call variants reported to a CallHook.
const (
	CallSync       = "call"
	CallReader     = "call_with_reader"
	CallWriter     = "call_with_writer"
	CallNotify     = "notify"
	CallDynamicVar = "call_dynamic"
)
