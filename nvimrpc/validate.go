// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

// Validate checks that the peer publishes method and has not deprecated it
// at or below its api level. The handshake method always passes.
func (a *ApiInfo) Validate(method string) error {
	if method == HandshakeMethod {
		return nil
	}
	i, ok := a.FindFunction(method)
	if !ok {
		return &ValidationError{Method: method, APILevel: a.version.APILevel, Err: ErrNotFindApi}
	}
	if since, deprecated := a.deprecatedSince(i); deprecated && since <= a.version.APILevel {
		return &ValidationError{
			Method:          method,
			APILevel:        a.version.APILevel,
			DeprecatedSince: since,
			Err:             ErrAPIDeprecated,
		}
	}
	return nil
}
