// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth identifies the viewer of a request.

Sign-in happens at the identity provider in front of the API. The provider
forwards the user as three headers:

	X-User-Id:    42
	X-Username:   alice
	X-User-Token: HMAC-SHA256(salt, "42"), URL-safe base64 without padding

# User Tokens

	token := auth.GenerateUserToken(42, salt)
	err := auth.ValidateUserToken(42, token, salt)

Tokens are deterministic, so nothing is stored server-side.

# Request Identity

	user, err := auth.IdentityFromRequest(r, salt)

Returns ErrMissingIdentity, ErrInvalidUserID or ErrInvalidToken on failure.
SetIdentity writes the headers for a user and is used by tests and clients.
*/
package auth
