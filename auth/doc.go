// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key checks and identifier helpers.

# Admin Keys

The reload endpoint is protected by a shared key sent in X-Admin-Key:

	if err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), cfg.AdminKey); err != nil {
		// 401
	}

Comparison is constant time. When no key is configured the server generates
one at startup:

	key, err := auth.GenerateAdminKey()

# ID Generation

Random hex IDs for request correlation:

	id, err := auth.GenerateID(8)  // 16 hex characters

# IP Hashing

Client addresses are logged hashed:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
