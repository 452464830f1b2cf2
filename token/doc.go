// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package token encodes overlay configurations into URL-safe tokens.

# Full Tokens

Encode writes the configuration as JSON with a fixed field order and encodes
it with the URL-safe base64 alphabet, padding stripped:

	codec := token.NewCodec(platform.Default())
	tok, err := codec.Encode(cfg)
	cfg, err := codec.Decode(tok)

Decode restores the standard alphabet and padding before decoding, so tokens
from the browser editor (btoa with - and _ substituted) decode as well.

# Compact Tokens

Compress shortens keys and maps built-in platforms to two-letter codes:

	tok, err := codec.Compress(cfg)
	cfg, err := codec.Decompress(tok)

Unknown codes decode to themselves. DecodeAny accepts either form.

# Errors

	ErrMalformed       // not base64, or not JSON
	ErrInvalidSchema   // JSON without a non-empty platform list
	ErrUnknownPlatform // strict mode only, wraps ErrInvalidSchema

Decoding never panics; callers fall back to defaults on any error.

# Strict Mode

WithStrictPlatforms makes every operation reject platform IDs that are not
in the registry, including unknown compact codes.
*/
package token
