// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package resolver picks the overlay configuration from query parameters.

# Precedence

	t                       token (full or compact); wins over everything
	data                    JSON array of {platform, text}
	hold, animIn, animOut   milliseconds, each optional

A token that decodes short-circuits the other parameters even when they are
present. A bad token, a bad data param or a non-numeric timing is logged and
treated as absent. With no usable items the built-in DefaultItems() are used, so
Resolve always returns a non-empty configuration:

	r := resolver.New(codec)
	cfg := r.Resolve(req.URL.Query())
*/
package resolver
