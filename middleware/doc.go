// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, client IP) and completion (status,
duration_ms). The wrapped writer supports http.NewResponseController, so
streaming handlers can still flush.

# CORS Middleware

router.NewRouter wraps the whole mux so a settings editor on another origin
can call the API:

	return middleware.CORS(mux)

The request Origin is reflected (or * without one) for methods GET, POST and
OPTIONS with the Content-Type header. Preflights carrying
Access-Control-Request-Method get 204; credentials are never allowed.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies (capped at 64 KiB):

	var req models.CreateLinkRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used in request logs.
*/
package middleware
