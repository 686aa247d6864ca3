// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Authentication

RequireUser resolves the Authorization bearer token through the session
store and places the user in the request context:

	r.Use(middleware.RequireUser(st))
	user, ok := middleware.UserFromContext(r.Context())

RequireRole gates a subtree on a role and must follow RequireUser:

	r.Use(middleware.RequireRole(models.RoleAdmin))

Failures are 401 {"error":"unauthenticated"} and 403 {"error":"forbidden"}.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, payload)
	middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidRound)
	err := middleware.ParseJSONBody(r, &req)

ErrorResponse always writes a stable machine-readable code in the "error"
field; handlers with extra diagnostic fields (missing_ratings) write their
own struct through JSONResponse.

# Logging and CORS

WithLogging logs request start/completion with method, path and duration.
CORS reflects the Origin header so the SvelteKit front end on another
origin can call the API with credentials.
*/
package middleware
