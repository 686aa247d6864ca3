// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Vocal Royale API.

# Route Registration

NewRouter creates a configured chi.Mux with all endpoints:

	mux := router.NewRouter(st, cfg, rng)

# Endpoints

Health:

	GET /health

Sessions (public):

	POST /auth/register - Create account and open session
	POST /auth/login    - Open session
	POST /auth/logout   - Close session

Authenticated (Bearer token):

	GET  /auth/me       - Current user
	GET  /songs         - Own song choices
	POST /songs         - Save/confirm a song choice
	POST /checkin       - Check in for the competition
	GET  /rating/state  - Rating screen state
	POST /rating/api    - Submit a rating
	GET  /results/state - Round results (?round=n)

Admin (requires admin role):

	GET /admin/api      - Competition state
	POST /admin/api     - Execute admin action
	GET /admin/settings - Competition settings
	PUT /admin/settings - Update settings
*/
package router
