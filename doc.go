// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Vocal Royale API server.

Vocal Royale is the backend for a multi-round singing competition: admins
drive each round through singing, rating and result phases, the audience and
jurors rate every performance on a 1-5 scale (juror votes weigh double), and
the weakest participants are eliminated per round until the finale crowns a
winner.

# Starting the Server

The server reads configuration from environment variables (a .env file is
honored) or CLI flags:

	DATABASE_URL=postgres://... go run .

Or with flags:

	go run . -p 8090 -d "postgres://..." -admin-user admin -admin-pass secret

Run without a database using the in-memory store:

	go run . -t memory

# Configuration

Required settings (postgres store):

  - DATABASE_URL (-d): PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 8090)
  - STORE_TYPE (-t): "postgres" (default) or "memory"
  - SESSION_SALT (-session-salt): Secret for IP hashing
  - ADMIN_USERNAME / ADMIN_PASSWORD: Bootstrap admin account

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (admin actions, ratings, results, songs, sessions) plus the pure scoring engine
  - store: typed repositories over PostgreSQL or an in-memory fake
  - router: Route definitions using chi
  - middleware: session auth, CORS, logging, JSON helpers
  - models: domain types, request/response types, the round state machine
  - auth: password hashing and session tokens
*/
package main
