// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8090)
  - DatabaseURL: PostgreSQL connection string (required unless -t memory)
  - StoreType: postgres or memory (default: postgres)
  - SessionSalt: Secret for session-related hashing (required)
  - AdminUsername / AdminPassword: bootstrap admin account (optional)

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Store type
	-session-salt  Session salt
	-admin-user    Bootstrap admin username
	-admin-pass    Bootstrap admin password

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	STORE_TYPE     → -t
	SESSION_SALT   → -session-salt
	ADMIN_USERNAME → -admin-user
	ADMIN_PASSWORD → -admin-pass

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing, if the store
type is unknown, or if an admin username is set without a password.
*/
package cliparse
