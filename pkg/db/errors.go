package db

import "errors"

var (
	ErrFailedToParseConfig    = errors.New("db: failed to parse database configuration")
	ErrFailedToOpenConnection = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed      = errors.New("db: healthcheck failed")
	ErrNoRows                 = errors.New("db: no rows in result set")
	ErrSetDialect             = errors.New("db migrator: failed to set dialect")
	ErrApplyMigrations        = errors.New("db migrator: failed to apply migrations")
)
