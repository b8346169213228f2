package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type FaultReason string

const (
	FaultConstraint   FaultReason = "constraint"
	FaultConnectivity FaultReason = "connectivity"
	FaultCanceled     FaultReason = "canceled"
	FaultOther        FaultReason = "other"
)

// Classify buckets a driver error for logging and metrics.
func Classify(err error) FaultReason {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return FaultCanceled
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"):
			return FaultConstraint
		case strings.HasPrefix(pgErr.Code, "08"):
			return FaultConnectivity
		}
		return FaultOther
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return FaultConnectivity
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "constraint failed"):
		// sqlite
		return FaultConstraint
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "database is closed"):
		return FaultConnectivity
	}
	return FaultOther
}
