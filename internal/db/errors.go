// Package db provides error types for database operations.
package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Sentinel errors for database operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound indicates the requested room does not exist.
	ErrNotFound = errors.New("room not found")

	// ErrTransactionConflict indicates a SurrealDB transaction conflict.
	// Callers should typically retry or skip the operation.
	ErrTransactionConflict = errors.New("transaction conflict")

	// ErrRetrievalUnavailable indicates the vector store could not serve a
	// nearest-neighbor query. Comparison still works; completion callers may
	// fall back to overlap-mined neighbors.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
)

// wrapQueryError inspects a SurrealDB error and wraps it with the
// appropriate sentinel if it matches a known query error pattern.
func wrapQueryError(err error) error {
	if err == nil {
		return nil
	}

	var queryErr *surrealdb.QueryError
	if errors.As(err, &queryErr) {
		if strings.Contains(queryErr.Message, "Transaction conflict") {
			return fmt.Errorf("%w: %s", ErrTransactionConflict, queryErr.Message)
		}
	}

	return err
}
