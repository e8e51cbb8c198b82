package graph

import (
	"context"
	"errors"
)

// Client is the minimal contract the store layer needs from the underlying
// graph database: run a statement, get rows back.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result holds the rows returned by a query.
type Result struct {
	Records []Record
}

// Record is one row, keyed by the names in the RETURN clause.
type Record map[string]any

// Options configures a client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates no graph URI was configured.
var ErrMissingURI = errors.New("graph URI is required")
