package port

import (
	"context"
	"io"
)

// Source supplies the delimited text a vlad validates.
//
// Open must be repeatable: each call returns an independent reader positioned
// at the start of the content. A vlad with a failure threshold opens its
// source twice, once to count rows and once to validate them.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}
