// Package source is the boundary to the third-party flight-data provider.
package source

import (
	"context"
	"errors"

	"github.com/Domenick1991/roundtrip/internal/domain"
)

// ErrTemporary marks failures worth retrying.
var ErrTemporary = errors.New("temporary source error")

// Query asks for one-way legs on a single calendar date (YYYY-MM-DD).
type Query struct {
	Date        string
	Origin      string
	Destination string
}

type Source interface {
	Search(ctx context.Context, q Query) ([]domain.RawLeg, error)
}
