package gate

import (
	"context"
	"errors"
)

// ErrPermissionDenied is returned when a caller lacks the requested
// capability or the authority cannot be consulted.
var ErrPermissionDenied = errors.New("permission denied")

// Authority answers capability checks for a caller token.
type Authority interface {
	// CheckUpload reports whether the token may create readings.
	CheckUpload(ctx context.Context, token string) (bool, error)
	// CheckProcess reports whether the token may fetch work and post
	// results.
	CheckProcess(ctx context.Context, token string) (bool, error)
}

// Gate enforces capability checks in front of the service layer.
type Gate struct {
	authority Authority
}

// New creates a Gate backed by the given authority.
func New(authority Authority) *Gate {
	return &Gate{authority: authority}
}

// RequireUpload returns ErrPermissionDenied unless the token holds the
// upload capability. Authority errors deny.
func (g *Gate) RequireUpload(ctx context.Context, token string) error {
	ok, err := g.authority.CheckUpload(ctx, token)
	if err != nil || !ok {
		return ErrPermissionDenied
	}
	return nil
}

// RequireProcess returns ErrPermissionDenied unless the token holds the
// processing capability. Authority errors deny.
func (g *Gate) RequireProcess(ctx context.Context, token string) error {
	ok, err := g.authority.CheckProcess(ctx, token)
	if err != nil || !ok {
		return ErrPermissionDenied
	}
	return nil
}
