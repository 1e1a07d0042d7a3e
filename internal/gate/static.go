package gate

import (
	"context"
	"crypto/subtle"
)

// StaticAuthority checks tokens against fixed in-process lists. Token
// comparison is constant time.
type StaticAuthority struct {
	uploadTokens  []string
	processTokens []string
}

// NewStaticAuthority creates an authority from configured token lists. An
// empty list means nobody holds that capability.
func NewStaticAuthority(uploadTokens, processTokens []string) *StaticAuthority {
	return &StaticAuthority{
		uploadTokens:  uploadTokens,
		processTokens: processTokens,
	}
}

func (a *StaticAuthority) CheckUpload(ctx context.Context, token string) (bool, error) {
	return matchToken(a.uploadTokens, token), nil
}

func (a *StaticAuthority) CheckProcess(ctx context.Context, token string) (bool, error) {
	return matchToken(a.processTokens, token), nil
}

func matchToken(allowed []string, token string) bool {
	if token == "" {
		return false
	}
	match := false
	for _, t := range allowed {
		if subtle.ConstantTimeCompare([]byte(t), []byte(token)) == 1 {
			match = true
		}
	}
	return match
}
