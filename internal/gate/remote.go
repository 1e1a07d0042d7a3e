package gate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const remoteCheckTimeout = 5 * time.Second

// RemoteAuthority delegates capability checks to an external HTTP endpoint.
// The endpoint receives the capability as a query parameter and the caller
// token as a bearer credential. A 200 allows, 401 and 403 deny, and any
// other status is treated as an authority error.
type RemoteAuthority struct {
	baseURL string
	client  *http.Client
}

// NewRemoteAuthority creates an authority that consults the endpoint at
// baseURL. A nil client uses a default with a short timeout.
func NewRemoteAuthority(baseURL string, client *http.Client) *RemoteAuthority {
	if client == nil {
		client = &http.Client{Timeout: remoteCheckTimeout}
	}
	return &RemoteAuthority{baseURL: baseURL, client: client}
}

func (a *RemoteAuthority) CheckUpload(ctx context.Context, token string) (bool, error) {
	return a.check(ctx, "upload", token)
}

func (a *RemoteAuthority) CheckProcess(ctx context.Context, token string) (bool, error) {
	return a.check(ctx, "process", token)
}

func (a *RemoteAuthority) check(ctx context.Context, capability, token string) (bool, error) {
	u := a.baseURL + "?capability=" + url.QueryEscape(capability)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("authority request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("authority check: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return false, nil
	default:
		return false, fmt.Errorf("authority returned status %d", resp.StatusCode)
	}
}
