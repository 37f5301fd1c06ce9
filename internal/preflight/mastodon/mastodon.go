package mastodon

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/blacktop/xsched/xsched"
	mastodonapi "github.com/mattn/go-mastodon"
)

const requestTimeout = 30 * time.Second

// Identity is the account an access token belongs to.
type Identity struct {
	ID          string
	Username    string
	Acct        string
	DisplayName string
	Server      string
}

// Verify resolves the account behind accessToken on the given instance.
func Verify(ctx context.Context, instanceURL, accessToken string) (Identity, error) {
	server, err := NormalizeInstanceURL(instanceURL)
	if err != nil {
		return Identity{}, err
	}
	if strings.TrimSpace(accessToken) == "" {
		return Identity{}, xsched.ValidationError{Field: "mastodon access token", Reason: "must not be empty"}
	}

	client := mastodonapi.NewClient(&mastodonapi.Config{
		Server:      server,
		AccessToken: strings.TrimSpace(accessToken),
	})
	client.Timeout = requestTimeout

	account, err := client.GetAccountCurrentUser(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("verify credentials: %w", err)
	}

	return Identity{
		ID:          string(account.ID),
		Username:    account.Username,
		Acct:        account.Acct,
		DisplayName: account.DisplayName,
		Server:      server,
	}, nil
}

// NormalizeInstanceURL accepts "mastodon.social" or a full URL and returns the
// scheme://host form the API expects.
func NormalizeInstanceURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", xsched.ValidationError{Field: "mastodon instance", Reason: "must not be empty"}
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", xsched.ValidationError{Field: "mastodon instance", Reason: fmt.Sprintf("%q is not a valid URL", raw)}
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", xsched.ValidationError{Field: "mastodon instance", Reason: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	return u.Scheme + "://" + u.Host, nil
}
