package bluesky

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/blacktop/xsched/internal/logutil"
	"github.com/blacktop/xsched/xsched"
	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/xrpc"
)

const (
	envPDSURL = "XSCHED_BLUESKY_PDS_URL"

	defaultPDSURL  = "https://bsky.social"
	requestTimeout = 30 * time.Second
)

// Config allows the caller to supply defaults prior to reading environment variables.
type Config struct {
	PDSURL string
}

// Identity is the account a handle/app password pair logs into.
type Identity struct {
	Handle string
	DID    string
}

// Verify opens an AT Protocol session with the given credentials and discards
// it, proving the app password is valid before it is handed to the API.
func Verify(ctx context.Context, base Config, handle, appPassword string) (Identity, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return Identity{}, xsched.ValidationError{Field: "bluesky handle", Reason: "must not be empty"}
	}
	if strings.TrimSpace(appPassword) == "" {
		return Identity{}, xsched.ValidationError{Field: "bluesky app password", Reason: "must not be empty"}
	}

	pdsURL := resolvePDSURL(base)
	userAgent := "xsched/1"
	client := &xrpc.Client{
		Client:    &http.Client{Timeout: requestTimeout},
		Host:      pdsURL,
		UserAgent: &userAgent,
	}

	logutil.Debugf("creating bluesky session: pds=%s handle=%s", pdsURL, handle)
	session, err := atproto.ServerCreateSession(ctx, client, &atproto.ServerCreateSession_Input{
		Identifier: handle,
		Password:   appPassword,
	})
	if err != nil {
		return Identity{}, fmt.Errorf("bluesky login: %w", err)
	}
	logutil.Debugf("bluesky session ok: did=%s", session.Did)

	return Identity{Handle: session.Handle, DID: session.Did}, nil
}

func resolvePDSURL(base Config) string {
	if v := strings.TrimSpace(os.Getenv(envPDSURL)); v != "" {
		return strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(base.PDSURL); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultPDSURL
}
