package apiclient

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"verifyme-backend/pkg/id"
)

// NewRequestID mints an identifier accepted by the server's
// X-Request-Id validation: exactly 32 hex characters.
func NewRequestID() string { return id.NewID32() }

// PostIdempotent sends a POST stamped with the dedupe headers the entry
// creation route checks: the given request id and the current wall
// clock in epoch milliseconds. Reuse the same reqID (from
// NewRequestID) when retrying one logical submission so the server
// replays the stored response instead of double-posting.
func (c *Client) PostIdempotent(ctx context.Context, path, reqID string, in, out any) error {
	hdr := map[string]string{
		"X-Request-Id": reqID,
		"X-Request-At": strconv.FormatInt(time.Now().UnixMilli(), 10),
	}
	return c.do(ctx, http.MethodPost, path, in, out, hdr)
}
