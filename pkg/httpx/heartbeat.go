package httpx

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// DefaultHeartbeatPath is probed by Heartbeat when path is empty.
const DefaultHeartbeatPath = "heartbeat"

// Heartbeat sends GET path (DefaultHeartbeatPath when empty) and returns the
// decoded JSON payload. Any status other than 200 is an error.
func (c *Client) Heartbeat(ctx context.Context, path string) (map[string]any, error) {
	if path == "" {
		path = DefaultHeartbeatPath
	}
	resp, err := c.send(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)
	if resp.StatusCode != http.StatusOK {
		return nil, ParseError(resp)
	}

	var result map[string]any
	if err := decodeJSON(resp, &result); err != nil {
		return nil, err
	}
	zap.L().Debug("httpx: heartbeat", zap.String("path", path), zap.String("proto", resp.Proto))
	return result, nil
}
