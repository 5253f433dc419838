// Package client talks to a running ntccal daemon over its unix socket.
package client

import (
	"encoding/json"
	"errors"
	"net/http"

	transport "github.com/charlie0129/ntccal/internal/client"
	"github.com/charlie0129/ntccal/pkg/calibration"
)

// Client is a typed client for the daemon API.
type Client struct {
	*transport.Client
}

func NewClient(socketPath string) *Client {
	return &Client{Client: transport.NewClient(socketPath)}
}

// translate turns an error response back into the typed error the daemon
// reported, so callers can match it with errors.Is.
func translate(err error) error {
	var se *transport.StatusError
	if !errors.As(err, &se) {
		return err
	}
	if se.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	var body calibration.ErrorBody
	if json.Unmarshal([]byte(se.Body), &body) == nil && body.Code != "" {
		return body.Err()
	}
	return err
}
