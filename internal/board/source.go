package board

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"mealprep/internal/live"
)

// Source yields the plan messages of one delivery date
type Source interface {
	Next() (live.Message, error)
	Close() error
}

// WSSource reads plan messages from the API's websocket endpoint
type WSSource struct {
	conn *websocket.Conn
}

// Dial subscribes to date on the API at serverURL (http or https)
func Dial(ctx context.Context, serverURL, date string) (*WSSource, error) {
	endpoint, err := wsURL(serverURL, date)
	if err != nil {
		return nil, err
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to subscribe to %s: %s", endpoint, resp.Status)
		}
		return nil, fmt.Errorf("failed to subscribe to %s: %w", endpoint, err)
	}
	return &WSSource{conn: conn}, nil
}

func (s *WSSource) Next() (live.Message, error) {
	var msg live.Message
	err := s.conn.ReadJSON(&msg)
	return msg, err
}

func (s *WSSource) Close() error {
	return s.conn.Close()
}

func wsURL(serverURL, date string) (string, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server url %q: scheme must be http or https", serverURL)
	}
	u.Path += "/ws"
	u.RawQuery = url.Values{"date": {date}}.Encode()
	return u.String(), nil
}
