package client

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/ntccal/pkg/events"
)

const maxEventSize = 1 << 20

// SubscribeEvents streams daemon events until ctx is cancelled or the daemon
// closes the stream, after which the channel is closed. It returns once the
// daemon has registered the subscription.
func (c *Client) SubscribeEvents(ctx context.Context) (<-chan events.Event, error) {
	body, err := c.Stream(ctx, "/events")
	if err != nil {
		return nil, pkgerrors.Wrapf(translate(err), "failed to subscribe to events")
	}

	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 4096), maxEventSize)

	first, err := readEvent(sc)
	if err != nil || first.Name != events.Ready {
		_ = body.Close()
		if err == nil {
			err = pkgerrors.Errorf("unexpected first event %q", first.Name)
		}
		return nil, pkgerrors.Wrap(err, "failed to subscribe to events")
	}

	ch := make(chan events.Event, 16)
	go func() {
		defer close(ch)
		defer func() {
			_ = body.Close()
		}()
		for {
			ev, err := readEvent(sc)
			if err != nil {
				if ctx.Err() == nil && err != io.EOF {
					logrus.WithError(err).Debug("event stream ended")
				}
				return
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// readEvent reads one server-sent event. Comment lines are skipped.
func readEvent(sc *bufio.Scanner) (events.Event, error) {
	var ev events.Event
	var data []string
	seen := false

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if !seen {
				continue
			}
			if len(data) > 0 {
				ev.Data = json.RawMessage(strings.Join(data, "\n"))
			}
			return ev, nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			ev.Name = value
			seen = true
		case "data":
			data = append(data, value)
			seen = true
		}
	}

	if err := sc.Err(); err != nil {
		return events.Event{}, err
	}
	return events.Event{}, io.EOF
}
