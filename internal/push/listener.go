package push

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/rileyhilliard/lui/internal/logger"
)

// Status is the state of the push connection.
type Status int

const (
	Disconnected Status = iota
	Connecting
	Connected
)

func (s Status) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// ListenerOptions configures a Listener.
type ListenerOptions struct {
	URL    string
	APIKey string

	// Reconnect is the minimum spacing between connection attempts.
	Reconnect time.Duration

	// Dialer overrides the default websocket dialer.
	Dialer *websocket.Dialer
}

// Listener keeps a websocket to the printer open and hands every decoded
// event to OnEvent. Callbacks run on the listener's goroutine; callers that
// need the UI context must post from there.
type Listener struct {
	opts    ListenerOptions
	log     logger.Logger
	limiter *rate.Limiter

	// OnEvent receives every decoded frame, including foreign plugins.
	OnEvent func(Event)

	// OnStatus is told about connection changes. err is set when a
	// connection attempt or an established connection fails.
	OnStatus func(Status, error)

	mu     sync.Mutex
	status Status
}

// NewListener creates a listener. Call Run to start it.
func NewListener(opts ListenerOptions, log logger.Logger) *Listener {
	if opts.Reconnect <= 0 {
		opts.Reconnect = 5 * time.Second
	}
	if opts.Dialer == nil {
		opts.Dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		}
	}
	return &Listener{
		opts:    opts,
		log:     logger.OrNoop(log),
		limiter: rate.NewLimiter(rate.Every(opts.Reconnect), 1),
	}
}

// Status returns the current connection status.
func (l *Listener) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Run connects and reads until ctx is cancelled, reconnecting after failures
// no more often than once per Reconnect. It returns ctx's error.
func (l *Listener) Run(ctx context.Context) error {
	for {
		if err := l.limiter.Wait(ctx); err != nil {
			l.setStatus(Disconnected, nil)
			return ctx.Err()
		}

		err := l.session(ctx)
		if ctx.Err() != nil {
			l.setStatus(Disconnected, nil)
			return ctx.Err()
		}
		l.log.Warn("push connection lost: %v", err)
		l.setStatus(Disconnected, err)
	}
}

// session runs one connection from dial to failure.
func (l *Listener) session(ctx context.Context) error {
	l.setStatus(Connecting, nil)

	headers := http.Header{}
	if l.opts.APIKey != "" {
		headers.Set("X-Api-Key", l.opts.APIKey)
	}

	conn, resp, err := l.opts.Dialer.DialContext(ctx, l.opts.URL, headers)
	if err != nil {
		msg := "Can't connect to push events at " + l.opts.URL
		if resp != nil {
			msg += " (HTTP " + resp.Status + ")"
		}
		return errors.WrapWithCode(err, errors.ErrPush, msg, "Check push.url or device.url in your .lui.yaml")
	}
	defer conn.Close()

	l.log.Debug("push connected to %s", l.opts.URL)
	l.setStatus(Connected, nil)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrPush, "Push connection closed", "")
		}
		ev, err := Decode(raw)
		if err != nil {
			l.log.Debug("ignoring push frame: %v", err)
			continue
		}
		if l.OnEvent != nil {
			l.OnEvent(ev)
		}
	}
}

func (l *Listener) setStatus(s Status, err error) {
	l.mu.Lock()
	changed := l.status != s
	l.status = s
	l.mu.Unlock()

	if (changed || err != nil) && l.OnStatus != nil {
		l.OnStatus(s, err)
	}
}
