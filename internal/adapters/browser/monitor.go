package browser

import (
	"context"
	"encoding/json"

	"github.com/phishguard/linkguard/internal/core"
	"github.com/phishguard/linkguard/internal/interceptor"
	"go.uber.org/zap"
)

// Monitor feeds activation and banner events from the session into the
// guard. It is an implementation of the Monitor port.
type Monitor struct {
	session *Session
	guard   *core.Guard
	logger  *zap.Logger
}

// message is the envelope the injected script reports through the binding.
type message struct {
	Type  string                      `json:"type"`
	Event interceptor.ActivationEvent `json:"event"`
}

// NewMonitor creates a new browser monitor
func NewMonitor(session *Session, guard *core.Guard, logger *zap.Logger) *Monitor {
	m := &Monitor{
		session: session,
		guard:   guard,
		logger:  logger,
	}
	session.OnMessage(m.handle)
	return m
}

// Start attaches the session to the browser
func (m *Monitor) Start(ctx context.Context) error {
	return m.session.Start(ctx)
}

// Stop closes the browser session
func (m *Monitor) Stop() error {
	return m.session.Stop()
}

// handle routes one event from the page. Interception failures are
// logged and dropped; the page falls back to navigating unguarded,
// never to a blocked click.
func (m *Monitor) handle(payload string) {
	var msg message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		m.logger.Warn("Malformed event from page", zap.Error(err))
		return
	}

	switch msg.Type {
	case "activation":
		intent, ok := interceptor.Extract(msg.Event)
		if !ok {
			m.logger.Debug("Activation did not target a followable link")
			return
		}
		m.guard.Intercept(intent.Href, intent.OpenInNewTab)
	case "confirm":
		m.guard.Confirm(context.Background())
	case "dismiss":
		m.guard.Dismiss(context.Background())
	default:
		m.logger.Debug("Unknown event type from page", zap.String("type", msg.Type))
	}
}
