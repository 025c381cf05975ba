// Package browser attaches the guard to a Chrome instance over the
// DevTools protocol: it injects the capture-phase click hook and the
// notification banner into every document, receives activation and
// banner events through a CDP binding, and performs navigation side
// effects on the tab.
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// bindingName is the window function the injected script calls to
// report events back to the guard.
const bindingName = "__linkguard"

// Options configures the Chrome attachment.
type Options struct {
	Headless  bool
	ExecPath  string
	UserAgent string
	// StartURL is the page loaded when the session opens.
	StartURL string
}

// Session owns the Chrome lifecycle and the tab context shared by the
// browser-side gateway, notifier and monitor.
type Session struct {
	opts    Options
	logger  *zap.Logger
	handler func(payload string)

	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewSession creates a new, not yet started session.
func NewSession(opts Options, logger *zap.Logger) *Session {
	return &Session{opts: opts, logger: logger}
}

// OnMessage registers the handler for events reported by the injected
// script. Must be called before Start.
func (s *Session) OnMessage(fn func(payload string)) {
	s.handler = fn
}

// Start launches (or attaches to) Chrome, installs the binding and the
// document hook, and navigates to the start URL.
func (s *Session) Start(ctx context.Context) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if s.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(s.opts.UserAgent))
	}
	if s.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(s.opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		s.logger.Debug(fmt.Sprintf(format, args...))
	}))

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		e, ok := ev.(*runtime.EventBindingCalled)
		if !ok || e.Name != bindingName || s.handler == nil {
			return
		}
		// Listener callbacks must not block the event dispatcher.
		go s.handler(e.Payload)
	})

	actions := []chromedp.Action{
		runtime.AddBinding(bindingName),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(hookScript).Do(ctx)
			return err
		}),
	}
	if s.opts.StartURL != "" {
		actions = append(actions, chromedp.Navigate(s.opts.StartURL))
	}

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		cancel()
		allocCancel()
		return fmt.Errorf("failed to start browser session: %w", err)
	}

	s.ctx = tabCtx
	s.cancel = cancel
	s.allocCancel = allocCancel
	s.logger.Info("Browser session started",
		zap.Bool("headless", s.opts.Headless),
		zap.String("start_url", s.opts.StartURL))
	return nil
}

// Ctx returns the tab context. Only valid after Start.
func (s *Session) Ctx() context.Context {
	return s.ctx
}

// Stop closes the tab and the browser.
func (s *Session) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	return nil
}
