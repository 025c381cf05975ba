package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Gateway performs navigation side effects on the session's tab. It is
// an implementation of the core Gateway interface.
type Gateway struct {
	session *Session
	logger  *zap.Logger
}

// NewGateway creates a new browser gateway
func NewGateway(session *Session, logger *zap.Logger) *Gateway {
	return &Gateway{session: session, logger: logger}
}

// Navigate points the current tab at the URL
func (g *Gateway) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := chromedp.Run(g.session.Ctx(), chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	return nil
}

// OpenTab loads the URL in a new focused tab
func (g *Gateway) OpenTab(ctx context.Context, url string) error {
	return g.createTarget(ctx, url, false)
}

// OpenBackgroundTab loads the URL in a new unfocused tab
func (g *Gateway) OpenBackgroundTab(ctx context.Context, url string) error {
	return g.createTarget(ctx, url, true)
}

func (g *Gateway) createTarget(ctx context.Context, url string, background bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := chromedp.Run(g.session.Ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := target.CreateTarget(url).WithBackground(background).Do(ctx)
		return err
	}))
	if err != nil {
		return fmt.Errorf("failed to open tab: %w", err)
	}
	return nil
}

// CopyToClipboard writes text to the page's clipboard. Best effort:
// the page may lack clipboard permission.
func (g *Gateway) CopyToClipboard(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := json.Marshal(text)
	if err != nil {
		return err
	}
	expr := fmt.Sprintf("navigator.clipboard && navigator.clipboard.writeText(%s); undefined", encoded)
	if err := chromedp.Run(g.session.Ctx(), chromedp.Evaluate(expr, nil)); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
