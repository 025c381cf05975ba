package browser

import (
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/phishguard/linkguard/internal/core"
	"go.uber.org/zap"
)

// BannerNotifier renders the interception surface as a colored top
// banner injected into the page. Rendering is best effort; a page that
// rejects the script only loses the visual, never the pipeline.
type BannerNotifier struct {
	session *Session
	logger  *zap.Logger
}

// NewBannerNotifier creates a new banner notifier
func NewBannerNotifier(session *Session, logger *zap.Logger) *BannerNotifier {
	return &BannerNotifier{session: session, logger: logger}
}

// ShowVerifying displays the intercepted URL with the confirm/dismiss buttons
func (n *BannerNotifier) ShowVerifying(url string) {
	n.eval(fmt.Sprintf("window.__lgShowVerifying && window.__lgShowVerifying(%s)", jsString(url)))
}

// ShowResult updates the banner with the verdict and its class color
func (n *BannerNotifier) ShowResult(url string, class core.VerdictClass, v core.Verdict) {
	conf := "null"
	if c, ok := v.ConfidenceValue(); ok {
		conf = fmt.Sprintf("%g", c)
	}
	n.eval(fmt.Sprintf("window.__lgShowResult && window.__lgShowResult(%s, %s, %s, %s, %s)",
		jsString(url),
		jsString(class.String()),
		jsString(v.Status),
		conf,
		jsString(v.Reason)))
}

// Hide hides the banner
func (n *BannerNotifier) Hide() {
	n.eval("window.__lgHide && window.__lgHide()")
}

func (n *BannerNotifier) eval(expr string) {
	if err := chromedp.Run(n.session.Ctx(), chromedp.Evaluate(expr+"; undefined", nil)); err != nil {
		n.logger.Debug("Banner update failed", zap.Error(err))
	}
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
