package notifier

import (
	"github.com/phishguard/linkguard/internal/core"
	"github.com/phishguard/linkguard/internal/utils"
	"go.uber.org/zap"
)

// maxDisplayLen bounds URLs and reasons on the one-line surface.
const maxDisplayLen = 200

// LogNotifier renders the interception surface as structured log
// lines. It is the default surface for the daemon when no banner is
// wanted, and the only one the one-shot CLI uses.
type LogNotifier struct {
	logger *zap.Logger
	text   *utils.TextProcessor
}

// NewLogNotifier creates a new log-based notifier
func NewLogNotifier(logger *zap.Logger, text *utils.TextProcessor) *LogNotifier {
	return &LogNotifier{logger: logger, text: text}
}

// ShowVerifying displays the intercepted URL awaiting confirmation
func (n *LogNotifier) ShowVerifying(url string) {
	n.logger.Info("Link intercepted, awaiting confirmation",
		zap.String("url", n.text.TruncateText(url, maxDisplayLen)))
}

// ShowResult displays the verdict for the intercepted URL
func (n *LogNotifier) ShowResult(url string, class core.VerdictClass, v core.Verdict) {
	fields := []zap.Field{
		zap.String("url", n.text.TruncateText(url, maxDisplayLen)),
		zap.String("class", class.String()),
		zap.String("status", v.Status),
	}
	if conf, ok := v.ConfidenceValue(); ok {
		fields = append(fields, zap.Float64("confidence", conf))
	}
	if v.Reason != "" {
		fields = append(fields, zap.String("reason", n.text.TruncateText(v.Reason, maxDisplayLen)))
	}
	n.logger.Info("Verification result", fields...)
}

// Hide is a no-op for the log surface
func (n *LogNotifier) Hide() {}
