package core

import (
	"strings"
)

// DefaultSuspicionThreshold is the confidence below which a verdict is
// treated as suspicious regardless of its label.
const DefaultSuspicionThreshold = 0.7

// The verification service returns free-form status text, so matching
// is by case-insensitive substring. These predicates are the single
// place the vocabulary lives; both the presentation class and the
// decision policy are built from them.

func isPhishingLabel(status string) bool {
	s := strings.ToLower(status)
	return strings.Contains(s, "phish") || strings.Contains(s, "malicious")
}

func isSafeLabel(status string) bool {
	s := strings.ToLower(status)
	return strings.Contains(s, "legit") || strings.Contains(s, "safe")
}

func isSuspiciousLabel(status string) bool {
	return strings.Contains(strings.ToLower(status), "suspicious")
}

func isLowConfidence(v Verdict, threshold float64) bool {
	conf, ok := v.ConfidenceValue()
	return ok && conf < threshold
}

// Classify maps a verdict to its presentation class. Low confidence is
// treated as suspicious regardless of the label, except when the label
// already marks the URL as phishing.
func Classify(v Verdict) VerdictClass {
	return ClassifyWithThreshold(v, DefaultSuspicionThreshold)
}

// ClassifyWithThreshold is Classify with a configurable confidence
// threshold.
func ClassifyWithThreshold(v Verdict, threshold float64) VerdictClass {
	switch {
	case isPhishingLabel(v.Status):
		return ClassPhishing
	case isSuspiciousLabel(v.Status) || isLowConfidence(v, threshold):
		return ClassSuspicious
	case isSafeLabel(v.Status):
		return ClassSafe
	default:
		return ClassUnknown
	}
}
