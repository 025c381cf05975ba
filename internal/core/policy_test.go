package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide_PhishingAlwaysEscalatesInternal(t *testing.T) {
	policy := NewPolicy(0.7)

	for _, status := range []string{"phishing", "Phishing", "PHISHING", "confirmed-phishing-page", "malicious", "Malicious redirect"} {
		for _, fromCache := range []bool{true, false} {
			action := policy.Decide(Verdict{Status: status}, Origin{FromCache: fromCache})
			assert.Equal(t, ActionEscalateInternal, action.Kind, "status %q fromCache=%v", status, fromCache)
		}
	}
}

func TestDecide_SafeAsymmetry(t *testing.T) {
	policy := NewPolicy(0.7)

	// A fresh verification is trusted immediately; a cached verdict gets
	// the grace window so the surface can redraw before navigating away.
	fresh := policy.Decide(Verdict{Status: "safe"}, Origin{FromCache: false})
	assert.Equal(t, ActionContinueNow, fresh.Kind)

	cached := policy.Decide(Verdict{Status: "safe"}, Origin{FromCache: true})
	assert.Equal(t, ActionContinueAfterGrace, cached.Kind)

	fresh = policy.Decide(Verdict{Status: "legitimate"}, Origin{FromCache: false})
	assert.Equal(t, ActionContinueNow, fresh.Kind)
}

func TestDecide_LowConfidenceEscalatesExternal(t *testing.T) {
	policy := NewPolicy(0.7)

	for _, status := range []string{"unknown", "odd-label", ""} {
		action := policy.Decide(Verdict{Status: status, Confidence: confPtr(0.5)}, Origin{})
		assert.Equal(t, ActionEscalateExternal, action.Kind, "status %q", status)
		assert.True(t, action.OpenRecheckTab, "status %q", status)
	}
}

func TestDecide_SuspiciousEscalatesExternal(t *testing.T) {
	policy := NewPolicy(0.7)

	action := policy.Decide(Verdict{Status: "suspicious", Confidence: confPtr(0.9)}, Origin{})
	assert.Equal(t, ActionEscalateExternal, action.Kind)
	assert.True(t, action.OpenRecheckTab)
}

func TestDecide_UnknownWaits(t *testing.T) {
	policy := NewPolicy(0.7)

	for _, v := range []Verdict{
		{Status: "unknown"},
		{Status: ""},
		{Status: "unclassified", Confidence: confPtr(0.9)},
	} {
		action := policy.Decide(v, Origin{})
		assert.Equal(t, ActionWait, action.Kind, "verdict %+v", v)
	}
}

func TestDecide_RuleOrder(t *testing.T) {
	policy := NewPolicy(0.7)

	// First match wins: a safe label continues even with low confidence,
	// and a phishing label blocks even when it also says suspicious.
	action := policy.Decide(Verdict{Status: "safe", Confidence: confPtr(0.3)}, Origin{FromCache: false})
	assert.Equal(t, ActionContinueNow, action.Kind)

	action = policy.Decide(Verdict{Status: "suspicious phishing"}, Origin{})
	assert.Equal(t, ActionEscalateInternal, action.Kind)
}

func TestNewPolicy_DefaultThreshold(t *testing.T) {
	policy := NewPolicy(0)
	assert.Equal(t, DefaultSuspicionThreshold, policy.SuspicionThreshold)
}
