package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func confPtr(f float64) *float64 { return &f }

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		verdict Verdict
		want    VerdictClass
	}{
		{"phishing label", Verdict{Status: "phishing"}, ClassPhishing},
		{"malicious label", Verdict{Status: "malicious"}, ClassPhishing},
		{"uppercase phishing", Verdict{Status: "PHISHING"}, ClassPhishing},
		{"phishing superstring", Verdict{Status: "likely-phishing-site"}, ClassPhishing},
		{"legitimate", Verdict{Status: "legitimate"}, ClassSafe},
		{"safe", Verdict{Status: "safe"}, ClassSafe},
		{"safe superstring", Verdict{Status: "Probably Safe"}, ClassSafe},
		{"suspicious", Verdict{Status: "suspicious"}, ClassSuspicious},
		{"unknown", Verdict{Status: "unknown"}, ClassUnknown},
		{"empty status", Verdict{}, ClassUnknown},
		{"gibberish", Verdict{Status: "weird-vocabulary"}, ClassUnknown},
		{"low confidence presents as suspicious even when safe", Verdict{Status: "safe", Confidence: confPtr(0.4)}, ClassSuspicious},
		{"low confidence unknown presents as suspicious", Verdict{Status: "unknown", Confidence: confPtr(0.2)}, ClassSuspicious},
		{"phishing beats low confidence", Verdict{Status: "phishing", Confidence: confPtr(0.1)}, ClassPhishing},
		{"high confidence safe stays safe", Verdict{Status: "safe", Confidence: confPtr(0.95)}, ClassSafe},
		{"absent confidence does not panic", Verdict{Status: "suspicious", Confidence: nil}, ClassSuspicious},
		{"threshold is exclusive", Verdict{Status: "other", Confidence: confPtr(0.7)}, ClassUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.verdict))
		})
	}
}

func TestVerdictClass_String(t *testing.T) {
	assert.Equal(t, "phishing", ClassPhishing.String())
	assert.Equal(t, "suspicious", ClassSuspicious.String())
	assert.Equal(t, "safe", ClassSafe.String())
	assert.Equal(t, "unknown", ClassUnknown.String())
}
