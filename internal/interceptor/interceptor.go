// Package interceptor turns raw UI activation events into navigation
// intents. It owns the rules for which clicks are followable links and
// whether the user asked for a new tab; the browser side only reports
// what happened.
package interceptor

import (
	"strings"
)

// Element describes one node on the event path, innermost first.
type Element struct {
	Tag    string `json:"tag"`
	Href   string `json:"href"`
	Target string `json:"target"`
}

// ActivationEvent is a pointer activation as reported by the host
// document.
type ActivationEvent struct {
	Path     []Element `json:"path"`
	Button   int       `json:"button"`
	AltKey   bool      `json:"altKey"`
	CtrlKey  bool      `json:"ctrlKey"`
	MetaKey  bool      `json:"metaKey"`
	ShiftKey bool      `json:"shiftKey"`
}

// Intent is the navigation extracted from an activation.
type Intent struct {
	Href         string
	OpenInNewTab bool
}

const middleButton = 1

// Extract ascends the event path until it finds an anchor with a
// followable destination. It reports false when the activation does not
// target a followable link: no anchor on the path, an empty or
// fragment-only href, or a script pseudo-URL.
func Extract(ev ActivationEvent) (Intent, bool) {
	for _, el := range ev.Path {
		if !strings.EqualFold(el.Tag, "a") || el.Href == "" {
			continue
		}
		if !followable(el.Href) {
			return Intent{}, false
		}
		return Intent{
			Href:         el.Href,
			OpenInNewTab: wantsNewTab(ev, el),
		}, true
	}
	return Intent{}, false
}

// followable rejects destinations that are not real navigations.
func followable(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(href), "javascript:")
}

// wantsNewTab reports whether the activation asked for a new browsing
// context: middle button, any modifier key, or an explicit blank target
// on the anchor.
func wantsNewTab(ev ActivationEvent, anchor Element) bool {
	if ev.Button == middleButton {
		return true
	}
	if ev.AltKey || ev.CtrlKey || ev.MetaKey || ev.ShiftKey {
		return true
	}
	return anchor.Target == "_blank"
}
