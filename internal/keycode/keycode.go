// Package keycode maps QMK key tokens to ZMK binding text.
//
// A token that matches no rule is an error, never a guessed binding.
package keycode

import (
	"fmt"
	"maps"
	"strings"
)

const (
	// Transparent inherits the binding of the layer below.
	Transparent = "&trans"
	// None is the explicit "no binding" action.
	None = "&none"
	// PressPrefix starts a key-press binding.
	PressPrefix = "&kp "

	sourcePrefix = "KC_"
	mediaPrefix  = "KC_MEDIA"
	macroPrefix  = "ST_MACRO"
)

// Reason classifies why a token could not be mapped.
type Reason uint8

const (
	ReasonUnknown Reason = iota
	ReasonMedia
	ReasonModifier
)

// UnmappedError reports a token that no mapping rule covers.
type UnmappedError struct {
	Token  string
	Reason Reason
}

func (e *UnmappedError) Error() string {
	switch e.Reason {
	case ReasonMedia:
		return fmt.Sprintf("media key %s has no mapping", e.Token)
	case ReasonModifier:
		return fmt.Sprintf("modifier %s has no single-key equivalent", e.Token)
	}
	return fmt.Sprintf("key %s has no mapping", e.Token)
}

// Mapper holds the lookup tables. The zero value is not usable; build one
// with NewMapper.
type Mapper struct {
	renames map[string]string
	none    map[string]struct{}
}

// Option customises a Mapper.
type Option func(*Mapper)

// WithRenames adds or overrides source token renames (e.g. KC_FOO → BAR).
func WithRenames(extra map[string]string) Option {
	return func(m *Mapper) {
		maps.Copy(m.renames, extra)
	}
}

// WithNone marks additional source tokens as having no binding.
func WithNone(tokens ...string) Option {
	return func(m *Mapper) {
		for _, t := range tokens {
			m.none[t] = struct{}{}
		}
	}
}

// NewMapper copies the built-in tables and applies opts on top.
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{
		renames: maps.Clone(renames),
		none:    maps.Clone(noneTokens),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Default is the mapper with only the built-in tables.
var Default = NewMapper()

// FormatKey maps token with the Default mapper.
func FormatKey(token string) (string, error) {
	return Default.Format(token)
}

// Format returns the destination binding for a source key token.
func (m *Mapper) Format(token string) (string, error) {
	if _, ok := transparent[token]; ok {
		return Transparent, nil
	}
	if _, ok := m.none[token]; ok {
		return None, nil
	}
	if name, ok := m.renames[token]; ok {
		return PressPrefix + name, nil
	}
	if strings.HasPrefix(token, mediaPrefix) {
		return "", &UnmappedError{Token: token, Reason: ReasonMedia}
	}
	if strings.HasPrefix(token, macroPrefix) {
		// TODO: port ST_MACRO_n bodies to ZMK macros once their definitions are extracted too.
		return None, nil
	}

	name := strings.TrimPrefix(token, sourcePrefix)
	if isDecimal(name) {
		name = "N" + name
	}
	if _, ok := known[name]; !ok {
		return "", &UnmappedError{Token: token}
	}
	return PressPrefix + name, nil
}

// KeyName is Format restricted to key presses: it returns the bare key name
// (without "&kp ") and fails for transparent or no-op tokens.
func (m *Mapper) KeyName(token string) (string, error) {
	b, err := m.Format(token)
	if err != nil {
		return "", err
	}
	name, ok := strings.CutPrefix(b, PressPrefix)
	if !ok {
		return "", fmt.Errorf("%s maps to %s, not a key press", token, b)
	}
	return name, nil
}

// FormatModifier resolves a modifier name such as LCTL (or MOD_LCTL) to the
// destination modifier key.
func FormatModifier(mod string) (string, error) {
	mod = strings.TrimPrefix(mod, "MOD_")
	if name, ok := modifiers[mod]; ok {
		return name, nil
	}
	for _, full := range modifiers {
		if full == mod {
			return full, nil
		}
	}
	return "", &UnmappedError{Token: mod, Reason: ReasonModifier}
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
