package keycode

import "strconv"

// renames maps source tokens to destination key names. Entries win over the
// generic KC_ prefix rule.
var renames = map[string]string{
	"KC_NONUS_BSLASH":     "NUBS",
	"KC_BSLASH":           "BSLH",
	"KC_BSPACE":           "BSPC",
	"KC_PSCR":             "PSCRN",
	"KC_QUOTE":            "SQT",
	"KC_SCOLON":           "SEMI",
	"KC_LBRACKET":         "LBKT",
	"KC_RBRACKET":         "RBKT",
	"KC_LCBR":             "LBRC",
	"KC_RCBR":             "RBRC",
	"KC_PGUP":             "PG_UP",
	"KC_PGDOWN":           "PG_DN",
	"KC_MEDIA_NEXT_TRACK": "C_NEXT",
	"KC_MEDIA_PREV_TRACK": "C_PREV",
	"KC_MEDIA_PLAY_PAUSE": "C_PP",

	// short QMK aliases
	"KC_BSLS": "BSLH",
	"KC_SCLN": "SEMI",
	"KC_QUOT": "SQT",
	"KC_LBRC": "LBKT", // QMK LBRC is '[', ZMK LBRC is '{'
	"KC_RBRC": "RBKT",
	"KC_PGDN": "PG_DN",
	"KC_ENT":  "RET",
	"KC_GRV":  "GRAVE",
	"KC_COMM": "COMMA",
	"KC_SLSH": "SLASH",
	"KC_MINS": "MINUS",
	"KC_EQL":  "EQUAL",
	"KC_LSFT": "LSHIFT",
	"KC_RSFT": "RSHIFT",
	"KC_LCTL": "LCTRL",
	"KC_RCTL": "RCTRL",

	// shifted symbols
	"KC_EXLM": "EXCL",
	"KC_DLR":  "DLLR",
	"KC_PERC": "PRCNT",
	"KC_CIRC": "CARET",
	"KC_AMPR": "AMPS",
	"KC_ASTR": "STAR",
	"KC_LPRN": "LPAR",
	"KC_RPRN": "RPAR",
	"KC_UNDS": "UNDER",
	"KC_TILD": "TILDE",
	"KC_COLN": "COLON",
	"KC_DQUO": "DQT",
	"KC_DQT":  "DQT",
	"KC_LABK": "LT",
	"KC_RABK": "GT",
	"KC_QUES": "QMARK",

	// consumer keys
	"KC_APPLICATION":      "K_APP",
	"KC_APP":              "K_APP",
	"KC_AUDIO_MUTE":       "C_MUTE",
	"KC_AUDIO_VOL_UP":     "C_VOL_UP",
	"KC_AUDIO_VOL_DOWN":   "C_VOL_DN",
	"KC_MUTE":             "C_MUTE",
	"KC_VOLU":             "C_VOL_UP",
	"KC_VOLD":             "C_VOL_DN",
	"KC_MPLY":             "C_PP",
	"KC_MNXT":             "C_NEXT",
	"KC_MPRV":             "C_PREV",
	"KC_BRIGHTNESS_UP":    "C_BRI_UP",
	"KC_BRIGHTNESS_DOWN":  "C_BRI_DN",
	"KC_PSCREEN":          "PSCRN",
	"KC_PRINT_SCREEN":     "PSCRN",
	"KC_NONUS_HASH":       "NUHS",
	"KC_KP_ASTERISK":      "KP_MULTIPLY",
	"KC_KP_SLASH":         "KP_DIVIDE",
	"KC_KP_DOT":           "KP_DOT",
	"KC_KP_ENTER":         "KP_ENTER",
	"KC_KP_MINUS":         "KP_MINUS",
	"KC_KP_PLUS":          "KP_PLUS",
	"KC_KP_EQUAL":         "KP_EQUAL",
	"KC_NUMLOCK":          "KP_NUM",
	"KC_LOCKING_CAPS":     "LCAPS",
	"KC_CAPS_LOCK":        "CAPS",
	"KC_SCROLLLOCK":       "SLCK",
	"KC_PAUSE":            "PAUSE_BREAK",
}

// transparent tokens inherit the binding from the layer below.
var transparent = map[string]struct{}{
	"KC_TRANSPARENT": {},
	"KC_TRNS":        {},
}

// noneTokens have no destination equivalent and become &none.
var noneTokens = map[string]struct{}{
	"KC_NO":       {},
	"WEBUSB_PAIR": {},
	"KC_HYPR":     {},
	"KC_MS_BTN4":  {},
	"RESET":       {},
}

// modifiers maps mod-tap modifier names (MOD_ prefix already stripped) to
// destination modifier keys.
var modifiers = map[string]string{
	"LCTL": "LCTRL",
	"LSFT": "LSHIFT",
	"LALT": "LALT",
	"LGUI": "LGUI",
	"RCTL": "RCTRL",
	"RSFT": "RSHIFT",
	"RALT": "RALT",
	"RGUI": "RGUI",
}

// destination key names accepted after the KC_ prefix is stripped.
var known = buildKnown()

func buildKnown() map[string]struct{} {
	names := []string{
		"ENTER", "RET", "RETURN", "ESCAPE", "ESC", "BACKSPACE", "BSPC", "TAB", "SPACE", "SPC",
		"MINUS", "EQUAL", "GRAVE", "COMMA", "DOT", "PERIOD", "SLASH", "FSLH",
		"SEMI", "SEMICOLON", "SQT", "APOS", "APOSTROPHE", "BSLH", "BACKSLASH", "NUBS", "NUHS",
		"LBKT", "RBKT", "LBRC", "RBRC",
		"CAPSLOCK", "CAPS", "CLCK", "LCAPS", "PSCRN", "PRINTSCREEN", "SLCK", "SCROLLLOCK",
		"PAUSE_BREAK", "INSERT", "INS", "HOME", "END", "DELETE", "DEL",
		"PG_UP", "PG_DN", "PAGE_UP", "PAGE_DOWN",
		"LEFT", "RIGHT", "UP", "DOWN",
		"LCTRL", "LSHIFT", "LSHFT", "LALT", "LGUI", "RCTRL", "RSHIFT", "RSHFT", "RALT", "RGUI",
		"EXCL", "AT", "HASH", "DLLR", "PRCNT", "CARET", "AMPS", "STAR", "ASTRK",
		"LPAR", "RPAR", "UNDER", "PLUS", "PIPE", "TILDE", "COLON", "DQT", "LT", "GT", "QMARK",
		"K_APP", "C_NEXT", "C_PREV", "C_PP", "C_MUTE", "C_VOL_UP", "C_VOL_DN", "C_BRI_UP", "C_BRI_DN",
		"KP_NUM", "KP_DIVIDE", "KP_MULTIPLY", "KP_MINUS", "KP_PLUS", "KP_ENTER", "KP_DOT", "KP_EQUAL",
	}
	out := make(map[string]struct{}, len(names)+64)
	for _, n := range names {
		out[n] = struct{}{}
	}
	for c := 'A'; c <= 'Z'; c++ {
		out[string(c)] = struct{}{}
	}
	for i := 0; i <= 9; i++ {
		out["N"+strconv.Itoa(i)] = struct{}{}
		out["KP_N"+strconv.Itoa(i)] = struct{}{}
	}
	for i := 1; i <= 24; i++ {
		out["F"+strconv.Itoa(i)] = struct{}{}
	}
	return out
}
