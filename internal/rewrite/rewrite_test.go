package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qmk2zmk/internal/rewrite"
)

func TestApply(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "layer header keeps layout",
			in:   "  [0] = LAYOUT_ergodox_pretty(\n    KC_A,\n  ),\n",
			want: "  Layer(0,\n    \"KC_A\",\n  ),\n",
		},
		{
			name: "named layer index",
			in:   "[TIC_TAC_TOE_LAYER] = LAYOUT_ergodox_pretty(KC_1)",
			want: `Layer("TIC_TAC_TOE_LAYER","KC_1")`,
		},
		{
			name: "mod tap modifier is stripped and quoted",
			in:   "MT(MOD_LCTL, KC_ESCAPE)",
			want: `MT("LCTL", "KC_ESCAPE")`,
		},
		{
			name: "modifier wrapper stays callable",
			in:   "MOD_RCTL(KC_A)",
			want: `MOD_RCTL("KC_A")`,
		},
		{
			name: "custom actions",
			in:   "TD(DANCE_3), WEBUSB_PAIR, RESET, ST_MACRO_7, TG(TIC_TAC_TOE_LAYER)",
			want: `TD("DANCE_3"), "WEBUSB_PAIR", "RESET", "ST_MACRO_7", TG("TIC_TAC_TOE_LAYER")`,
		},
		{
			name: "reset inside a keycode is left alone",
			in:   "KC_RESET",
			want: `"KC_RESET"`,
		},
		{
			name: "layer actions",
			in:   "MO(2), TG(1), KC_TRANSPARENT",
			want: `MO(2), TG(1), "KC_TRANSPARENT"`,
		},
	}
	rw := rewrite.New("")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := rw.Apply(tc.in)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestApplyStats(t *testing.T) {
	rw := rewrite.New(rewrite.DefaultLayoutMacro)
	_, stats := rw.Apply("[0] = LAYOUT_ergodox_pretty(KC_A, MT(MOD_LSFT, KC_B), MOD_RCTL(KC_C), RESET)")
	require.Len(t, stats, 4)

	counts := map[string]int{}
	for _, s := range stats {
		counts[s.Rule] = s.Count
	}
	assert.Equal(t, map[string]int{
		"layer-header":  1,
		"keycode":       3,
		"modifier":      1,
		"custom-action": 1,
	}, counts)
}

func TestCustomLayoutMacro(t *testing.T) {
	rw := rewrite.New("LAYOUT_moonlander")
	got, _ := rw.Apply("[1] = LAYOUT_moonlander(KC_Q)")
	assert.Equal(t, `Layer(1,"KC_Q")`, got)

	got, _ = rw.Apply("[1] = LAYOUT_ergodox_pretty(KC_Q)")
	assert.Equal(t, `[1] = LAYOUT_ergodox_pretty("KC_Q")`, got)
}

func TestApplyIsIdempotentOnOutput(t *testing.T) {
	rw := rewrite.New("")
	once, _ := rw.Apply("[0] = LAYOUT_ergodox_pretty(KC_A, MO(1))")
	twice, _ := rw.Apply("[0] = LAYOUT_ergodox_pretty(KC_A, MO(1))")
	assert.Equal(t, once, twice)
}
