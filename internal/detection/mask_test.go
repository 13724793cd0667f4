// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask_Personal(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"email", "johndoe@example.com", "*******@*******.***"},
		{"phone", "555-123-4567", "***-***-****"},
		{"address", "123 Main St, Anytown, USA", "*** **** **, *******, ***"},
		{"underscore is a word char", "a_b", "***"},
		{"empty", "", ""},
		{"only separators", "--/ .", "--/ ."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.value, Personal))
		})
	}
}

func TestMask_PersonalNonASCII(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"Иван Петров", "**** ******"},
		{"田中太郎", "****"},
		{"José Müller", "**** ******"},
		{"Ærøskøbing 12", "********** **"},
		{"٣٤٥-١٢", "***-**"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := Mask(tt.value, Personal)
			assert.Equal(t, tt.want, got)
			assert.Len(t, []rune(got), len([]rune(tt.value)))
		})
	}
}

func TestMask_PersonalPreservesShape(t *testing.T) {
	inputs := []string{
		"johndoe@example.com",
		"+1 (555) 010-9999",
		"Flat 4B, 22 Baker Street",
		"ünïcödé-ID_42",
	}

	for _, in := range inputs {
		out := Mask(in, Personal)
		inRunes, outRunes := []rune(in), []rune(out)
		assert.Len(t, outRunes, len(inRunes), in)
		for i, r := range inRunes {
			if isWordRune(r) {
				assert.Equal(t, MaskRune, outRunes[i], "position %d of %q", i, in)
			} else {
				assert.Equal(t, r, outRunes[i], "separator at %d of %q", i, in)
			}
		}
		for _, r := range outRunes {
			assert.False(t, isWordRune(r), "word rune leaked in %q", out)
		}
	}
}

func TestMask_Financial(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"4532015112830366", "45************66"},
		{"475019948", "47*****48"},
		{"1234-5678-9012-3456", "12***************56"},
		{"12345", "12*45"},
		{"1234", "****"},
		{"12", "**"},
		{"1", "*"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := Mask(tt.value, Financial)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len([]rune(tt.value)), len([]rune(got)))
		})
	}
}

func TestMask_FinancialEdgesFormula(t *testing.T) {
	for n := 5; n <= 40; n++ {
		v := strings.Repeat("9", n-2) + "ab"
		v = "xy" + v[2:]
		want := v[:2] + strings.Repeat("*", n-4) + v[n-2:]
		assert.Equal(t, want, Mask(v, Financial), "length %d", n)
	}
}

func TestMask_FinancialMultibyte(t *testing.T) {
	// Counted in runes, not bytes.
	assert.Equal(t, "€1**4£", Mask("€1234£", Financial))
	assert.Equal(t, "****", Mask("€€€€", Financial))
}

func TestMask_UnknownTypeHidesEverything(t *testing.T) {
	assert.Equal(t, "*****", Mask("abc-d", Type("other")))
}

func TestMask_Deterministic(t *testing.T) {
	d := Detection{Value: "4532015112830366", Type: Financial}
	first := d.Masked()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.Masked())
	}
}
