package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCPF(t *testing.T) {
	tests := []struct {
		name   string
		digits string
		want   bool
	}{
		{"valid", "11144477735", true},
		{"valid from registration fixtures", "52998224725", true},
		{"repeated digits", "11111111111", false},
		{"all zeros", "00000000000", false},
		{"bad second check digit", "12345678901", false},
		{"bad first check digit", "11144477745", false},
		{"too short", "123456789", false},
		{"too long", "111444777350", false},
		{"empty", "", false},
		{"punctuation is not stripped", "111.444.777-35", false},
		{"letters", "1114447773a", false},
		{"non ascii digits", "١١١٤٤٤٧٧٧٣٥", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCPF(tt.digits))
		})
	}
}

func TestIsValidCNPJ(t *testing.T) {
	tests := []struct {
		name   string
		digits string
		want   bool
	}{
		{"valid", "11222333000181", true},
		{"bad second check digit", "11222333000182", false},
		{"bad first check digit", "11222333000191", false},
		{"repeated digits", "22222222222222", false},
		{"cpf length", "11144477735", false},
		{"empty", "", false},
		{"formatted", "11.222.333/0001-81", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCNPJ(tt.digits))
		})
	}
}

func TestPredicatesAreTotal(t *testing.T) {
	inputs := []string{
		"",
		"\x00\xff\xfe",
		"日本語のテキスト",
		strings.Repeat("9", 10_000),
		strings.Repeat("1", 11),
		strings.Repeat("1", 14),
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			IsValidCPF(in)
			IsValidCNPJ(in)
		})
		assert.False(t, IsValidCPF(in))
		assert.False(t, IsValidCNPJ(in))
	}
}
