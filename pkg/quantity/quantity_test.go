package quantity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(decimal.Zero))
	assert.True(t, IsZero(d("0.0000000001")))
	assert.True(t, IsZero(d("-0.0000000001")))
	assert.False(t, IsZero(d("0.00001")))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "5", "5", true},
		{"small drift", "0.3", "0.3000000000001", true},
		{"relative drift on large values", "1000000", "1000000.0001", true},
		{"real difference", "10", "10.001", false},
		{"sign matters", "1", "-1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(d(tt.a), d(tt.b)))
		})
	}
}

func TestSnap(t *testing.T) {
	assert.True(t, Snap(d("0.0000000000005")).Equal(decimal.Zero))
	assert.True(t, Snap(d("-0.0000000000005")).Equal(decimal.Zero))
	assert.True(t, Snap(d("2.5")).Equal(d("2.5")))
	assert.True(t, SnapTo(d("4.9999999999999"), d("5")).Equal(d("5")))
}

func TestLessOrEqual(t *testing.T) {
	assert.True(t, LessOrEqual(d("5.0000000000001"), d("5")))
	assert.False(t, LessOrEqual(d("5.1"), d("5")))
	assert.True(t, IsPositive(d("0.001")))
	assert.False(t, IsPositive(d("0.0000000000001")))
}
