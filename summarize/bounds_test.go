package summarize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetBounds(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantMin int
		wantMax int
	}{
		{"short input", 100, 150, 250},
		{"just below threshold", 499, 150, 250},
		{"at threshold", 500, 150, 166},
		{"floor applies", 600, 150, 200},
		{"long input", 3000, 600, 1000},
		{"very long input", 10000, 2000, 3333},
		{"empty input", 0, 150, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := TargetBounds(tt.n)
			assert.Equal(t, tt.wantMin, b.Min)
			assert.Equal(t, tt.wantMax, b.Max)
		})
	}
}

func TestAllowed(t *testing.T) {
	b := Bounds{Min: 150, Max: 250}

	// Window with 20% deviation is [120, 300].
	assert.True(t, b.Allowed(120, 0.20))
	assert.True(t, b.Allowed(200, 0.20))
	assert.True(t, b.Allowed(300, 0.20))
	assert.False(t, b.Allowed(119, 0.20))
	assert.False(t, b.Allowed(301, 0.20))

	// Zero deviation means the exact window.
	assert.True(t, b.Allowed(150, 0))
	assert.False(t, b.Allowed(149, 0))
}
