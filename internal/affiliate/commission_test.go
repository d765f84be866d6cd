package affiliate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommission(t *testing.T) {
	tests := []struct {
		name        string
		amountCents int64
		ratePercent int
		want        int64
	}{
		{"ten percent of 29.99", 2999, 10, 300},
		{"twenty percent of 9.99", 999, 20, 200},
		{"rounds half up", 1050, 5, 53}, // 52.5 -> 53
		{"whole amount", 10000, 10, 1000},
		{"zero amount", 0, 10, 0},
		{"zero rate", 2999, 0, 0},
		{"negative amount", -500, 10, 0},
		{"negative rate", 2999, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Commission(tt.amountCents, tt.ratePercent))
		})
	}
}
