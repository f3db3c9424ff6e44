package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiryPolicy_ExpiresAt(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		policy ExpiryPolicy
		want   time.Time
	}{
		{"one day", ExpiryPolicy{1, UnitDay}, now.AddDate(0, 0, 1)},
		{"three days", ExpiryPolicy{3, UnitDay}, now.AddDate(0, 0, 3)},
		{"two weeks", ExpiryPolicy{2, UnitWeek}, now.AddDate(0, 0, 14)},
		{"one month", ExpiryPolicy{1, UnitMonth}, now.AddDate(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.policy.ExpiresAt(now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpiryPolicy_Invalid(t *testing.T) {
	now := time.Now()

	_, err := ExpiryPolicy{0, UnitDay}.ExpiresAt(now)
	assert.Error(t, err)

	_, err = ExpiryPolicy{-1, UnitWeek}.ExpiresAt(now)
	assert.Error(t, err)

	_, err = ExpiryPolicy{1, "year"}.ExpiresAt(now)
	assert.Error(t, err)
}
