package models

import (
	"testing"

	"lendit/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookingState(t *testing.T) {
	t.Run("EmptyMeansAll", func(t *testing.T) {
		state, err := ParseBookingState("")
		require.NoError(t, err)
		assert.Equal(t, StateAll, state)
	})

	for _, raw := range []string{"ALL", "CURRENT", "PAST", "FUTURE", "WAITING", "REJECTED"} {
		t.Run(raw, func(t *testing.T) {
			state, err := ParseBookingState(raw)
			require.NoError(t, err)
			assert.Equal(t, BookingState(raw), state)
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		_, err := ParseBookingState("BOGUS")
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
		assert.Equal(t, "Unknown state: BOGUS", apperr.Message(err))
	})

	t.Run("CaseSensitive", func(t *testing.T) {
		_, err := ParseBookingState("current")
		assert.True(t, apperr.IsValidation(err))
	})
}
