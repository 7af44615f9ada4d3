package validation

import (
	"testing"
	"time"

	"franchise-pos/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayRange(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	start, end, err := ParseDayRange("2026-10-12", "2026-10-12", ist)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, ist), *start)
	assert.Equal(t, time.Date(2026, 10, 13, 0, 0, 0, 0, ist), *end)

	start, end, err = ParseDayRange("", "", ist)
	require.NoError(t, err)
	assert.Nil(t, start)
	assert.Nil(t, end)

	_, _, err = ParseDayRange("12/10/2026", "", ist)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed))

	_, _, err = ParseDayRange("2026-10-13", "2026-10-12", ist)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed))
}

func TestStartOfDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2026, 10, 12, 20, 0, 0, 0, time.UTC) // 01:30 on the 13th in IST

	assert.Equal(t, time.Date(2026, 10, 13, 0, 0, 0, 0, ist), StartOfDay(at, ist))
}
