package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2020-02-19")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2020, 2, 19), d)

	d, err = ParseDate("  2020-02-19 ")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2020, 2, 19), d)

	_, err = ParseDate("19/02/2020")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2020, 8, 12)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2020-08-12"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, d.Equal(back))

	var zero Date
	require.NoError(t, json.Unmarshal([]byte(`null`), &zero))
	assert.True(t, zero.IsZero())
}

func TestAddMonthsClampsDayOfMonth(t *testing.T) {
	assert.Equal(t, NewDate(2021, 2, 28), NewDate(2021, 1, 31).AddMonths(1))
	assert.Equal(t, NewDate(2020, 2, 29), NewDate(2020, 1, 31).AddMonths(1))
	assert.Equal(t, NewDate(2019, 11, 30), NewDate(2019, 12, 31).AddMonths(-1))
	assert.Equal(t, NewDate(2020, 5, 15), NewDate(2020, 2, 15).AddMonths(3))

	// year boundaries
	assert.Equal(t, NewDate(2019, 11, 20), NewDate(2020, 2, 20).AddMonths(-3))
	assert.Equal(t, NewDate(2020, 11, 18), NewDate(2020, 8, 18).AddMonths(3))
}

func TestMidpointRoundsDown(t *testing.T) {
	assert.Equal(t, NewDate(2020, 5, 16),
		NewDate(2020, 2, 19).Midpoint(NewDate(2020, 8, 12)))

	// an odd day span rounds toward the start
	assert.Equal(t, NewDate(2020, 1, 2),
		NewDate(2020, 1, 1).Midpoint(NewDate(2020, 1, 4)))

	// midpoint of equal dates is the date itself
	d := NewDate(2020, 1, 1)
	assert.Equal(t, d, d.Midpoint(d))
}

func TestDaysSince(t *testing.T) {
	assert.Equal(t, 142, NewDate(2020, 8, 12).DaysSince(NewDate(2020, 3, 23)))
	assert.Equal(t, -1, NewDate(2020, 1, 1).DaysSince(NewDate(2020, 1, 2)))
}

func TestDateOfNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+11", 11*3600)
	// 2020-01-01 02:00 +11 is still 2019-12-31 in UTC
	d := DateOf(time.Date(2020, 1, 1, 2, 0, 0, 0, loc))
	assert.Equal(t, NewDate(2019, 12, 31), d)
}
