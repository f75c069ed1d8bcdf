package parser

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/hledger/ast"
)

func TestParseDateSeparators(t *testing.T) {
	expected := ast.NewDate(2021, 2, 28)
	for _, input := range []string{"2021-02-28", "2021/02/28", "2021.02.28", "2021-2-28"} {
		date, secondary, next, err := parseDatePair(cur(input + " rest"))
		assert.NoError(t, err, input)
		assert.Equal(t, expected, date)
		assert.Zero(t, secondary)
		assert.Equal(t, " rest", next.rest())
	}
}

func TestParseDateMixedSeparators(t *testing.T) {
	for _, input := range []string{"2021/02.28", "2021-02/28", "2021.02-28"} {
		_, _, _, err := parseDatePair(cur(input))
		var perr *ParseError
		assert.True(t, errors.As(err, &perr), input)
	}
}

func TestParseDateInvalidCalendar(t *testing.T) {
	for _, input := range []string{"2021-02-29", "2021-13-01", "2021-04-31", "2021-00-10", "2021-01-00"} {
		_, _, _, err := parseDatePair(cur(input))
		var invalid *InvalidDateError
		assert.True(t, errors.As(err, &invalid), input)
	}

	date, _, _, err := parseDatePair(cur("2020-02-29"))
	assert.NoError(t, err)
	assert.Equal(t, ast.NewDate(2020, 2, 29), date)
}

func TestParseDateInvalidCalendarError(t *testing.T) {
	_, _, _, err := parseDatePair(cur("2021/02/29"))
	assert.EqualError(t, err, "line 1:1: invalid date 2021-02-29")
}

func TestParseSecondaryDate(t *testing.T) {
	date, secondary, next, err := parseDatePair(cur("2021-01-01=2021-01-05 x"))
	assert.NoError(t, err)
	assert.Equal(t, ast.NewDate(2021, 1, 1), date)
	assert.Equal(t, ast.NewDate(2021, 1, 5), *secondary)
	assert.Equal(t, " x", next.rest())

	_, secondary, _, err = parseDatePair(cur("2021-01-01=12-5"))
	assert.NoError(t, err)
	assert.Equal(t, ast.NewDate(2021, 12, 5), *secondary)

	// The secondary date may use its own separator.
	_, secondary, _, err = parseDatePair(cur("2020/01/01=02.29"))
	assert.NoError(t, err)
	assert.Equal(t, ast.NewDate(2020, 2, 29), *secondary)

	// The inherited year decides whether the day exists.
	_, _, _, err = parseDatePair(cur("2021/01/01=02.29"))
	var invalid *InvalidDateError
	assert.True(t, errors.As(err, &invalid))
}

func TestParseDateRequiresYearOnPrimary(t *testing.T) {
	_, _, _, err := parseDatePair(cur("12-05 x"))
	assert.Error(t, err)

	_, _, _, err = parseDatePair(cur("income"))
	assert.Error(t, err)
}
