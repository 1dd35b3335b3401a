package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateRange(t *testing.T) {
	t.Run("valid range normalizes to UTC midnight", func(t *testing.T) {
		loc := time.FixedZone("UTC+3", 3*3600)
		r, err := NewDateRange(
			time.Date(2025, 6, 1, 15, 30, 0, 0, loc),
			time.Date(2025, 6, 4, 9, 0, 0, 0, loc),
		)
		require.NoError(t, err)
		assert.Equal(t, NewDate(2025, 6, 1), r.Start)
		assert.Equal(t, NewDate(2025, 6, 4), r.End)
		assert.Equal(t, 3, r.Nights())
	})

	t.Run("end equal to start is rejected", func(t *testing.T) {
		_, err := NewDateRange(NewDate(2025, 6, 1), NewDate(2025, 6, 1))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		_, err := NewDateRange(NewDate(2025, 6, 3), NewDate(2025, 6, 1))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
}

func TestDateRange_Overlaps(t *testing.T) {
	base := MustDateRange(NewDate(2025, 6, 1), NewDate(2025, 6, 4))

	tests := []struct {
		name     string
		other    DateRange
		expected bool
	}{
		{"same range", base, true},
		{"starts inside", MustDateRange(NewDate(2025, 6, 3), NewDate(2025, 6, 5)), true},
		{"ends inside", MustDateRange(NewDate(2025, 5, 28), NewDate(2025, 6, 2)), true},
		{"contains", MustDateRange(NewDate(2025, 5, 1), NewDate(2025, 7, 1)), true},
		{"checkout equals checkin", MustDateRange(NewDate(2025, 6, 4), NewDate(2025, 6, 6)), false},
		{"checkin equals checkout", MustDateRange(NewDate(2025, 5, 30), NewDate(2025, 6, 1)), false},
		{"disjoint", MustDateRange(NewDate(2025, 7, 1), NewDate(2025, 7, 3)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, base.Overlaps(tt.other))
			assert.Equal(t, tt.expected, tt.other.Overlaps(base))
		})
	}
}

func TestDateRange_Days(t *testing.T) {
	r := MustDateRange(NewDate(2025, 2, 27), NewDate(2025, 3, 2))

	days := r.Days()

	require.Len(t, days, 3)
	assert.Equal(t, NewDate(2025, 2, 27), days[0])
	assert.Equal(t, NewDate(2025, 2, 28), days[1])
	assert.Equal(t, NewDate(2025, 3, 1), days[2])
	assert.Equal(t, NewDate(2025, 3, 1), r.Last())
}

func TestDateRange_IntersectAndUnion(t *testing.T) {
	a := MustDateRange(NewDate(2025, 1, 1), NewDate(2025, 1, 10))
	b := MustDateRange(NewDate(2025, 1, 5), NewDate(2025, 1, 20))

	inter, ok := a.Intersect(b)
	require.True(t, ok)
	assert.Equal(t, NewDate(2025, 1, 5), inter.Start)
	assert.Equal(t, NewDate(2025, 1, 10), inter.End)

	union := a.Union(b)
	assert.Equal(t, NewDate(2025, 1, 1), union.Start)
	assert.Equal(t, NewDate(2025, 1, 20), union.End)

	_, ok = a.Intersect(MustDateRange(NewDate(2025, 1, 10), NewDate(2025, 1, 11)))
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-12-25")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, 12, 25), d)

	_, err = ParseDate("25.12.2025")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}
