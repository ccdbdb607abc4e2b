package ids

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResultIDIsValidULID(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	id := New().NewResultID(now)

	parsed, err := ulid.Parse(string(id))
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(now), parsed.Time())
}

func TestNewResultIDIncreasesWithinSameInstant(t *testing.T) {
	gen := New()
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	prev := gen.NewResultID(now)
	for range 100 {
		next := gen.NewResultID(now)
		assert.Less(t, string(prev), string(next))
		prev = next
	}
}

func TestNewResultIDIncreasesWhenClockGoesBackwards(t *testing.T) {
	gen := New()
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	first := gen.NewResultID(now)
	second := gen.NewResultID(now.Add(-time.Hour))
	assert.Less(t, string(first), string(second))
}
