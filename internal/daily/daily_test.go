package daily

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	assert.Equal(t, "2026-03-01", DateKey(time.Date(2026, 3, 2, 5, 0, 0, 0, loc)))
}

func TestSeed(t *testing.T) {
	d := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s := Seed(d, "salt")
	require.Len(t, s, SeedLength)
	for _, c := range s {
		assert.True(t, strings.ContainsRune(seedAlphabet, c))
	}

	assert.Equal(t, s, Seed(d.Add(11*time.Hour), "salt"), "same UTC day")
	assert.NotEqual(t, s, Seed(d.AddDate(0, 0, 1), "salt"))
	assert.NotEqual(t, s, Seed(d, "pepper"))
}

func TestParseDateKey(t *testing.T) {
	_, err := ParseDateKey("2026-10-18")
	assert.NoError(t, err)
	_, err = ParseDateKey("18/10/2026")
	assert.Error(t, err)
}
