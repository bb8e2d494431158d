package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderNumberPattern = regexp.MustCompile(`^GC[0-9A-Z]+\d{4}$`)

func TestGenerateOrderNumberFormat(t *testing.T) {
	n := generateOrderNumber(time.Now())
	assert.Regexp(t, orderNumberPattern, n)
}

func TestGenerateOrderNumberMostlyUnique(t *testing.T) {
	// Same timestamp on every call: only the random disambiguator varies,
	// yet duplicates should stay rare. The store's unique index plus the
	// retry loop covers the residual collisions.
	now := time.Now()
	seen := map[string]bool{}
	dupes := 0
	const n = 1000
	for i := 0; i < n; i++ {
		num := generateOrderNumber(now)
		require.Regexp(t, orderNumberPattern, num)
		if seen[num] {
			dupes++
		}
		seen[num] = true
	}
	// 1000 draws from 10000 values collide sometimes; far under half.
	assert.Less(t, dupes, n/10)
}

func TestGenerateOrderNumberTimestampOrdering(t *testing.T) {
	early := generateOrderNumber(time.UnixMilli(1_700_000_000_000))
	late := generateOrderNumber(time.UnixMilli(1_800_000_000_000))
	assert.NotEqual(t, early[:10], late[:10])
}
