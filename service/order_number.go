package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// orderNumberPrefix marks campus-grub orders; the rest of the number is a
// base36 millisecond timestamp plus a random disambiguator, so numbers sort
// roughly by creation time while collisions stay astronomically unlikely.
// Uniqueness is still enforced by the store's unique index, with the creation
// path retrying on collision.
const orderNumberPrefix = "GC"

func generateOrderNumber(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// crypto/rand failing means the platform is broken; fall back to
		// the nanosecond clock rather than refuse orders.
		n = big.NewInt(now.UnixNano() % 10000)
	}
	return fmt.Sprintf("%s%s%04d", orderNumberPrefix, ts, n.Int64())
}
