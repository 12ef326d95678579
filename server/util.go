package main

import (
	"crypto/rand"
	"encoding/hex"
	"sync/atomic"
)

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// randFloat returns a random float64 in [0, 1). Xorshift is plenty for
// map generation and loot rolls; seeded from crypto/rand at startup.
// Every room goroutine rolls against the same state, so the step is a
// compare-and-swap loop.
var randSrc uint64

func randFloat() float64 {
	for {
		old := atomic.LoadUint64(&randSrc)
		x := old
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		if x == 0 {
			x = 1
		}
		if atomic.CompareAndSwapUint64(&randSrc, old, x) {
			return float64(x%10000) / 10000.0
		}
	}
}

func init() {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	for i, v := range b {
		randSrc |= uint64(v) << (uint(i) * 8)
	}
	if randSrc == 0 {
		randSrc = 1
	}
}
