// Package simhash computes 64-bit SimHash fingerprints of extracted page
// text. Fingerprints travel in scrape responses so clients can spot
// near-duplicate articles (syndicated copies, mirrors, re-posts) without
// holding the text itself; batch jobs use them to flag duplicates
// server-side.
package simhash

import (
	"fmt"
	"hash/fnv"
	"math/bits"
	"strconv"
	"strings"
)

// Fingerprint computes a 64-bit SimHash of text. Tokens are
// whitespace-delimited words, case-folded so headline capitalization does
// not separate otherwise identical copy. Each token votes its FNV-64a
// bits into a 64-lane tally; the sign of each lane becomes one
// fingerprint bit. Empty or whitespace-only text maps to 0.
func Fingerprint(text string) uint64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}

	var lanes [64]int
	for _, word := range words {
		h := fnv.New64a()
		h.Write([]byte(word))
		vote(&lanes, h.Sum64())
	}

	var fp uint64
	for i, lane := range lanes {
		if lane > 0 {
			fp |= 1 << uint(i)
		}
	}
	return fp
}

func vote(lanes *[64]int, hash uint64) {
	for i := 0; i < 64; i++ {
		if hash&(1<<uint(i)) != 0 {
			lanes[i]++
		} else {
			lanes[i]--
		}
	}
}

// Distance returns the Hamming distance between two fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar reports whether two fingerprints are within threshold bits of
// each other.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}

// Hex formats a fingerprint as the fixed-width lowercase hex string used
// in API responses. The zero fingerprint formats as the empty string so
// unfingerprinted pages serialize as absent.
func Hex(fp uint64) string {
	if fp == 0 {
		return ""
	}
	return fmt.Sprintf("%016x", fp)
}

// ParseHex is the inverse of Hex. Empty or malformed input parses as the
// zero fingerprint, which never matches anything.
func ParseHex(s string) uint64 {
	fp, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0
	}
	return fp
}
