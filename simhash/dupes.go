package simhash

// DefaultThreshold is the Hamming distance at or below which two pages
// count as near-duplicates. Three bits tolerates minor boilerplate
// differences (timestamps, share counters) while keeping distinct
// articles apart.
const DefaultThreshold = 3

// Duplicates maps the index of each near-duplicate fingerprint to the
// index of the first earlier fingerprint within threshold. Fingerprints
// of 0 (empty or failed extractions) never match anything. A negative
// threshold falls back to DefaultThreshold.
func Duplicates(fps []uint64, threshold int) map[int]int {
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	dupes := make(map[int]int)
	for i := 1; i < len(fps); i++ {
		if fps[i] == 0 {
			continue
		}
		for j := 0; j < i; j++ {
			if fps[j] != 0 && Similar(fps[i], fps[j], threshold) {
				dupes[i] = j
				break
			}
		}
	}
	return dupes
}
