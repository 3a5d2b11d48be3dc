package simhash

import (
	"testing"
)

func TestFingerprint_IdenticalTexts(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	fp1 := Fingerprint(text)
	fp2 := Fingerprint(text)

	if fp1 != fp2 {
		t.Errorf("identical texts produced different fingerprints: %064b vs %064b", fp1, fp2)
	}
}

func TestFingerprint_CaseFolded(t *testing.T) {
	fp1 := Fingerprint("Breaking News Today")
	fp2 := Fingerprint("breaking news today")

	if fp1 != fp2 {
		t.Errorf("capitalization changed the fingerprint: %064b vs %064b", fp1, fp2)
	}
}

func TestFingerprint_SimilarTexts(t *testing.T) {
	text1 := "the quick brown fox jumps over the lazy dog"
	text2 := "the quick brown fox leaps over the lazy dog"

	fp1 := Fingerprint(text1)
	fp2 := Fingerprint(text2)

	dist := Distance(fp1, fp2)
	if dist > 10 {
		t.Errorf("similar texts have too large distance: %d (fingerprints: %064b, %064b)", dist, fp1, fp2)
	}
}

func TestFingerprint_DifferentTexts(t *testing.T) {
	text1 := "the quick brown fox jumps over the lazy dog"
	text2 := "completely unrelated content about quantum physics and mathematics"

	fp1 := Fingerprint(text1)
	fp2 := Fingerprint(text2)

	dist := Distance(fp1, fp2)
	if dist < 5 {
		t.Errorf("very different texts have too small distance: %d", dist)
	}
}

func TestFingerprint_EmptyInput(t *testing.T) {
	fp := Fingerprint("")
	if fp != 0 {
		t.Errorf("empty input should produce fingerprint 0, got: %064b", fp)
	}
}

func TestFingerprint_SingleWord(t *testing.T) {
	fp := Fingerprint("hello")
	if fp == 0 {
		t.Error("single word should produce a non-zero fingerprint")
	}

	// Same single word should be deterministic.
	fp2 := Fingerprint("hello")
	if fp != fp2 {
		t.Errorf("same single word produced different fingerprints: %d vs %d", fp, fp2)
	}
}

func TestFingerprint_WhitespaceOnly(t *testing.T) {
	fp := Fingerprint("   \t\n  ")
	if fp != 0 {
		t.Errorf("whitespace-only input should produce fingerprint 0, got: %064b", fp)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
		want int
	}{
		{"identical", 0xFF, 0xFF, 0},
		{"all different", 0, ^uint64(0), 64},
		{"one bit", 0, 1, 1},
		{"two bits", 0, 3, 2},
		{"zero zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Distance(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilar(t *testing.T) {
	fp1 := Fingerprint("the quick brown fox")
	fp2 := Fingerprint("the quick brown fox")

	if !Similar(fp1, fp2, 0) {
		t.Error("identical fingerprints should be similar at threshold 0")
	}

	fp3 := Fingerprint("a completely different text about nothing related")
	dist := Distance(fp1, fp3)

	if Similar(fp1, fp3, dist-1) {
		t.Errorf("different texts should not be similar at threshold %d (distance is %d)", dist-1, dist)
	}
	if !Similar(fp1, fp3, dist) {
		t.Errorf("should be similar at threshold equal to distance (%d)", dist)
	}
}

func TestHex(t *testing.T) {
	if got := Hex(0); got != "" {
		t.Errorf("zero fingerprint should format as empty, got %q", got)
	}
	if got := Hex(0xABCDEF); got != "0000000000abcdef" {
		t.Errorf("Hex(0xABCDEF) = %q, want zero-padded lowercase", got)
	}
	if got := Hex(Fingerprint("hello")); len(got) != 16 {
		t.Errorf("fingerprint hex should be 16 chars, got %d (%q)", len(got), got)
	}
}

func TestParseHex(t *testing.T) {
	fp := Fingerprint("round trip me")
	if got := ParseHex(Hex(fp)); got != fp {
		t.Errorf("ParseHex(Hex(fp)) = %x, want %x", got, fp)
	}
	if got := ParseHex(""); got != 0 {
		t.Errorf("empty string should parse as zero, got %x", got)
	}
	if got := ParseHex("not hex"); got != 0 {
		t.Errorf("malformed input should parse as zero, got %x", got)
	}
}

func TestDuplicates(t *testing.T) {
	article := "the quick brown fox jumps over the lazy dog"
	copyA := Fingerprint(article)
	copyB := Fingerprint(article)
	other := Fingerprint("completely unrelated content about quantum physics and mathematics")

	t.Run("identical pages flagged", func(t *testing.T) {
		dupes := Duplicates([]uint64{copyA, other, copyB}, DefaultThreshold)
		if len(dupes) != 1 {
			t.Fatalf("expected exactly one duplicate, got %v", dupes)
		}
		if dupes[2] != 0 {
			t.Errorf("index 2 should point at index 0, got %v", dupes)
		}
	})

	t.Run("distinct pages pass", func(t *testing.T) {
		dupes := Duplicates([]uint64{copyA, other}, DefaultThreshold)
		if len(dupes) != 0 {
			t.Errorf("expected no duplicates, got %v", dupes)
		}
	})

	t.Run("zero fingerprints never match", func(t *testing.T) {
		dupes := Duplicates([]uint64{0, 0, copyA}, DefaultThreshold)
		if len(dupes) != 0 {
			t.Errorf("zero fingerprints matched: %v", dupes)
		}
	})

	t.Run("negative threshold uses the default", func(t *testing.T) {
		dupes := Duplicates([]uint64{copyA, copyB}, -1)
		if dupes[1] != 0 {
			t.Errorf("expected duplicate under default threshold, got %v", dupes)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if dupes := Duplicates(nil, DefaultThreshold); len(dupes) != 0 {
			t.Errorf("expected empty map, got %v", dupes)
		}
	})
}
