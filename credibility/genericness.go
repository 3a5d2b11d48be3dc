package credibility

import "regexp"

// fillerPatterns are phrases characteristic of filler or machine-written
// prose. The genericness score is the fraction of patterns that match, so
// the set size is part of the score's meaning; extend with care.
var fillerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)in conclusion`),
	regexp.MustCompile(`(?i)it is worth noting`),
	regexp.MustCompile(`(?i)as mentioned earlier`),
	regexp.MustCompile(`(?i)let['’]?s dive in`),
	regexp.MustCompile(`(?i)without further ado`),
	regexp.MustCompile(`(?i)this article discusses`),
	regexp.MustCompile(`(?i)it['’]?s important to note`),
	regexp.MustCompile(`(?i)at the end of the day`),
}

// ScoreGenericness reports the fraction of known boilerplate phrases that
// appear anywhere in the text, in [0, 1]. It is a crude lexical signal:
// short or quoted text can trigger false positives, so callers must treat
// it as a soft penalty and never as a sole accept or reject gate.
func ScoreGenericness(text string) float64 {
	if text == "" {
		return 0
	}
	matched := 0
	for _, p := range fillerPatterns {
		if p.MatchString(text) {
			matched++
		}
	}
	return float64(matched) / float64(len(fillerPatterns))
}
