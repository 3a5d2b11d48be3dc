package credibility

import (
	"net/url"
	"strings"

	"github.com/usesift/sift/models"
)

const (
	warnInvalidURL    = "Invalid URL format"
	warnNoSSL         = "No SSL certificate"
	warnNotWhitelist  = "Domain not in whitelist"
	warnGenericFiller = "Content matches generic boilerplate patterns"
)

// Classifier assesses source URLs against a domain registry. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	registry *Registry

	// minValidScore is the threshold for IsValid.
	minValidScore float64

	// genericnessThreshold is the boilerplate fraction at or above which
	// Refine attaches a warning.
	genericnessThreshold float64
}

// NewClassifier builds a Classifier around an explicit registry. A nil
// registry falls back to DefaultRegistry.
func NewClassifier(registry *Registry, minValidScore, genericnessThreshold float64) *Classifier {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Classifier{
		registry:             registry,
		minValidScore:        minValidScore,
		genericnessThreshold: genericnessThreshold,
	}
}

// ValidateURL assesses a source URL without fetching it. It never returns
// an error: an unparsable URL yields an unclassified verdict with score 0.
//
// A URL without a scheme is assumed to be https, matching the fetcher.
// Tier resolution is first match wins from Official down to Whitelisted;
// anything else is Unclassified with score 0.3, valid but flagged.
func (c *Classifier) ValidateURL(rawURL string) *models.CredibilityInfo {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL != "" && !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return &models.CredibilityInfo{
			Tier:     models.TierUnclassified,
			Score:    0,
			Warnings: []string{warnInvalidURL},
		}
	}

	domain := normalizeDomain(u.Hostname())
	info := &models.CredibilityInfo{
		Domain: domain,
		HasSSL: u.Scheme == "https",
	}
	if !info.HasSSL {
		info.Warnings = append(info.Warnings, warnNoSSL)
	}

	info.Tier = c.registry.Tier(domain)
	info.Score = info.Tier.Score()
	info.IsWhitelisted = c.registry.Whitelisted(domain)
	if info.Tier == models.TierUnclassified {
		info.Warnings = append(info.Warnings, warnNotWhitelist)
	}
	info.IsValid = info.Score >= c.minValidScore
	return info
}

// Refine attaches the genericness of extracted text to a verdict. A
// fraction at or above the threshold adds a warning; the score itself is
// untouched since boilerplate density is a soft signal, not a gate.
func (c *Classifier) Refine(info *models.CredibilityInfo, text string) {
	if info == nil || text == "" {
		return
	}
	info.Genericness = ScoreGenericness(text)
	if info.Genericness >= c.genericnessThreshold {
		info.Warnings = append(info.Warnings, warnGenericFiller)
	}
}
