package models

// Tier is the trust class a domain falls into. Tiers are matched in order
// from most to least trusted and the first match wins.
type Tier string

const (
	TierOfficial     Tier = "official"
	TierPremium      Tier = "premium"
	TierVerified     Tier = "verified"
	TierWhitelisted  Tier = "whitelisted"
	TierUnclassified Tier = "unclassified"
)

// Score returns the base credibility score for the tier.
func (t Tier) Score() float64 {
	switch t {
	case TierOfficial:
		return 1.0
	case TierPremium:
		return 0.95
	case TierVerified:
		return 0.9
	case TierWhitelisted:
		return 0.75
	default:
		return 0.3
	}
}

// CredibilityInfo is the source assessment attached to API responses.
type CredibilityInfo struct {
	// Score is the credibility score in [0, 1].
	Score float64 `json:"score"`

	// Tier names the trust class the domain matched.
	Tier Tier `json:"tier"`

	// IsValid reports whether the score clears the usability threshold.
	IsValid bool `json:"is_valid"`

	// Domain is the normalized host the assessment applies to, with any
	// leading "www." removed.
	Domain string `json:"domain"`

	// HasSSL reports whether the URL uses https.
	HasSSL bool `json:"has_ssl"`

	// IsWhitelisted reports whether the domain is in the whitelist
	// superset, which includes every classified tier.
	IsWhitelisted bool `json:"is_whitelisted"`

	// Warnings lists non-fatal observations, such as a missing https
	// scheme or an unrecognized domain.
	Warnings []string `json:"warnings,omitempty"`

	// Genericness is the fraction of boilerplate phrases found in the
	// extracted text. Only present on scrape responses; values at or
	// above the configured threshold attach a warning.
	Genericness float64 `json:"genericness,omitempty"`
}
