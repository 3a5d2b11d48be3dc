// Package credibility assesses research sources. It classifies a URL's
// domain into trust tiers against a static registry and scores extracted
// text for boilerplate filler. Both operations are pure functions, safe
// for concurrent use without synchronization.
package credibility

import (
	"strings"

	"github.com/usesift/sift/models"
)

// RegistrySets is the input to NewRegistry. Entries are bare domains
// without scheme or leading "www.", such as "cma.gov.sa".
type RegistrySets struct {
	// Official lists regulatory and exchange authorities.
	Official []string

	// Premium lists top-tier financial press.
	Premium []string

	// Verified lists major wire and news outlets.
	Verified []string

	// Whitelist lists additional trusted domains beyond the tiers. The
	// built registry's whitelist is always the union of all four sets.
	Whitelist []string
}

// Registry is the immutable domain trust registry. Build one with
// NewRegistry at startup and share it freely; it is never mutated after
// construction.
type Registry struct {
	official  map[string]struct{}
	premium   map[string]struct{}
	verified  map[string]struct{}
	whitelist map[string]struct{}
}

// NewRegistry builds a Registry from explicit tier sets. Domains are
// lowercased and stripped of a leading "www.". The whitelist becomes the
// union of the tier sets and the extra whitelist entries, so membership
// in any tier implies whitelist membership.
func NewRegistry(sets RegistrySets) *Registry {
	r := &Registry{
		official:  make(map[string]struct{}, len(sets.Official)),
		premium:   make(map[string]struct{}, len(sets.Premium)),
		verified:  make(map[string]struct{}, len(sets.Verified)),
		whitelist: make(map[string]struct{}),
	}
	add := func(m map[string]struct{}, domains []string) {
		for _, d := range domains {
			d = normalizeDomain(d)
			if d == "" {
				continue
			}
			m[d] = struct{}{}
			r.whitelist[d] = struct{}{}
		}
	}
	add(r.official, sets.Official)
	add(r.premium, sets.Premium)
	add(r.verified, sets.Verified)
	for _, d := range sets.Whitelist {
		d = normalizeDomain(d)
		if d != "" {
			r.whitelist[d] = struct{}{}
		}
	}
	return r
}

// Tier resolves the trust tier for a domain, first match wins from most
// to least trusted. A subdomain matches its registered parent, so
// "news.bloomberg.com" resolves like "bloomberg.com".
func (r *Registry) Tier(domain string) models.Tier {
	domain = normalizeDomain(domain)
	switch {
	case r.contains(r.official, domain):
		return models.TierOfficial
	case r.contains(r.premium, domain):
		return models.TierPremium
	case r.contains(r.verified, domain):
		return models.TierVerified
	case r.contains(r.whitelist, domain):
		return models.TierWhitelisted
	default:
		return models.TierUnclassified
	}
}

// Whitelisted reports whether the domain is in the whitelist superset.
func (r *Registry) Whitelisted(domain string) bool {
	return r.contains(r.whitelist, normalizeDomain(domain))
}

func (r *Registry) contains(m map[string]struct{}, domain string) bool {
	if domain == "" {
		return false
	}
	if _, ok := m[domain]; ok {
		return true
	}
	// Walk up the label chain so a.b.example.com matches example.com.
	for i := strings.Index(domain, "."); i >= 0; i = strings.Index(domain, ".") {
		domain = domain[i+1:]
		if _, ok := m[domain]; ok {
			return true
		}
	}
	return false
}

func normalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	return strings.TrimPrefix(d, "www.")
}

// DefaultRegistry returns the built-in registry for financial research
// centered on the Saudi market.
func DefaultRegistry() *Registry {
	return NewRegistry(RegistrySets{
		Official: []string{
			"cma.gov.sa",
			"sama.gov.sa",
			"saudiexchange.sa",
			"tadawul.com.sa",
			"mof.gov.sa",
			"stats.gov.sa",
			"spa.gov.sa",
		},
		Premium: []string{
			"bloomberg.com",
			"ft.com",
			"wsj.com",
			"economist.com",
		},
		Verified: []string{
			"reuters.com",
			"apnews.com",
			"bbc.com",
			"cnbc.com",
			"alarabiya.net",
		},
		Whitelist: []string{
			"argaam.com",
			"zawya.com",
			"mubasher.info",
			"maaal.com",
			"aleqt.com",
			"arabnews.com",
			"investing.com",
			"marketwatch.com",
		},
	})
}
