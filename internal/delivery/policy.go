package delivery

import (
	"strings"

	"acai-backend/internal/config"
)

// Reasons reported when an address cannot be served.
const (
	ReasonExcludedCity  = "excluded_city"
	ReasonBlockedPrefix = "blocked_prefix"
	ReasonTooFar        = "too_far"
)

// Tier charges Fee for any distance up to UpToKm.
type Tier struct {
	UpToKm float64
	Fee    float64
}

// Policy decides whether an address is served and what it costs.
type Policy struct {
	Store          Point
	MaxRadiusKm    float64
	RouteFactor    float64
	ExcludedCities []string
	BlockedPrefix  string
	// Tiers must be sorted by UpToKm. Distances beyond the last tier but
	// inside the radius pay FarFee.
	Tiers  []Tier
	FarFee float64
}

// Address is a resolved postal code.
type Address struct {
	CEP      string
	Street   string
	District string
	City     string
	State    string
	Lat      float64
	Lon      float64
}

// Quote is the outcome of classifying an address.
type Quote struct {
	Address    Address
	DistanceKm float64
	Fee        float64
	OutOfRange bool
	Reason     string
}

// PolicyFromConfig builds the store delivery policy.
func PolicyFromConfig(cfg config.Config) Policy {
	return Policy{
		Store:          Point{Lat: cfg.StoreLat, Lon: cfg.StoreLon},
		MaxRadiusKm:    cfg.DeliveryMaxRadiusKm,
		RouteFactor:    cfg.DeliveryRouteFactor,
		ExcludedCities: cfg.ExcludedCities,
		BlockedPrefix:  cfg.BlockedCEPPrefix,
		Tiers: []Tier{
			{UpToKm: 1, Fee: cfg.DeliveryFee1Km},
			{UpToKm: 2, Fee: cfg.DeliveryFee2Km},
		},
		FarFee: cfg.DeliveryFeeMax,
	}
}

// RouteDistance scales the straight-line distance to approximate streets.
func (p Policy) RouteDistance(dest Point) float64 {
	factor := p.RouteFactor
	if factor <= 0 {
		factor = 1
	}
	return Haversine(p.Store, dest) * factor
}

// Classify applies the exclusion rules and the radius and fee tiers.
func (p Policy) Classify(addr Address) Quote {
	q := Quote{Address: addr}
	if p.isExcluded(addr) {
		q.OutOfRange = true
		q.Reason = ReasonExcludedCity
		return q
	}
	if p.BlockedPrefix != "" && strings.HasPrefix(addr.CEP, p.BlockedPrefix) {
		q.OutOfRange = true
		q.Reason = ReasonBlockedPrefix
		return q
	}

	q.DistanceKm = p.RouteDistance(Point{Lat: addr.Lat, Lon: addr.Lon})
	if q.DistanceKm > p.MaxRadiusKm {
		q.OutOfRange = true
		q.Reason = ReasonTooFar
		return q
	}
	q.Fee = p.FeeFor(q.DistanceKm)
	return q
}

// FeeFor returns the flat fee for a distance already inside the radius.
func (p Policy) FeeFor(km float64) float64 {
	for _, t := range p.Tiers {
		if km <= t.UpToKm {
			return t.Fee
		}
	}
	return p.FarFee
}

func (p Policy) isExcluded(addr Address) bool {
	city := strings.ToLower(strings.TrimSpace(addr.City))
	for _, c := range p.ExcludedCities {
		if strings.ToLower(strings.TrimSpace(c)) == city {
			return true
		}
	}
	return false
}
