package models

import "strings"

// Tier is a subscription level.
type Tier string

const (
	TierNone    Tier = "none"
	TierPremium Tier = "premium"
	TierPro     Tier = "pro"
)

// ParseTier maps a server tier string to a Tier; unknown values are TierNone.
func ParseTier(s string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierPremium:
		return TierPremium
	case TierPro:
		return TierPro
	default:
		return TierNone
	}
}

// Subscription is the structured premium status of a user.
type Subscription struct {
	IsPremium bool `json:"isPremium"`
	Tier      Tier `json:"tier,omitempty"`
	// Legacy is set when the subscription was synthesized from a bare boolean.
	Legacy bool `json:"-"`
}

// Premium reports whether s grants premium features. A nil subscription does not.
func (s *Subscription) Premium() bool {
	if s == nil {
		return false
	}
	return s.IsPremium || s.Tier == TierPremium || s.Tier == TierPro
}

// LegacyPremium is the shape synthesized from a boolean premium flag.
func LegacyPremium() *Subscription {
	return &Subscription{IsPremium: true, Tier: TierPremium, Legacy: true}
}
