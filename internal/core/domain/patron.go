package domain

import (
	"fmt"
	"time"
)

// PatronTier is the paid-benefit level of a user.
type PatronTier int

const (
	TierNormal     PatronTier = 0
	TierAdventurer PatronTier = 1
	TierTank       PatronTier = 2
	TierHealer     PatronTier = 3
	TierDPS        PatronTier = 4
	TierBenefit    PatronTier = 9
)

const (
	DefaultMaxAlerts       = 5
	DefaultMaxNotification = 20
	DefaultAlertExpiry     = 3 * 24 * time.Hour
)

// AlertBenefits is the alert quota granted by a tier.
type AlertBenefits struct {
	MaxAlerts     int
	Expiry        time.Duration
	UpdateAllowed bool
}

const day = 24 * time.Hour

var tierNames = map[PatronTier]string{
	TierNormal:     "Normal User",
	TierAdventurer: "Adventurer",
	TierTank:       "Tank",
	TierHealer:     "Healer",
	TierDPS:        "DPS",
	TierBenefit:    "Friendly Benefits",
}

var tierBenefits = map[PatronTier]AlertBenefits{
	TierNormal:     {MaxAlerts: DefaultMaxAlerts, Expiry: DefaultAlertExpiry},
	TierAdventurer: {MaxAlerts: 10, Expiry: 7 * day},
	TierTank:       {MaxAlerts: 20, Expiry: 14 * day, UpdateAllowed: true},
	TierHealer:     {MaxAlerts: 30, Expiry: 30 * day, UpdateAllowed: true},
	TierDPS:        {MaxAlerts: 40, Expiry: 30 * day, UpdateAllowed: true},
	TierBenefit:    {MaxAlerts: 20, Expiry: 14 * day, UpdateAllowed: true},
}

// PatronDisplayOrder is the order patrons are listed in, highest tier first.
var PatronDisplayOrder = []PatronTier{TierDPS, TierHealer, TierTank, TierAdventurer, TierBenefit}

// BenefitsFor looks up the alert benefits of a tier. Tiers outside the closed
// set are an error, never a default.
func BenefitsFor(t PatronTier) (AlertBenefits, error) {
	b, ok := tierBenefits[t]
	if !ok {
		return AlertBenefits{}, fmt.Errorf("%w: %d", ErrUnknownPatronTier, int(t))
	}
	return b, nil
}

func (t PatronTier) Valid() bool {
	_, ok := tierBenefits[t]
	return ok
}

func (t PatronTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(t))
}
