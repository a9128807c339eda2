package billing

import (
	"sort"
	"strconv"
	"time"
)

// RateCard is the price list of one offer in one currency, locale and region.
type RateCard struct {
	OfferTerms    []OfferTerm `json:"OfferTerms"`
	Meters        []Meter     `json:"Meters"`
	Currency      string      `json:"Currency"`
	Locale        string      `json:"Locale"`
	IsTaxIncluded bool        `json:"IsTaxIncluded"`
}

// OfferTerm is a monetary commitment, credit or discount attached to the offer.
type OfferTerm struct {
	Name             string             `json:"Name"`
	Discount         float64            `json:"Discount,omitempty"`
	Credit           float64            `json:"Credit,omitempty"`
	TieredDiscount   map[string]float64 `json:"TieredDiscount,omitempty"`
	ExcludedMeterIds []string           `json:"ExcludedMeterIds,omitempty"`
	EffectiveDate    *time.Time         `json:"EffectiveDate,omitempty"`
}

type Meter struct {
	MeterId          string             `json:"MeterId"`
	MeterName        string             `json:"MeterName"`
	MeterCategory    string             `json:"MeterCategory"`
	MeterSubCategory string             `json:"MeterSubCategory,omitempty"`
	MeterRegion      string             `json:"MeterRegion,omitempty"`
	MeterStatus      string             `json:"MeterStatus,omitempty"`
	MeterTags        []string           `json:"MeterTags,omitempty"`
	Unit             string             `json:"Unit"`
	MeterRates       map[string]float64 `json:"MeterRates"`
	IncludedQuantity float64            `json:"IncludedQuantity"`
	EffectiveDate    *time.Time         `json:"EffectiveDate,omitempty"`
}

// RateTier is one step of a meter's tiered pricing: Rate applies from MinimumQuantity units on.
type RateTier struct {
	MinimumQuantity float64
	Rate            float64
}

// Tiers returns the meter's rates ordered by their starting quantity. Keys that are not numbers are skipped.
func (meter Meter) Tiers() []RateTier {
	tiers := make([]RateTier, 0, len(meter.MeterRates))
	for quantity, rate := range meter.MeterRates {
		minimum, err := strconv.ParseFloat(quantity, 64)
		if err != nil {
			continue
		}
		tiers = append(tiers, RateTier{MinimumQuantity: minimum, Rate: rate})
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinimumQuantity < tiers[j].MinimumQuantity })
	return tiers
}

// BaseRate is the rate of the first tier, or zero for a meter without rates.
func (meter Meter) BaseRate() float64 {
	tiers := meter.Tiers()
	if len(tiers) == 0 {
		return 0
	}
	return tiers[0].Rate
}

// Cost prices quantity units against the tiers after deducting the included quantity.
func (meter Meter) Cost(quantity float64) float64 {
	billable := quantity - meter.IncludedQuantity
	if billable <= 0 {
		return 0
	}

	tiers := meter.Tiers()
	cost := 0.0
	for i, tier := range tiers {
		upper := billable
		if i+1 < len(tiers) && tiers[i+1].MinimumQuantity < billable {
			upper = tiers[i+1].MinimumQuantity
		}
		if upper > tier.MinimumQuantity {
			cost += (upper - tier.MinimumQuantity) * tier.Rate
		}
	}
	return cost
}
