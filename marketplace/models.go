package marketplace

import (
	"strings"

	"github.com/sujayvsarma/armclient/types"
)

type PricingType int

const (
	PricingTypeFree PricingType = iota
	PricingTypeFreeTrial
	PricingTypeBYOL
	PricingTypePayAsYouGo
	PricingTypeReservations
	PricingTypeSaaS

	PricingTypeDefault = PricingTypeFree
)

var pricingTypeTable = types.NewEnumTable("PricingType", map[PricingType]string{
	PricingTypeFree:         "Free",
	PricingTypeFreeTrial:    "FreeTrial",
	PricingTypeBYOL:         "Byol",
	PricingTypePayAsYouGo:   "Payg",
	PricingTypeReservations: "Ri",
	PricingTypeSaaS:         "SaaS",
}).WithAlias("BYOL", PricingTypeBYOL).WithAlias("PayAsYouGo", PricingTypePayAsYouGo)

func (pricingType PricingType) String() string {
	return pricingTypeTable.String(pricingType)
}

func (pricingType PricingType) MarshalJSON() ([]byte, error) {
	return pricingTypeTable.Marshal(pricingType)
}

func (pricingType *PricingType) UnmarshalJSON(data []byte) error {
	return pricingTypeTable.Unmarshal(data, pricingType)
}

// Offer is a marketplace catalog offer. Members the catalog adds over time are kept in the
// embedded remainder so cached documents round-trip unchanged.
type Offer struct {
	OfferId              string        `json:"offerId"`
	LegacyId             string        `json:"legacyId,omitempty"`
	DisplayName          string        `json:"displayName"`
	PublisherId          string        `json:"publisherId"`
	PublisherDisplayName string        `json:"publisherDisplayName,omitempty"`
	Summary              string        `json:"summary,omitempty"`
	LongSummary          string        `json:"longSummary,omitempty"`
	Description          string        `json:"description,omitempty"`
	CategoryIds          []string      `json:"categoryIds,omitempty"`
	PricingTypes         []PricingType `json:"pricingTypes,omitempty"`
	Popularity           float64       `json:"popularity,omitempty"`
	Plans                []Plan        `json:"plans,omitempty"`

	types.ExtensibleObject `json:"-"`
}

type offerModel Offer

func (o *Offer) UnmarshalJSON(data []byte) error {
	var model offerModel
	extra, err := types.UnmarshalExtensible(data, &model)
	if err != nil {
		return err
	}
	*o = Offer(model)
	o.ExtensibleObject = extra
	return nil
}

func (o Offer) MarshalJSON() ([]byte, error) {
	return types.MarshalExtensible(offerModel(o), o.ExtensibleObject)
}

// Plan returns the plan with planId, compared case-insensitively.
func (o Offer) Plan(planId string) (*Plan, bool) {
	for i := range o.Plans {
		if strings.EqualFold(o.Plans[i].PlanId, planId) {
			return &o.Plans[i], true
		}
	}
	return nil, false
}

type Plan struct {
	PlanId       string        `json:"planId"`
	UniquePlanId string        `json:"uniquePlanId,omitempty"`
	DisplayName  string        `json:"displayName"`
	Summary      string        `json:"summary,omitempty"`
	Description  string        `json:"description,omitempty"`
	SkuId        string        `json:"skuId,omitempty"`
	Version      string        `json:"version,omitempty"`
	IsHidden     bool          `json:"isHidden,omitempty"`
	PricingTypes []PricingType `json:"pricingTypes,omitempty"`
}

// PurchasePlan is the ARM plan block a resource created from this catalog plan carries.
func (plan Plan) PurchasePlan(parent Offer) types.Plan {
	return types.Plan{
		Name:      plan.PlanId,
		Publisher: parent.PublisherId,
		Product:   parent.LegacyId,
		Version:   plan.Version,
	}
}

type offerPage struct {
	Items        []Offer `json:"items"`
	NextPageLink string  `json:"nextPageLink,omitempty"`
}
