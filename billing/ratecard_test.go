package billing

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujayvsarma/armclient/restapi"
	"github.com/sujayvsarma/armclient/restapi/restapitest"
)

var testSubscription = uuid.MustParse("5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c")

const rateCardPath = "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/providers/Microsoft.Commerce/RateCard"

const rateCardPayload = `{
	"OfferTerms": [{"Name": "Monetary Credit", "Credit": 150, "ExcludedMeterIds": ["m2"]}],
	"Meters": [
		{"MeterId": "m1", "MeterName": "D2s v5", "MeterCategory": "Virtual Machines", "MeterRegion": "EU West", "Unit": "1 Hour", "MeterRates": {"0": 0.096}, "IncludedQuantity": 0},
		{"MeterId": "m2", "MeterName": "Data Transfer Out", "MeterCategory": "Bandwidth", "Unit": "1 GB", "MeterRates": {"0": 0.087, "10240": 0.083, "not-a-number": 1}, "IncludedQuantity": 5}
	],
	"Currency": "EUR",
	"Locale": "en-GB",
	"IsTaxIncluded": false
}`

var query = RateCardQuery{OfferDurableId: "MS-AZR-0003P", Currency: "EUR", Locale: "en-GB", RegionInfo: "GB"}

func TestRateCardClient_FollowsRedirect(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Redirect(http.MethodGet, rateCardPath, server.URL+"/ratecards/export.json")
	server.Handle(http.MethodGet, "/ratecards/export.json", http.StatusOK, rateCardPayload)

	rateCards := NewRateCardClient(server.Client(), nil)
	rateCard, err := rateCards.GetRateCard(context.Background(), testSubscription, query)

	require.NoError(t, err)
	assert.Equal(t, "EUR", rateCard.Currency)
	require.Len(t, rateCard.Meters, 2)
	assert.Equal(t, []string{"m2"}, rateCard.OfferTerms[0].ExcludedMeterIds)

	first := server.Calls()[0]
	assert.Equal(t, RateCardAPIVersion, first.APIVersion)
	assert.Equal(t, "OfferDurableId eq 'MS-AZR-0003P' and Currency eq 'EUR' and Locale eq 'en-GB' and RegionInfo eq 'GB'", first.Query.Get("$filter"))
	assert.Len(t, server.Calls(), 2)
}

func TestRateCardClient_Validation(t *testing.T) {
	server := restapitest.NewServer(t)
	rateCards := NewRateCardClient(server.Client(), nil)

	tests := []struct {
		name     string
		query    RateCardQuery
		argument string
	}{
		{"missing offer", RateCardQuery{Currency: "EUR", Locale: "en-GB", RegionInfo: "GB"}, "offerDurableId"},
		{"missing region", RateCardQuery{OfferDurableId: "MS-AZR-0003P", Currency: "EUR", Locale: "en-GB"}, "regionInfo"},
		{"quote in filter", RateCardQuery{OfferDurableId: "x' or 1 eq 1", Currency: "EUR", Locale: "en-GB", RegionInfo: "GB"}, "offerDurableId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rateCards.GetRateCard(context.Background(), testSubscription, tt.query)
			var argumentError *restapi.ArgumentError
			require.ErrorAs(t, err, &argumentError)
			assert.Equal(t, tt.argument, argumentError.Name)
		})
	}
	assert.Empty(t, server.Calls())
}

func TestMeter_Cost(t *testing.T) {
	meter := Meter{MeterRates: map[string]float64{"0": 1, "100": 0.5, "not-a-number": 9}, IncludedQuantity: 10}

	assert.Equal(t, []RateTier{{0, 1}, {100, 0.5}}, meter.Tiers())
	assert.Equal(t, 1.0, meter.BaseRate())
	assert.Equal(t, 0.0, meter.Cost(5))
	assert.InDelta(t, 50.0, meter.Cost(60), 1e-9)
	assert.InDelta(t, 125.0, meter.Cost(160), 1e-9)
	assert.Equal(t, 0.0, Meter{}.BaseRate())
}
