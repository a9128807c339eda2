package billing

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/resourceuri"
	"github.com/sujayvsarma/armclient/restapi"
)

const (
	ProviderName       = "Microsoft.Commerce"
	RateCardAPIVersion = "2016-08-31-preview"
)

// RateCardQuery selects the price list. OfferDurableId looks like "MS-AZR-0003P".
type RateCardQuery struct {
	OfferDurableId string
	Currency       string
	Locale         string
	RegionInfo     string
}

func (query RateCardQuery) filter() string {
	return fmt.Sprintf("OfferDurableId eq '%s' and Currency eq '%s' and Locale eq '%s' and RegionInfo eq '%s'",
		query.OfferDurableId, query.Currency, query.Locale, query.RegionInfo)
}

type IRateCardClient interface {
	GetRateCard(ctx context.Context, subscription uuid.UUID, query RateCardQuery) (*RateCard, error)
}

// RateCardClient reads the Commerce RateCard. ARM answers with a redirect to a document on
// blob storage, which is downloaded without the bearer token.
type RateCardClient struct {
	Logger *logrus.Logger

	client     *restapi.Client
	apiVersion string
}

func NewRateCardClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *RateCardClient {
	return &RateCardClient{
		Logger:     restapi.LoggerOrDiscard(logger),
		client:     client,
		apiVersion: restapi.ApplyOptions(RateCardAPIVersion, options...).APIVersion,
	}
}

func (rateCards *RateCardClient) APIVersion() string {
	return rateCards.apiVersion
}

func (rateCards *RateCardClient) GetRateCard(ctx context.Context, subscription uuid.UUID, query RateCardQuery) (*RateCard, error) {
	if err := restapi.FirstError(
		restapi.RequireSubscription("subscription", subscription),
		restapi.RequireString("offerDurableId", query.OfferDurableId),
		restapi.RequireString("currency", query.Currency),
		restapi.RequireString("locale", query.Locale),
		restapi.RequireString("regionInfo", query.RegionInfo),
	); err != nil {
		return nil, err
	}
	for name, value := range map[string]string{"offerDurableId": query.OfferDurableId, "currency": query.Currency, "locale": query.Locale, "regionInfo": query.RegionInfo} {
		if strings.Contains(value, "'") {
			return nil, &restapi.ArgumentError{Name: name, Reason: "must not contain quotes"}
		}
	}

	path, err := resourceuri.New(subscription).WithProvider(ProviderName).WithType("RateCard").Build()
	if err != nil {
		return nil, err
	}

	rateCards.Logger.Debugf("Requesting rate card for %s", query.filter())
	response := rateCards.client.GET(ctx, restapi.Request{
		URL:                  path,
		APIVersion:           rateCards.apiVersion,
		Query:                map[string]string{"$filter": query.filter()},
		ExpectedSuccessCodes: restapi.Expect(http.StatusOK, http.StatusFound),
	})
	if err := response.AsError(); err != nil {
		return nil, err
	}

	if response.HTTPStatus == http.StatusFound {
		location := response.Header.Get("Location")
		if location == "" {
			return nil, fmt.Errorf("billing.GetRateCard: redirect without a Location header")
		}
		rateCards.Logger.Debugf("Following rate card redirect")
		response = rateCards.client.GETWithoutAuthentication(ctx, restapi.Request{URL: location})
	}

	rateCard, err := restapi.Decode[RateCard](response)
	if err != nil {
		return nil, err
	}
	rateCards.Logger.Infof("Rate card has %d meters and %d offer terms", len(rateCard.Meters), len(rateCard.OfferTerms))
	return &rateCard, nil
}
