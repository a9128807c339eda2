package marketplace

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/filepathparser"
	"github.com/sujayvsarma/armclient/json"
	"github.com/sujayvsarma/armclient/restapi"
)

const (
	CatalogEndpoint   = "https://catalogapi.azure.com"
	CatalogAPIVersion = "2018-08-01-beta"

	// CacheMaxAge is how long a cached catalog document is served before it is fetched again.
	CacheMaxAge = 15 * 24 * time.Hour

	DefaultMaxPages = 200

	offersFileName = "offers.json"
)

// CatalogOptions selects the cache location and catalog view. Locale is the market (e.g. "US"),
// Language the display language (e.g. "en").
type CatalogOptions struct {
	BaseDir  string
	Locale   string
	Language string
	Endpoint string
	MaxAge   time.Duration
	MaxPages int
}

type ICatalogClient interface {
	ListOffers(ctx context.Context, refresh bool) ([]Offer, error)
	GetOffer(ctx context.Context, offerId string, refresh bool) (*Offer, error)
	FindPlan(ctx context.Context, offerId string, planId string) (*Offer, *Plan, error)
	CachePath() string
}

// CatalogClient reads the public marketplace catalog. Catalog requests carry no bearer token
// and every document is cached on disk for CatalogOptions.MaxAge.
type CatalogClient struct {
	Logger *logrus.Logger

	client     *restapi.Client
	cache      json.IJsonClient
	cachePath  string
	endpoint   string
	locale     string
	language   string
	apiVersion string
	maxAge     time.Duration
	maxPages   int
}

func NewCatalogClient(client *restapi.Client, catalogOptions CatalogOptions, logger *logrus.Logger, options ...restapi.ClientOption) (*CatalogClient, error) {
	cachePath, err := filepathparser.CatalogCachePath(catalogOptions.BaseDir, catalogOptions.Locale, catalogOptions.Language)
	if err != nil {
		return nil, &restapi.ArgumentError{Name: "catalogOptions", Reason: err.Error()}
	}

	logger = restapi.LoggerOrDiscard(logger)
	catalog := &CatalogClient{
		Logger:     logger,
		client:     client,
		cache:      json.NewJsonClient(cachePath, logger),
		cachePath:  cachePath,
		endpoint:   strings.TrimSuffix(catalogOptions.Endpoint, "/"),
		locale:     catalogOptions.Locale,
		language:   catalogOptions.Language,
		apiVersion: restapi.ApplyOptions(CatalogAPIVersion, options...).APIVersion,
		maxAge:     catalogOptions.MaxAge,
		maxPages:   catalogOptions.MaxPages,
	}
	if catalog.endpoint == "" {
		catalog.endpoint = CatalogEndpoint
	}
	if catalog.maxAge <= 0 {
		catalog.maxAge = CacheMaxAge
	}
	if catalog.maxPages <= 0 {
		catalog.maxPages = DefaultMaxPages
	}
	return catalog, nil
}

func (catalog *CatalogClient) APIVersion() string {
	return catalog.apiVersion
}

// CachePath is the folder cached documents are written to.
func (catalog *CatalogClient) CachePath() string {
	return catalog.cachePath
}

// ListOffers returns every offer of the catalog, from the cache unless it is stale or refresh is set.
func (catalog *CatalogClient) ListOffers(ctx context.Context, refresh bool) ([]Offer, error) {
	var cached []Offer
	if catalog.fromCache(offersFileName, refresh, &cached) {
		return cached, nil
	}

	offers := []Offer{}
	request := catalog.request("/offers")
	for pages := 1; ; pages++ {
		page, err := restapi.Decode[offerPage](catalog.client.GETWithoutAuthentication(ctx, request))
		if err != nil {
			return nil, fmt.Errorf("marketplace.ListOffers: page %d: %w", pages, err)
		}
		offers = append(offers, page.Items...)

		if page.NextPageLink == "" {
			break
		}
		if pages >= catalog.maxPages {
			return nil, fmt.Errorf("marketplace.ListOffers: %w: %d", restapi.ErrTooManyPages, catalog.maxPages)
		}
		if request, err = catalog.nextPage(page.NextPageLink); err != nil {
			return nil, err
		}
	}

	catalog.Logger.Infof("Read %d offers from the %s.%s catalog", len(offers), catalog.locale, catalog.language)
	catalog.toCache(offersFileName, offers)
	return offers, nil
}

func (catalog *CatalogClient) GetOffer(ctx context.Context, offerId string, refresh bool) (*Offer, error) {
	if err := restapi.RequireString("offerId", offerId); err != nil {
		return nil, err
	}

	fileName := filepathparser.SafeFileName(strings.ToLower(offerId), ".json")
	var cached Offer
	if catalog.fromCache(fileName, refresh, &cached) {
		return &cached, nil
	}

	offer, err := restapi.Decode[Offer](catalog.client.GETWithoutAuthentication(ctx, catalog.request("/offers/"+url.PathEscape(offerId))))
	if err != nil {
		return nil, fmt.Errorf("marketplace.GetOffer: %s: %w", offerId, err)
	}
	catalog.toCache(fileName, offer)
	return &offer, nil
}

// FindPlan looks planId up within offerId, refreshing a cached offer once when the plan is missing from it.
func (catalog *CatalogClient) FindPlan(ctx context.Context, offerId string, planId string) (*Offer, *Plan, error) {
	if err := restapi.RequireString("planId", planId); err != nil {
		return nil, nil, err
	}

	for _, refresh := range []bool{false, true} {
		offer, err := catalog.GetOffer(ctx, offerId, refresh)
		if err != nil {
			return nil, nil, err
		}
		if plan, ok := offer.Plan(planId); ok {
			return offer, plan, nil
		}
	}
	return nil, nil, fmt.Errorf("marketplace.FindPlan: plan %s of offer %s: %w", planId, offerId, restapi.ErrNotFound)
}

func (catalog *CatalogClient) request(path string) restapi.Request {
	return restapi.Request{
		URL:        catalog.endpoint + path,
		APIVersion: catalog.apiVersion,
		Query: map[string]string{
			"market":   catalog.locale,
			"language": catalog.language,
		},
	}
}

func (catalog *CatalogClient) nextPage(link string) (restapi.Request, error) {
	next, err := url.Parse(link)
	if err != nil {
		return restapi.Request{}, fmt.Errorf("marketplace.nextPage: %w", err)
	}
	base, _ := url.Parse(catalog.endpoint)
	if next.IsAbs() && !strings.EqualFold(next.Host, base.Host) {
		return restapi.Request{}, fmt.Errorf("marketplace.nextPage: %w: %s", restapi.ErrForeignNextLink, next.Host)
	}
	return restapi.Request{URL: base.ResolveReference(next).String()}, nil
}

func (catalog *CatalogClient) fromCache(fileName string, refresh bool, value any) bool {
	if refresh || catalog.cache.IsStale(fileName, catalog.maxAge) {
		catalog.Logger.Debugf("Catalog cache %s is stale or bypassed", fileName)
		return false
	}

	err := catalog.cache.Import(fileName, value)
	if err == nil {
		catalog.Logger.Debugf("Catalog cache hit for %s", fileName)
		return true
	}
	if !errors.Is(err, json.ErrCacheMiss) {
		catalog.Logger.Warnf("Discarding unreadable catalog cache %s: %v", fileName, err)
		_ = catalog.cache.Remove(fileName)
	}
	return false
}

func (catalog *CatalogClient) toCache(fileName string, value any) {
	if err := catalog.cache.Export(value, fileName); err != nil {
		catalog.Logger.Warnf("Could not cache catalog document %s: %v", fileName, err)
	}
}
