package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/sujayvsarma/armclient/restapi"
)

// session holds what every ARM command needs: the REST client and the credential behind it.
type session struct {
	Client     *restapi.Client
	Credential azcore.TokenCredential
	Cloud      cloud.Configuration
}

func newSession() (*session, error) {
	cloudConfiguration, err := restapi.CloudFromName(viper.GetString("cloud"))
	if err != nil {
		return nil, err
	}
	endpoint := viper.GetString("endpoint")
	if endpoint == "" {
		endpoint = restapi.EndpointForCloud(cloudConfiguration)
	}

	var credential azcore.TokenCredential
	var tokens restapi.TokenSource
	if token := viper.GetString("token"); token != "" {
		log.Debug("Using the bearer token given on the command line")
		credential = staticCredential(token)
		tokens = restapi.StaticToken(token)
	} else {
		defaultCredential, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
			ClientOptions: azcore.ClientOptions{Cloud: cloudConfiguration},
		})
		if err != nil {
			return nil, fmt.Errorf("creating default Azure credential: %w", err)
		}
		credential = defaultCredential
		tokens = restapi.NewCredentialToken(defaultCredential, restapi.DefaultScope(endpoint))
	}

	retry := restapi.DefaultRetryPolicy()
	if maxAttempts := viper.GetInt("maxAttempts"); maxAttempts > 0 {
		retry.MaxAttempts = maxAttempts
	}

	metrics, err := serveMetrics(viper.GetString("metricsAddress"))
	if err != nil {
		return nil, err
	}

	client := restapi.NewClient(tokens, &restapi.ClientOptions{
		Cloud:    cloudConfiguration,
		Endpoint: endpoint,
		Timeout:  viper.GetDuration("timeout"),
		Retry:    &retry,
		Metrics:  metrics,
	}, log)

	return &session{Client: client, Credential: credential, Cloud: cloudConfiguration}, nil
}

// armOptions configures azure-sdk-for-go clients for the selected cloud.
func (s *session) armOptions() *arm.ClientOptions {
	return &arm.ClientOptions{ClientOptions: policy.ClientOptions{Cloud: s.Cloud}}
}

func serveMetrics(address string) (*restapi.Metrics, error) {
	if address == "" {
		return nil, nil
	}

	registry := prometheus.NewRegistry()
	metrics, err := restapi.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		log.Infof("Serving metrics on %s/metrics", address)
		if err := http.ListenAndServe(address, mux); err != nil {
			log.Errorf("Metrics server stopped: %v", err)
		}
	}()
	return metrics, nil
}

type staticCredential string

func (token staticCredential) GetToken(context.Context, policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: string(token), ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func subscriptionIDs() ([]uuid.UUID, error) {
	values := viper.GetStringSlice("subscriptionIDs")
	subscriptions := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		subscription, err := uuid.Parse(value)
		if err != nil || subscription == uuid.Nil {
			return nil, fmt.Errorf("invalid subscription ID %q", value)
		}
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions, nil
}

// singleSubscription returns the only subscription given with --subscriptionIDs.
func singleSubscription() (uuid.UUID, error) {
	subscriptions, err := subscriptionIDs()
	if err != nil {
		return uuid.Nil, err
	}
	if len(subscriptions) != 1 {
		return uuid.Nil, fmt.Errorf("exactly one subscription ID is required, got %d", len(subscriptions))
	}
	return subscriptions[0], nil
}

func printJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
