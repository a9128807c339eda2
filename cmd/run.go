/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sujayvsarma/armclient/azure"
	"github.com/sujayvsarma/armclient/filepathparser"
	"github.com/sujayvsarma/armclient/graph"
	"github.com/sujayvsarma/armclient/hcl"
	"github.com/sujayvsarma/armclient/resources"
	"github.com/sujayvsarma/armclient/types"
)

const defaultResourceGraphQuery = "resources | project id, name, type, location, tags"

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:     "run",
	Aliases: []string{"imports"},
	Short:   "Discover Azure resources and generate Terraform import blocks",
	Long: `The run command performs the adoption workflow:

1. Queries Azure Resource Graph (queries come from the config file, or --query),
   or with --source arm walks every resource group of the subscriptions instead
2. Drops resources matching --ignoreResourceIDPatterns and duplicate ids
3. Writes an import block per resource into imports.tf
4. (Optional) With --writeResourceBlocks, writes matching azapi_resource blocks into
   resources.tf, declaring the newest stable API version of each resource type

Examples:
  # Import every resource of a subscription
  armclient run -s 5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c --terraformModulePath ./my-module

  # Use queries from the config file and write resource blocks too
  armclient run --config ./config.yaml --terraformModulePath ./my-module --writeResourceBlocks`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		terraformModulePath, err := filepathparser.ParsePath(viper.GetString("terraformModulePath"))
		if err != nil {
			log.Fatalf("Error getting terraform module path: %v", err)
		}

		armSession, err := newSession()
		if err != nil {
			log.Fatalf("Error creating ARM session: %v", err)
		}

		adopted, err := discoverResources(ctx, armSession)
		if err != nil {
			log.Fatalf("Error discovering resources: %v", err)
		}
		if len(adopted) == 0 {
			log.Warn("No resources found, nothing to import")
			return
		}

		hclClient := hcl.NewHclClient(terraformModulePath, log)
		importsFile := viper.GetString("importsFileName")
		resourcesFile := viper.GetString("resourcesFileName")
		if err := hclClient.CleanFiles([]string{importsFile, resourcesFile}); err != nil {
			log.Fatalf("Error cleaning previous output: %v", err)
		}

		if _, err := hclClient.WriteImportBlocks(adopted, importsFile); err != nil {
			log.Fatalf("Error writing import blocks: %v", err)
		}

		if viper.GetBool("writeResourceBlocks") {
			subscriptions, err := subscriptionIDs()
			if err != nil || len(subscriptions) == 0 {
				log.Fatalf("Resolving API versions needs at least one subscription ID")
			}
			resolver := newAPIVersionResolver(ctx, resources.NewProviderClient(armSession.Client, log), subscriptions[0])
			if _, err := hclClient.WriteResourceBlocks(adopted, resolver.Resolve, resourcesFile); err != nil {
				log.Fatalf("Error writing resource blocks: %v", err)
			}
		}

		log.Infof("Wrote import blocks for %d resources", len(adopted))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.PersistentFlags().StringP("terraformModulePath", "t", ".", "Terraform module path to use")
	viper.BindPFlag("terraformModulePath", runCmd.PersistentFlags().Lookup("terraformModulePath"))
	runCmd.PersistentFlags().String("source", sourceResourceGraph, "Where resources are discovered: graph (Resource Graph) or arm (resource group listing)")
	viper.BindPFlag("source", runCmd.PersistentFlags().Lookup("source"))
	runCmd.PersistentFlags().StringSliceP("managementGroupIDs", "m", nil, "Management group IDs to query")
	viper.BindPFlag("managementGroupIDs", runCmd.PersistentFlags().Lookup("managementGroupIDs"))
	runCmd.PersistentFlags().StringSliceP("ignoreResourceIDPatterns", "i", nil, "Regular expressions of resource IDs to skip")
	viper.BindPFlag("ignoreResourceIDPatterns", runCmd.PersistentFlags().Lookup("ignoreResourceIDPatterns"))
	runCmd.PersistentFlags().StringP("query", "q", "", "Resource graph query to run instead of the configured queries")
	viper.BindPFlag("query", runCmd.PersistentFlags().Lookup("query"))
	runCmd.PersistentFlags().BoolP("writeResourceBlocks", "r", false, "Also write azapi_resource blocks for the imported resources")
	viper.BindPFlag("writeResourceBlocks", runCmd.PersistentFlags().Lookup("writeResourceBlocks"))
	runCmd.PersistentFlags().String("importsFileName", "imports.tf", "File name of the import blocks")
	viper.BindPFlag("importsFileName", runCmd.PersistentFlags().Lookup("importsFileName"))
	runCmd.PersistentFlags().String("resourcesFileName", "resources.tf", "File name of the resource blocks")
	viper.BindPFlag("resourcesFileName", runCmd.PersistentFlags().Lookup("resourcesFileName"))

	// graph shares the discovery flags of run
	graphCmd.Flags().AddFlagSet(runCmd.PersistentFlags())
}

const (
	sourceResourceGraph  = "graph"
	sourceResourceGroups = "arm"
)

func discoverResources(ctx context.Context, armSession *session) ([]types.AzureObjectBase, error) {
	switch source := viper.GetString("source"); source {
	case sourceResourceGraph:
		resourceGraphQueries, err := loadResourceGraphQueries()
		if err != nil {
			return nil, fmt.Errorf("reading resource graph queries: %w", err)
		}
		resourceGraphClient, err := azure.NewResourceGraphClient(
			armSession.Credential,
			armSession.armOptions(),
			viper.GetStringSlice("managementGroupIDs"),
			viper.GetStringSlice("subscriptionIDs"),
			viper.GetStringSlice("ignoreResourceIDPatterns"),
			resourceGraphQueries,
			log,
		)
		if err != nil {
			return nil, err
		}
		return resourceGraphClient.GetResources(ctx)
	case sourceResourceGroups:
		subscriptions, err := subscriptionIDs()
		if err != nil {
			return nil, err
		}
		if len(subscriptions) == 0 {
			return nil, fmt.Errorf("--source %s needs at least one subscription ID", sourceResourceGroups)
		}
		inventory, err := graph.NewGraph(
			resources.NewResourceGroupClient(armSession.Client, log),
			subscriptions,
			viper.GetStringSlice("ignoreResourceIDPatterns"),
			resources.DefaultParallelism,
			log,
		)
		if err != nil {
			return nil, err
		}
		return inventory.GetResources(ctx)
	default:
		return nil, fmt.Errorf("unknown resource source %q", source)
	}
}

// loadResourceGraphQueries reads resourceGraphQueries from the config file. --query wins over the config,
// and without either a single query lists every resource of the selected scope.
func loadResourceGraphQueries() ([]types.ResourceGraphQuery, error) {
	scope := types.ResourceGraphQueryScopeSubscription
	if len(viper.GetStringSlice("subscriptionIDs")) == 0 {
		scope = types.ResourceGraphQueryScopeManagementGroup
	}

	if query := viper.GetString("query"); query != "" {
		return []types.ResourceGraphQuery{{Name: "adhoc", Scope: scope, Query: query}}, nil
	}

	resourceGraphQueries := []types.ResourceGraphQuery{}
	if viper.IsSet("resourceGraphQueries") {
		if err := viper.UnmarshalKey("resourceGraphQueries", &resourceGraphQueries); err != nil {
			return nil, err
		}
	}
	if len(resourceGraphQueries) == 0 {
		resourceGraphQueries = append(resourceGraphQueries, types.ResourceGraphQuery{Name: "all", Scope: scope, Query: defaultResourceGraphQuery})
	}
	return resourceGraphQueries, nil
}

// apiVersionResolver looks up the newest stable API version of a resource type once per provider namespace.
type apiVersionResolver struct {
	ctx          context.Context
	providers    resources.IProviderClient
	subscription uuid.UUID

	mu    sync.Mutex
	cache map[string]*resources.Provider
}

func newAPIVersionResolver(ctx context.Context, providers resources.IProviderClient, subscription uuid.UUID) *apiVersionResolver {
	return &apiVersionResolver{
		ctx:          ctx,
		providers:    providers,
		subscription: subscription,
		cache:        map[string]*resources.Provider{},
	}
}

func (resolver *apiVersionResolver) Resolve(resourceType string) (string, error) {
	namespace, typeName, found := strings.Cut(resourceType, "/")
	if !found || typeName == "" {
		return "", fmt.Errorf("resource type %q has no provider namespace", resourceType)
	}

	resolver.mu.Lock()
	defer resolver.mu.Unlock()

	key := strings.ToLower(namespace)
	provider, ok := resolver.cache[key]
	if !ok {
		var err error
		provider, err = resolver.providers.Get(resolver.ctx, resolver.subscription, namespace)
		if err != nil {
			return "", err
		}
		resolver.cache[key] = provider
	}

	version, ok := provider.LatestApiVersion(typeName, false)
	if !ok {
		version, ok = provider.LatestApiVersion(typeName, true)
	}
	if !ok {
		return "", fmt.Errorf("provider %s publishes no API version for %s", namespace, typeName)
	}
	return version, nil
}
