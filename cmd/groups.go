package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sujayvsarma/armclient/resources"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List, show and delete resource groups",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the resource groups of every subscription given with --subscriptionIDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		subscriptions, err := subscriptionIDs()
		if err != nil {
			return err
		}
		if len(subscriptions) == 0 {
			return fmt.Errorf("at least one subscription ID is required")
		}
		armSession, err := newSession()
		if err != nil {
			return err
		}

		groups := resources.NewResourceGroupClient(armSession.Client, log)
		bySubscription, err := resources.ListResourceGroupsForSubscriptions(cmd.Context(), groups, subscriptions, viper.GetInt("parallelism"))
		if err != nil {
			return err
		}

		output := make(map[string][]resources.ResourceGroup, len(bySubscription))
		for subscription, values := range bySubscription {
			output[subscription.String()] = values
		}
		return printJSON(cmd.OutOrStdout(), output)
	},
}

var groupsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show a resource group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subscription, err := singleSubscription()
		if err != nil {
			return err
		}
		armSession, err := newSession()
		if err != nil {
			return err
		}

		group, err := resources.NewResourceGroupClient(armSession.Client, log).Get(cmd.Context(), subscription, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), group)
	},
}

var groupsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a resource group and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subscription, err := singleSubscription()
		if err != nil {
			return err
		}
		armSession, err := newSession()
		if err != nil {
			return err
		}

		existed, err := resources.NewResourceGroupClient(armSession.Client, log).Delete(cmd.Context(), subscription, args[0])
		if err != nil {
			return err
		}
		if !existed {
			log.Warnf("Resource group %s does not exist in %s", args[0], subscription)
			return nil
		}
		log.Infof("Deletion of resource group %s accepted", args[0])
		return nil
	},
}

var subscriptionsCmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "List the subscriptions the caller can see",
	RunE: func(cmd *cobra.Command, args []string) error {
		armSession, err := newSession()
		if err != nil {
			return err
		}
		subscriptions, err := resources.NewSubscriptionClient(armSession.Client, log).List(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), subscriptions)
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(subscriptionsCmd)
	groupsCmd.AddCommand(groupsListCmd)
	groupsCmd.AddCommand(groupsGetCmd)
	groupsCmd.AddCommand(groupsDeleteCmd)

	groupsListCmd.Flags().IntP("parallelism", "p", resources.DefaultParallelism, "Subscriptions listed at the same time")
	viper.BindPFlag("parallelism", groupsListCmd.Flags().Lookup("parallelism"))
}
