package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sujayvsarma/armclient/resourceuri"
)

var compareLevelNames = map[string]resourceuri.CompareLevel{
	"subscription":  resourceuri.CompareLevelSubscription,
	"resourcegroup": resourceuri.CompareLevelResourceGroup,
	"provider":      resourceuri.CompareLevelProvider,
	"type":          resourceuri.CompareLevelType,
	"name":          resourceuri.CompareLevelResourceName,
	"all":           resourceuri.CompareLevelAll,
	"none":          resourceuri.CompareLevelNone,
}

var resourceIdCmd = &cobra.Command{
	Use:   "resourceid",
	Short: "Parse and compare ARM resource ids",
}

var resourceIdParseCmd = &cobra.Command{
	Use:   "parse <resourceId>",
	Short: "Print the components of a resource id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uri, err := resourceuri.Parse(args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]string{
			"subscription":  uri.Subscription.String(),
			"resourceGroup": uri.ResourceGroupName,
			"provider":      uri.ProviderName,
			"type":          uri.Type,
			"fullType":      uri.FullType(),
			"name":          uri.ResourceName,
			"id":            uri.String(),
		})
	},
}

var resourceIdCompareCmd = &cobra.Command{
	Use:   "compare <resourceId> <resourceId>",
	Short: "Report whether two resource ids match at the selected levels",
	Example: `  armclient resourceid compare --levels subscription,resourceGroup \
    /subscriptions/.../resourceGroups/rg1/providers/Microsoft.Web/sites/a \
    /subscriptions/.../resourceGroups/RG1/providers/Microsoft.Web/sites/b`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		levels, err := parseCompareLevels(viper.GetStringSlice("levels"))
		if err != nil {
			return err
		}
		left, err := resourceuri.Parse(args[0])
		if err != nil {
			return err
		}
		right, err := resourceuri.Parse(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), left.Compare(right, levels))
		return nil
	},
}

func parseCompareLevels(names []string) (resourceuri.CompareLevel, error) {
	if len(names) == 0 {
		return resourceuri.CompareLevelAll, nil
	}
	levels := resourceuri.CompareLevelNone
	for _, name := range names {
		level, ok := compareLevelNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return resourceuri.CompareLevelNone, fmt.Errorf("unknown compare level %q", name)
		}
		levels |= level
	}
	return levels, nil
}

func init() {
	rootCmd.AddCommand(resourceIdCmd)
	resourceIdCmd.AddCommand(resourceIdParseCmd)
	resourceIdCmd.AddCommand(resourceIdCompareCmd)

	resourceIdCompareCmd.Flags().StringSliceP("levels", "l", []string{"all"}, "Components to compare (subscription, resourceGroup, provider, type, name, all)")
	viper.BindPFlag("levels", resourceIdCompareCmd.Flags().Lookup("levels"))
}
