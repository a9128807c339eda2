package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sujayvsarma/armclient/filepathparser"
	"github.com/sujayvsarma/armclient/marketplace"
)

type offerSummary struct {
	OfferId      string                    `json:"offerId"`
	DisplayName  string                    `json:"displayName"`
	Publisher    string                    `json:"publisher"`
	PricingTypes []marketplace.PricingType `json:"pricingTypes,omitempty"`
	Plans        int                       `json:"plans"`
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the Azure marketplace catalog",
	Long: `The catalog commands read the public marketplace catalog. Pages are cached under
<workingFolderPath>/_azureSdk/catalogApi/<market>.<language> for 15 days.`,
}

var catalogOffersCmd = &cobra.Command{
	Use:   "offers",
	Short: "List marketplace offers",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := newCatalogClient()
		if err != nil {
			return err
		}
		offers, err := catalog.ListOffers(cmd.Context(), viper.GetBool("refresh"))
		if err != nil {
			return err
		}

		summaries := make([]offerSummary, 0, len(offers))
		for _, offer := range offers {
			summaries = append(summaries, offerSummary{
				OfferId:      offer.OfferId,
				DisplayName:  offer.DisplayName,
				Publisher:    offer.PublisherDisplayName,
				PricingTypes: offer.PricingTypes,
				Plans:        len(offer.Plans),
			})
		}
		return printJSON(cmd.OutOrStdout(), summaries)
	},
}

var catalogPlanCmd = &cobra.Command{
	Use:   "plan <offerId> <planId>",
	Short: "Print the ARM purchase plan of an offer's plan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := newCatalogClient()
		if err != nil {
			return err
		}
		offer, plan, err := catalog.FindPlan(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), plan.PurchasePlan(*offer))
	},
}

func newCatalogClient() (*marketplace.CatalogClient, error) {
	workingFolderPath, err := filepathparser.ParsePath(viper.GetString("workingFolderPath"))
	if err != nil {
		return nil, err
	}
	armSession, err := newSession()
	if err != nil {
		return nil, err
	}
	return marketplace.NewCatalogClient(armSession.Client, marketplace.CatalogOptions{
		BaseDir:  workingFolderPath,
		Locale:   viper.GetString("market"),
		Language: viper.GetString("language"),
	}, log)
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogOffersCmd)
	catalogCmd.AddCommand(catalogPlanCmd)

	catalogCmd.PersistentFlags().String("market", "US", "Marketplace market (country code)")
	viper.BindPFlag("market", catalogCmd.PersistentFlags().Lookup("market"))
	catalogCmd.PersistentFlags().String("language", "en", "Language of the catalog texts")
	viper.BindPFlag("language", catalogCmd.PersistentFlags().Lookup("language"))
	catalogOffersCmd.Flags().Bool("refresh", false, "Ignore the cache and download the catalog again")
	viper.BindPFlag("refresh", catalogOffersCmd.Flags().Lookup("refresh"))
}
