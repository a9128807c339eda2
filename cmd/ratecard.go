package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sujayvsarma/armclient/billing"
	"github.com/sujayvsarma/armclient/csv"
	"github.com/sujayvsarma/armclient/filepathparser"
)

var rateCardCmd = &cobra.Command{
	Use:   "ratecard",
	Short: "Download the RateCard price list of an offer and export it to CSV",
	Example: `  armclient ratecard -s 5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c --offer MS-AZR-0003P --currency USD --locale en-US --region US`,
	Run: func(cmd *cobra.Command, args []string) {
		workingFolderPath, err := filepathparser.ParsePath(viper.GetString("workingFolderPath"))
		if err != nil {
			log.Fatalf("Error getting working folder path: %v", err)
		}
		subscription, err := singleSubscription()
		if err != nil {
			log.Fatalf("Error reading subscription: %v", err)
		}
		armSession, err := newSession()
		if err != nil {
			log.Fatalf("Error creating ARM session: %v", err)
		}

		rateCard, err := billing.NewRateCardClient(armSession.Client, log).GetRateCard(cmd.Context(), subscription, billing.RateCardQuery{
			OfferDurableId: viper.GetString("offer"),
			Currency:       viper.GetString("currency"),
			Locale:         viper.GetString("locale"),
			RegionInfo:     viper.GetString("region"),
		})
		if err != nil {
			log.Fatalf("Error getting rate card: %v", err)
		}

		path, err := csv.NewMeterCsvClient(workingFolderPath, log).Export(rateCard, viper.GetString("rateCardCsv"))
		if err != nil {
			log.Fatalf("Error exporting rate card: %v", err)
		}
		log.Infof("Exported %d meters to %s", len(rateCard.Meters), path)
	},
}

func init() {
	rootCmd.AddCommand(rateCardCmd)

	rateCardCmd.Flags().String("offer", "MS-AZR-0003P", "Offer durable id, e.g. MS-AZR-0003P for pay as you go")
	viper.BindPFlag("offer", rateCardCmd.Flags().Lookup("offer"))
	rateCardCmd.Flags().String("currency", "USD", "Currency of the rates")
	viper.BindPFlag("currency", rateCardCmd.Flags().Lookup("currency"))
	rateCardCmd.Flags().String("locale", "en-US", "Locale of the meter names")
	viper.BindPFlag("locale", rateCardCmd.Flags().Lookup("locale"))
	rateCardCmd.Flags().String("region", "US", "Region (ISO country code) the offer was purchased in")
	viper.BindPFlag("region", rateCardCmd.Flags().Lookup("region"))
	rateCardCmd.Flags().String("rateCardCsv", "ratecard.csv", "File name of the exported CSV")
	viper.BindPFlag("rateCardCsv", rateCardCmd.Flags().Lookup("rateCardCsv"))
}
