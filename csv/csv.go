package csv

import (
	csvwriter "encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/billing"
	"github.com/sujayvsarma/armclient/restapi"
)

type IMeterCsvClient interface {
	Export(rateCard *billing.RateCard, fileName string) (string, error)
}

type MeterCsvClient struct {
	WorkingFolderPath string
	MeterCsv          *MeterCsv
	Logger            *logrus.Logger
}

type MeterCsv struct {
	Header []string
	Rows   []*MeterCsvRow
}

func NewMeterCsvClient(workingFolderPath string, logger *logrus.Logger) *MeterCsvClient {
	return &MeterCsvClient{
		WorkingFolderPath: workingFolderPath,
		MeterCsv:          &MeterCsv{Header: []string{"Meter ID", "Meter Category", "Meter Sub Category", "Meter Name", "Meter Region", "Unit", "Tier Minimum", "Rate", "Currency", "Included Quantity"}},
		Logger:            restapi.LoggerOrDiscard(logger),
	}
}

func (csv *MeterCsv) AddRow(row *MeterCsvRow) {
	csv.Rows = append(csv.Rows, row)
}

type MeterCsvRow struct {
	MeterID          string
	MeterCategory    string
	MeterSubCategory string
	MeterName        string
	MeterRegion      string
	Unit             string
	TierMinimum      float64
	Rate             float64
	Currency         string
	IncludedQuantity float64
}

// Export writes one row per meter rate tier to fileName and returns the file path.
func (csvClient *MeterCsvClient) Export(rateCard *billing.RateCard, fileName string) (string, error) {
	if rateCard == nil {
		return "", fmt.Errorf("csv.Export: no rate card")
	}

	csvClient.MeterCsv.Rows = nil
	for _, meter := range rateCard.Meters {
		for _, tier := range meter.Tiers() {
			csvClient.MeterCsv.AddRow(&MeterCsvRow{
				MeterID:          meter.MeterId,
				MeterCategory:    meter.MeterCategory,
				MeterSubCategory: meter.MeterSubCategory,
				MeterName:        meter.MeterName,
				MeterRegion:      meter.MeterRegion,
				Unit:             meter.Unit,
				TierMinimum:      tier.MinimumQuantity,
				Rate:             tier.Rate,
				Currency:         rateCard.Currency,
				IncludedQuantity: meter.IncludedQuantity,
			})
		}
	}

	sort.Sort(ByCategoryNameRegionAndTier(csvClient.MeterCsv.Rows))

	return csvClient.writeCsv(fileName)
}

func (csvClient *MeterCsvClient) writeCsv(fileName string) (string, error) {
	csvData := [][]string{csvClient.MeterCsv.Header}
	for _, meter := range csvClient.MeterCsv.Rows {
		csvData = append(csvData, []string{
			meter.MeterID,
			meter.MeterCategory,
			meter.MeterSubCategory,
			meter.MeterName,
			meter.MeterRegion,
			meter.Unit,
			formatNumber(meter.TierMinimum),
			formatNumber(meter.Rate),
			meter.Currency,
			formatNumber(meter.IncludedQuantity),
		})
	}

	csvFilePath := filepath.Join(csvClient.WorkingFolderPath, fileName)
	csvFile, err := os.Create(csvFilePath)
	if err != nil {
		return "", fmt.Errorf("csv.Export: %w", err)
	}
	defer csvFile.Close()

	csvWriter := csvwriter.NewWriter(csvFile)
	if err := csvWriter.WriteAll(csvData); err != nil {
		return "", fmt.Errorf("csv.Export: writing %s: %w", csvFilePath, err)
	}
	csvClient.Logger.Infof("%d meter rates written to %s", len(csvClient.MeterCsv.Rows), csvFilePath)
	return csvFilePath, nil
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

type ByCategoryNameRegionAndTier []*MeterCsvRow

func (o ByCategoryNameRegionAndTier) Len() int      { return len(o) }
func (o ByCategoryNameRegionAndTier) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o ByCategoryNameRegionAndTier) Less(i, j int) bool {
	if o[i].MeterCategory != o[j].MeterCategory {
		return o[i].MeterCategory < o[j].MeterCategory
	}

	if o[i].MeterSubCategory != o[j].MeterSubCategory {
		return o[i].MeterSubCategory < o[j].MeterSubCategory
	}

	if !strings.EqualFold(o[i].MeterName, o[j].MeterName) {
		return strings.ToLower(o[i].MeterName) < strings.ToLower(o[j].MeterName)
	}

	if o[i].MeterRegion != o[j].MeterRegion {
		return o[i].MeterRegion < o[j].MeterRegion
	}

	return o[i].TierMinimum < o[j].TierMinimum
}
