/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log = logrus.New()

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "armclient",
	Short: "Work with Azure Resource Manager from the command line",
	Long: `armclient talks to the Azure Resource Manager REST API.

It parses and compares resource ids, lists subscriptions and resource groups,
queries Azure Resource Graph, writes Terraform import blocks for what it finds,
exports the RateCard price list to CSV and browses the marketplace catalog.

Authentication uses --token when given and the Azure default credential chain
(environment, managed identity, Azure CLI) otherwise.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logVerbosity := viper.GetString("verbosity")
		logLevel, err := logrus.ParseLevel(logVerbosity)
		if err != nil {
			log.Fatalf("Invalid log level: %s", logVerbosity)
		}
		log.SetLevel(logLevel)
		log.SetOutput(os.Stderr)
		log.SetFormatter(&logrus.TextFormatter{})
		if viper.GetBool("structuredLogs") {
			log.SetFormatter(&logrus.JSONFormatter{})
		}

		for key, value := range viper.GetViper().AllSettings() {
			if key == "token" {
				continue
			}
			log.Debugf("Command Flag: %s = %v", key, value)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if code := executeWithSignals(); code != 0 {
		os.Exit(code)
	}
}

// executeWithSignals returns the exit code after the interrupt handler is released.
func executeWithSignals() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./armclient.yaml)")
	rootCmd.PersistentFlags().StringP("verbosity", "v", "info", "Log level (trace, debug, info, warn, error)")
	viper.BindPFlag("verbosity", rootCmd.PersistentFlags().Lookup("verbosity"))
	rootCmd.PersistentFlags().Bool("structuredLogs", false, "Write logs as JSON")
	viper.BindPFlag("structuredLogs", rootCmd.PersistentFlags().Lookup("structuredLogs"))
	rootCmd.PersistentFlags().String("cloud", "AzurePublic", "Azure cloud (AzurePublic, AzureUSGovernment, AzureChina)")
	viper.BindPFlag("cloud", rootCmd.PersistentFlags().Lookup("cloud"))
	rootCmd.PersistentFlags().String("endpoint", "", "Resource Manager endpoint, overriding the cloud default")
	viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	rootCmd.PersistentFlags().String("token", "", "Bearer token to use instead of the default credential chain")
	viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	rootCmd.PersistentFlags().Duration("timeout", 0, "Timeout of each request attempt")
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	rootCmd.PersistentFlags().Int("maxAttempts", 4, "Attempts per request for transient network errors")
	viper.BindPFlag("maxAttempts", rootCmd.PersistentFlags().Lookup("maxAttempts"))
	rootCmd.PersistentFlags().String("metricsAddress", "", "Serve Prometheus request metrics on this address, e.g. :9090")
	viper.BindPFlag("metricsAddress", rootCmd.PersistentFlags().Lookup("metricsAddress"))
	rootCmd.PersistentFlags().StringP("workingFolderPath", "w", ".", "Folder for exported files and caches")
	viper.BindPFlag("workingFolderPath", rootCmd.PersistentFlags().Lookup("workingFolderPath"))
	rootCmd.PersistentFlags().StringSliceP("subscriptionIDs", "s", nil, "Subscription IDs to work on")
	viper.BindPFlag("subscriptionIDs", rootCmd.PersistentFlags().Lookup("subscriptionIDs"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("armclient")
	}

	viper.SetEnvPrefix("ARMCLIENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		log.Fatalf("Error reading config file %s: %v", cfgFile, err)
	}
}
