package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edent/crossref-client/cmd/crossref/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "crossref",
	Short: "Crossref REST API CLI",
	Long: `A command-line interface for the Crossref REST API.

Look up bibliographic metadata for works (DOIs), members, funders, journals,
types, prefixes, and licenses. Set --mailto to join the polite pool.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.crossref/config.yml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringP("mailto", "m", "", "contact address sent with every request")
	rootCmd.PersistentFlags().String("user-agent", "", "extra User-Agent prefix")
	rootCmd.PersistentFlags().String("api-version", "", "API version segment prepended to request paths")
	rootCmd.PersistentFlags().String("cache", "", "response cache backend (memory, redis, nats, none)")
	rootCmd.PersistentFlags().Duration("cache-ttl", 0, "response cache TTL (default 20m)")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "redis address for --cache redis")
	rootCmd.PersistentFlags().String("nats-url", "nats://localhost:4222", "NATS URL for --cache nats")
	rootCmd.PersistentFlags().String("nats-bucket", "crossref-cache", "NATS KV bucket for --cache nats")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("mailto", rootCmd.PersistentFlags().Lookup("mailto"))
	_ = viper.BindPFlag("user_agent", rootCmd.PersistentFlags().Lookup("user-agent"))
	_ = viper.BindPFlag("api_version", rootCmd.PersistentFlags().Lookup("api-version"))
	_ = viper.BindPFlag("cache", rootCmd.PersistentFlags().Lookup("cache"))
	_ = viper.BindPFlag("cache_ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))
	_ = viper.BindPFlag("redis_addr", rootCmd.PersistentFlags().Lookup("redis-addr"))
	_ = viper.BindPFlag("nats_url", rootCmd.PersistentFlags().Lookup("nats-url"))
	_ = viper.BindPFlag("nats_bucket", rootCmd.PersistentFlags().Lookup("nats-bucket"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewWorksCommand())
	rootCmd.AddCommand(commands.NewMembersCommand())
	rootCmd.AddCommand(commands.NewFundersCommand())
	rootCmd.AddCommand(commands.NewJournalsCommand())
	rootCmd.AddCommand(commands.NewTypesCommand())
	rootCmd.AddCommand(commands.NewPrefixesCommand())
	rootCmd.AddCommand(commands.NewLicensesCommand())
	rootCmd.AddCommand(commands.NewGetCommand())
	rootCmd.AddCommand(commands.NewExistsCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(home + "/.crossref")
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("CROSSREF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
