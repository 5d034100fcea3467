package main

import (
	"os"
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyAPIURL         = "api_url"
	keyValkeyAddr     = "valkey_address"
	keyValkeyPort     = "valkey_port"
	defaultAPIURL     = "http://localhost:3000"
	defaultValkeyPort = 6379
)

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "gamesctl",
		Short:         "Manage the video game catalog from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("api-url", defaultAPIURL, "catalog API base URL")
	flags.String("valkey-address", "", "valkey host for watching change events")
	flags.Int("valkey-port", defaultValkeyPort, "valkey port for watching change events")

	_ = v.BindPFlag(keyAPIURL, flags.Lookup("api-url"))
	_ = v.BindPFlag(keyValkeyAddr, flags.Lookup("valkey-address"))
	_ = v.BindPFlag(keyValkeyPort, flags.Lookup("valkey-port"))

	v.SetEnvPrefix("GAMESCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newListCmd(v),
		newGetCmd(v),
		newCreateCmd(v),
		newUpdateCmd(v),
		newDeleteCmd(v),
		newWatchCmd(v),
	)

	return root
}

func main() {
	log := logger.New("gamesctl").Function("main")

	if err := newRootCmd(viper.New()).Execute(); err != nil {
		log.Er("command failed", err)
		os.Exit(1)
	}
}
