package main

import (
	"errors"
	"fmt"
	"io/fs"
	"text/tabwriter"

	"multichain_swap/internal/infrastructure/configloader"
	networkdefinition "multichain_swap/internal/infrastructure/network/definition"
	"multichain_swap/internal/infrastructure/walletloader"
	"multichain_swap/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// loadConfigOrDefaults lets the listing commands run without a config file.
func loadConfigOrDefaults() (*configloader.Config, error) {
	cfg, err := configloader.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return configloader.Parse([]byte("{}"))
	}
	return cfg, err
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List the networks in selector order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfigOrDefaults()
		if err != nil {
			return err
		}
		networks := networkdefinition.NewNetworkDefinitionProvider(logger.NewNopLogger(), cfg.Networks.Default, cfg.Networks.RPCOverrides)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCHAIN\tCURRENCY\tRPC\t")
		for _, def := range networks.GetAllNetworkDefinitions() {
			marker := ""
			if def.Identifier == networks.DefaultIdentifier() {
				marker = " (default)"
			}
			fmt.Fprintf(w, "%s%s\t%s\t%d\t%s\t%s\t\n", def.Identifier, marker, def.Name, def.ChainID, def.NativeCurrency.Symbol, def.RPCURL)
		}
		return w.Flush()
	},
}

var walletsCmd = &cobra.Command{
	Use:   "wallets",
	Short: "List the wallets shown in the wallet modal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfigOrDefaults()
		if err != nil {
			return err
		}
		wallets, err := walletloader.NewWalletDefinitionLoader(logger.NewNopLogger(), cfg.WalletsFile)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCONNECTOR\tBRIDGE\tINSTALL\t")
		for _, def := range wallets.GetAllWalletDefinitions() {
			bridge := "not configured"
			switch {
			case def.Connector.IsStub():
				bridge = "not implemented"
			case cfg.Providers[string(def.Connector)].URL != "":
				bridge = cfg.Providers[string(def.Connector)].URL
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", def.Identifier, def.Name, def.Connector, bridge, def.InstallURL)
		}
		return w.Flush()
	},
}
