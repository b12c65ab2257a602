package walletloader

import (
	"fmt"
	"os"
	"strings"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Predefined wallet definitions, in the order the wallet modal lists them.
var builtinWallets = []entity.WalletDefinition{ //nolint:gochecknoglobals
	{
		Identifier: "metamask",
		Name:       "MetaMask",
		IconURL:    "https://upload.wikimedia.org/wikipedia/commons/3/36/MetaMask_Fox.svg",
		Connector:  entity.ConnectorInjected,
		InstallURL: "https://metamask.io/download/",
	},
	{
		Identifier: "walletconnect",
		Name:       "WalletConnect",
		IconURL:    "https://walletconnect.com/walletconnect-logo.svg",
		Connector:  entity.ConnectorWalletConnect,
	},
	{
		Identifier: "coinbase",
		Name:       "Coinbase Wallet",
		IconURL:    "https://www.coinbase.com/img/favicon.ico",
		Connector:  entity.ConnectorCoinbase,
	},
	{
		Identifier: "trust",
		Name:       "Trust Wallet",
		IconURL:    "https://trustwallet.com/assets/images/favicon.ico",
		Connector:  entity.ConnectorInjected,
		InstallURL: "https://trustwallet.com/",
	},
	{
		Identifier: "phantom",
		Name:       "Phantom",
		IconURL:    "https://phantom.app/img/phantom-logo.png",
		Connector:  entity.ConnectorPhantom,
		InstallURL: "https://phantom.app/",
	},
	{
		Identifier: "binance",
		Name:       "Binance Wallet",
		IconURL:    "https://www.binance.com/favicon.ico",
		Connector:  entity.ConnectorBinance,
		InstallURL: "https://www.binance.org/en",
	},
}

// walletOverride is one entry of the optional wallets file. Empty fields keep the built-in value.
type walletOverride struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	IconURL    string `json:"icon"`
	InstallURL string `json:"installUrl"`
}

// WalletDefinitionLoader implements port.WalletDefinitionProvider.
type WalletDefinitionLoader struct {
	logger  port.Logger
	byID    map[string]entity.WalletDefinition
	ordered []string
}

// NewWalletDefinitionLoader builds the wallet registry from the built-in definitions and,
// when filePath is set, applies the display overrides found in that JSON file.
// Overrides for unknown wallets are skipped; connector kinds cannot be changed.
func NewWalletDefinitionLoader(log port.Logger, filePath string) (*WalletDefinitionLoader, error) {
	l := &WalletDefinitionLoader{
		logger:  log,
		byID:    make(map[string]entity.WalletDefinition, len(builtinWallets)),
		ordered: make([]string, 0, len(builtinWallets)),
	}
	for _, def := range builtinWallets {
		l.byID[def.Identifier] = def
		l.ordered = append(l.ordered, def.Identifier)
	}

	if filePath == "" {
		return l, nil
	}
	if err := l.applyOverrides(filePath); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *WalletDefinitionLoader) applyOverrides(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read wallet file %s: %w", filePath, err)
	}

	var overrides []walletOverride
	if err := json.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to unmarshal wallet file %s: %w", filePath, err)
	}

	applied := 0
	for _, o := range overrides {
		id := strings.ToLower(strings.TrimSpace(o.Identifier))
		def, ok := l.byID[id]
		if !ok {
			l.logger.Warn("Skipping override for unknown wallet", "file", filePath, "identifier", o.Identifier)
			continue
		}
		if o.Name != "" {
			def.Name = o.Name
		}
		if o.IconURL != "" {
			def.IconURL = o.IconURL
		}
		if o.InstallURL != "" {
			def.InstallURL = o.InstallURL
		}
		l.byID[id] = def
		applied++
	}

	l.logger.Info("Wallet overrides loaded successfully from file", "count", applied, "path", filePath)
	return nil
}

// GetAllWalletDefinitions returns the registered wallets in modal order.
func (l *WalletDefinitionLoader) GetAllWalletDefinitions() []entity.WalletDefinition {
	defs := make([]entity.WalletDefinition, 0, len(l.ordered))
	for _, id := range l.ordered {
		defs = append(defs, l.byID[id])
	}
	return defs
}

// GetWalletDefinition returns the wallet registered under identifier.
func (l *WalletDefinitionLoader) GetWalletDefinition(identifier string) (entity.WalletDefinition, bool) {
	def, ok := l.byID[identifier]
	return def, ok
}
