package tokenloader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// builtinTokens is the selector catalog. ETH addresses point at the wrapped
// token used for pricing on chains where ETH is not native.
var builtinTokens = []entity.TokenInfo{ //nolint:gochecknoglobals
	{
		Symbol:   "ETH",
		Name:     "Ethereum",
		IconURL:  "https://cryptologos.cc/logos/ethereum-eth-logo.png",
		Decimals: 18,
		Addresses: map[uint64]string{
			1:     "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
			10:    "0x4200000000000000000000000000000000000006",
			137:   "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619",
			42161: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1",
			250:   "0x74b23882a30290451A17c44f4F05243b6b58C76d",
			43114: "0x49D5c2BdFfac6CE2BFdB6640F4F80f226bc10bAB",
			100:   "0x6A023CCd1ff6F2045C3309768eAd9E68F978f6e1",
			56:    "0x2170Ed0880ac9A755fd29B2688956BD959F933F8",
		},
	},
	{
		Symbol:   "USDT",
		Name:     "Tether USD",
		IconURL:  "https://cryptologos.cc/logos/tether-usdt-logo.png",
		Decimals: 6,
		Addresses: map[uint64]string{
			1:     "0xdAC17F958D2ee523a2206206994597C13D831ec7",
			10:    "0x94b008aA00579c1307B0EF2c499aD98a8ce58e58",
			137:   "0xc2132D05D31c914a87C6611C10748AEb04B58e8F",
			42161: "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9",
			250:   "0x049d68029688eAbF473097a2fC38ef61633A3C7A",
			43114: "0x9702230A8Ea53601f5cD2dc00fDBc13d4dF4A8c7",
			100:   "0x4ECaBa5870353805a9F068101A40E0f32ed605C6",
			56:    "0x55d398326f99059fF775485246999027B3197955",
		},
	},
	{
		Symbol:   "USDC",
		Name:     "USD Coin",
		IconURL:  "https://cryptologos.cc/logos/usd-coin-usdc-logo.png",
		Decimals: 6,
		Addresses: map[uint64]string{
			1:     "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
			10:    "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85",
			137:   "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359",
			42161: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831",
			250:   "0x04068DA6C83AFCFA0e13ba15A6696662335D5B75",
			43114: "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E",
			100:   "0xDDAfbb505ad214D7b80b1f830fcCc89B60fb7A83",
			56:    "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d",
		},
	},
}

// TokenLoader implements port.TokenProvider over the built-in catalog plus any
// JSON token files found in a directory.
type TokenLoader struct {
	logger  port.Logger
	tokens  map[string]entity.TokenInfo
	ordered []string
}

// NewTokenLoader creates the catalog. When tokenDir is set, every *.json file in it
// is read as an array of tokens; entries replace built-in tokens with the same symbol.
// A missing directory is not an error.
func NewTokenLoader(log port.Logger, tokenDir string) (*TokenLoader, error) {
	l := &TokenLoader{
		logger: log,
		tokens: make(map[string]entity.TokenInfo, len(builtinTokens)),
	}
	for _, token := range builtinTokens {
		l.add(token)
	}

	if tokenDir == "" {
		return l, nil
	}
	if err := l.loadDir(tokenDir); err != nil {
		return nil, err
	}
	return l, nil
}

var _ port.TokenProvider = (*TokenLoader)(nil)

func (l *TokenLoader) add(token entity.TokenInfo) {
	symbol := strings.ToUpper(strings.TrimSpace(token.Symbol))
	token.Symbol = symbol
	if _, exists := l.tokens[symbol]; !exists {
		l.ordered = append(l.ordered, symbol)
	}
	l.tokens[symbol] = token
}

func (l *TokenLoader) loadDir(tokenDir string) error {
	files, err := os.ReadDir(tokenDir)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("Token directory not found, using built-in tokens only", "path", tokenDir)
			return nil
		}
		return fmt.Errorf("failed to read token directory %s: %w", tokenDir, err)
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".json") {
			continue
		}
		names = append(names, file.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(tokenDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("Failed to read token file, skipping file.", "path", path, "error", err)
			continue
		}

		var tokensInFile []entity.TokenInfo
		if err := json.Unmarshal(data, &tokensInFile); err != nil {
			l.logger.Warn("Failed to unmarshal tokens from file, skipping file.", "path", path, "error", err)
			continue
		}

		loaded := 0
		for _, token := range tokensInFile {
			if strings.TrimSpace(token.Symbol) == "" {
				l.logger.Warn("Token without symbol in file, skipping token.", "path", path, "name", token.Name)
				continue
			}
			l.add(token)
			loaded++
		}
		l.logger.Info("Tokens loaded from file", "file", name, "count", loaded)
	}
	return nil
}

// GetTokens returns the catalog in selector order.
func (l *TokenLoader) GetTokens() []entity.TokenInfo {
	out := make([]entity.TokenInfo, 0, len(l.ordered))
	for _, symbol := range l.ordered {
		out = append(out, l.tokens[symbol])
	}
	return out
}

// GetToken looks a token up by symbol, case-insensitively.
func (l *TokenLoader) GetToken(symbol string) (entity.TokenInfo, bool) {
	token, ok := l.tokens[strings.ToUpper(strings.TrimSpace(symbol))]
	return token, ok
}
