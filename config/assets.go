package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v2"
)

// Asset describes one token in the registry.
type Asset struct {
	Symbol   string `yaml:"symbol"`
	Address  string `yaml:"address"`
	Decimals uint8  `yaml:"decimals"`
}

// AssetRegistry maps token symbols to on-chain addresses so opportunities
// can be specified as "USDC"/"WETH" instead of raw hex.
type AssetRegistry struct {
	bySymbol map[string]Asset
}

type assetsFile struct {
	Assets []Asset `yaml:"assets"`
}

// LoadAssets reads a YAML asset registry from path.
func LoadAssets(path string) (*AssetRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assets file: %w", err)
	}
	return ParseAssets(data)
}

// ParseAssets parses a YAML asset registry.
func ParseAssets(data []byte) (*AssetRegistry, error) {
	var file assetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse assets file: %w", err)
	}

	registry := &AssetRegistry{bySymbol: make(map[string]Asset, len(file.Assets))}
	for _, asset := range file.Assets {
		if asset.Symbol == "" {
			return nil, fmt.Errorf("asset with address %q has no symbol", asset.Address)
		}
		if !common.IsHexAddress(asset.Address) {
			return nil, fmt.Errorf("asset %s has invalid address %q", asset.Symbol, asset.Address)
		}
		key := strings.ToUpper(asset.Symbol)
		if _, exists := registry.bySymbol[key]; exists {
			return nil, fmt.Errorf("duplicate asset symbol %s", asset.Symbol)
		}
		registry.bySymbol[key] = asset
	}
	return registry, nil
}

// Resolve turns a symbol or hex string into an address. Hex input passes
// through, so callers can always hand raw addresses to the CLI.
func (r *AssetRegistry) Resolve(symbolOrHex string) (common.Address, error) {
	if common.IsHexAddress(symbolOrHex) {
		return common.HexToAddress(symbolOrHex), nil
	}
	if asset, ok := r.bySymbol[strings.ToUpper(symbolOrHex)]; ok {
		return common.HexToAddress(asset.Address), nil
	}
	return common.Address{}, fmt.Errorf("unknown asset %q", symbolOrHex)
}

// Lookup returns the full asset record for a symbol.
func (r *AssetRegistry) Lookup(symbol string) (Asset, bool) {
	asset, ok := r.bySymbol[strings.ToUpper(symbol)]
	return asset, ok
}
