package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ImmutableConfig mirrors the executor contract's deploy-time wiring. The
// fields are fixed at construction and only readable through accessors,
// matching the contract's immutable storage: operators verify a deployment
// by comparing these against the chain's answers.
type ImmutableConfig struct {
	addressesProvider common.Address
	swapFactory       common.Address
	swapRouter        common.Address
	wrappedNative     common.Address
}

// NewImmutableConfig builds the expected deploy-time wiring. All four
// addresses must be set.
func NewImmutableConfig(addressesProvider, swapFactory, swapRouter, wrappedNative common.Address) (*ImmutableConfig, error) {
	for name, addr := range map[string]common.Address{
		"addresses provider": addressesProvider,
		"swap factory":       swapFactory,
		"swap router":        swapRouter,
		"wrapped native":     wrappedNative,
	} {
		if addr == (common.Address{}) {
			return nil, fmt.Errorf("%s address must be set", name)
		}
	}
	return &ImmutableConfig{
		addressesProvider: addressesProvider,
		swapFactory:       swapFactory,
		swapRouter:        swapRouter,
		wrappedNative:     wrappedNative,
	}, nil
}

// AddressesProvider returns the lending protocol's addresses provider.
func (c *ImmutableConfig) AddressesProvider() common.Address {
	return c.addressesProvider
}

// SwapFactory returns the pair factory used for conversions.
func (c *ImmutableConfig) SwapFactory() common.Address {
	return c.swapFactory
}

// SwapRouter returns the swap router used for conversions.
func (c *ImmutableConfig) SwapRouter() common.Address {
	return c.swapRouter
}

// WrappedNative returns the canonical wrapped native token.
func (c *ImmutableConfig) WrappedNative() common.Address {
	return c.wrappedNative
}
