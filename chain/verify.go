package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/liquidator/config"
)

// wiringAccessors maps each deploy-time accessor on the executor to the
// expected value from the operator's config.
func wiringAccessors(expected *config.ImmutableConfig) map[string]common.Address {
	return map[string]common.Address{
		"ADDRESSES_PROVIDER": expected.AddressesProvider(),
		"UNISWAP_FACTORY":    expected.SwapFactory(),
		"SWAP_ROUTER":        expected.SwapRouter(),
		"WETH":               expected.WrappedNative(),
	}
}

// VerifyDeployment reads the executor's immutable wiring off the chain
// and compares every accessor against the expected configuration. A
// mismatch means the operator is pointed at the wrong deployment.
func (c *Client) VerifyDeployment(ctx context.Context, expected *config.ImmutableConfig) error {
	var mismatches []string

	for name, want := range wiringAccessors(expected) {
		got, err := c.readAddressAccessor(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if got != want {
			mismatches = append(mismatches, fmt.Sprintf("%s: deployed %s, expected %s", name, got.Hex(), want.Hex()))
			continue
		}
		c.logger.Debug("Wiring accessor verified",
			zap.String("accessor", name),
			zap.String("address", got.Hex()))
	}

	if len(mismatches) > 0 {
		return fmt.Errorf("deployment wiring mismatch: %s", strings.Join(mismatches, "; "))
	}
	return nil
}

// Owner reads the executor's owner.
func (c *Client) Owner(ctx context.Context) (common.Address, error) {
	return c.readAddressAccessor(ctx, "owner")
}

// readAddressAccessor calls a zero-argument view method returning one
// address.
func (c *Client) readAddressAccessor(ctx context.Context, method string) (common.Address, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return common.Address{}, fmt.Errorf("rate limit wait: %w", err)
	}

	data, err := executorABI.Pack(method)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to pack %s call: %w", method, err)
	}
	output, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.executor, Data: data}, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("call to %s failed: %w", method, err)
	}

	values, err := executorABI.Unpack(method, output)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	if len(values) != 1 {
		return common.Address{}, fmt.Errorf("unexpected %s result arity %d", method, len(values))
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s did not return an address", method)
	}
	return addr, nil
}
