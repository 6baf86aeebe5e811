package registry

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/relaynet-org/relay-daemon/internal/relay"
)

// registryABI covers the slice of the collateral-registry surface the daemon
// consumes: staking reads, deposit reads, the registration call, deposit
// withdrawal, and the lifecycle events replayed by the registration manager.
const registryABI = `[
	{"type":"function","name":"getStakeInfo","stateMutability":"view","inputs":[{"name":"relay","type":"address"}],"outputs":[{"name":"stake","type":"uint256"},{"name":"unstakeDelay","type":"uint256"},{"name":"withdrawBlock","type":"uint256"},{"name":"owner","type":"address"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"target","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getNonce","stateMutability":"view","inputs":[{"name":"from","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"registerRelay","stateMutability":"nonpayable","inputs":[{"name":"baseFee","type":"uint256"},{"name":"pctFee","type":"uint256"},{"name":"url","type":"string"}],"outputs":[]},
	{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"},{"name":"dest","type":"address"}],"outputs":[]},
	{"type":"function","name":"depositFor","stateMutability":"payable","inputs":[{"name":"target","type":"address"}],"outputs":[]},
	{"type":"event","name":"Staked","inputs":[{"name":"relay","type":"address","indexed":true},{"name":"stake","type":"uint256","indexed":false},{"name":"unstakeDelay","type":"uint256","indexed":false}]},
	{"type":"event","name":"Unstaked","inputs":[{"name":"relay","type":"address","indexed":true},{"name":"stake","type":"uint256","indexed":false}]},
	{"type":"event","name":"HubAuthorized","inputs":[{"name":"relay","type":"address","indexed":true}]},
	{"type":"event","name":"HubUnauthorized","inputs":[{"name":"relay","type":"address","indexed":true}]},
	{"type":"event","name":"RelayRemoved","inputs":[{"name":"relay","type":"address","indexed":true},{"name":"unstakeBlock","type":"uint256","indexed":false}]},
	{"type":"event","name":"StakePenalized","inputs":[{"name":"relay","type":"address","indexed":true},{"name":"beneficiary","type":"address","indexed":false},{"name":"reward","type":"uint256","indexed":false}]}
]`

// Client is a typed wrapper over the ledger client for one registry contract.
type Client struct {
	ledger  relay.LedgerClient
	address common.Address
	abi     abi.ABI
	logger  *zap.Logger
}

func NewClient(ledger relay.LedgerClient, address common.Address, logger *zap.Logger) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry ABI: %w", err)
	}

	return &Client{
		ledger:  ledger,
		address: address,
		abi:     parsed,
		logger:  logger,
	}, nil
}

func (c *Client) Address() common.Address {
	return c.address
}

// GetStakeInfo returns the registry's staking record for relayAddr.
func (c *Client) GetStakeInfo(ctx context.Context, relayAddr common.Address) (*relay.RegistryStakeInfo, error) {
	out, err := c.call(ctx, "getStakeInfo", relayAddr)
	if err != nil {
		return nil, err
	}
	if len(out) != 4 {
		return nil, fmt.Errorf("getStakeInfo returned %d values: %w", len(out), relay.ErrProtocolViolation)
	}

	stake, ok1 := out[0].(*big.Int)
	unstakeDelay, ok2 := out[1].(*big.Int)
	withdrawBlock, ok3 := out[2].(*big.Int)
	owner, ok4 := out[3].(common.Address)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, fmt.Errorf("getStakeInfo returned unexpected types: %w", relay.ErrProtocolViolation)
	}

	return &relay.RegistryStakeInfo{
		Stake:         stake,
		UnstakeDelay:  unstakeDelay,
		WithdrawBlock: withdrawBlock,
		Owner:         owner,
	}, nil
}

// BalanceOf returns addr's deposit held inside the registry contract.
func (c *Client) BalanceOf(ctx context.Context, addr common.Address) (*big.Int, error) {
	out, err := c.call(ctx, "balanceOf", addr)
	if err != nil {
		return nil, err
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf returned unexpected type: %w", relay.ErrProtocolViolation)
	}
	return balance, nil
}

// GetNonce returns the registry-internal relay-call nonce of addr.
func (c *Client) GetNonce(ctx context.Context, addr common.Address) (*big.Int, error) {
	out, err := c.call(ctx, "getNonce", addr)
	if err != nil {
		return nil, err
	}
	nonce, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("getNonce returned unexpected type: %w", relay.ErrProtocolViolation)
	}
	return nonce, nil
}

// RegisterRelayData builds the registration-announcement calldata.
func (c *Client) RegisterRelayData(baseFee *big.Int, pctFee *big.Int, url string) ([]byte, error) {
	data, err := c.abi.Pack("registerRelay", baseFee, pctFee, url)
	if err != nil {
		return nil, fmt.Errorf("failed to pack registerRelay: %w", err)
	}
	return data, nil
}

// WithdrawData builds calldata moving amount of registry deposit to dest.
func (c *Client) WithdrawData(amount *big.Int, dest common.Address) ([]byte, error) {
	data, err := c.abi.Pack("withdraw", amount, dest)
	if err != nil {
		return nil, fmt.Errorf("failed to pack withdraw: %w", err)
	}
	return data, nil
}

// DepositForData builds calldata crediting target's registry deposit.
func (c *Client) DepositForData(target common.Address) ([]byte, error) {
	data, err := c.abi.Pack("depositFor", target)
	if err != nil {
		return nil, fmt.Errorf("failed to pack depositFor: %w", err)
	}
	return data, nil
}

// PastEvents fetches and decodes the registry events concerning relayAddr in
// [fromBlock, toBlock]. The node returns logs in ledger order; decoding keeps
// that order.
func (c *Client) PastEvents(ctx context.Context, relayAddr common.Address, fromBlock, toBlock uint64) ([]relay.RegistryEvent, error) {
	topics := [][]common.Hash{
		{
			c.abi.Events["Staked"].ID,
			c.abi.Events["Unstaked"].ID,
			c.abi.Events["HubAuthorized"].ID,
			c.abi.Events["HubUnauthorized"].ID,
			c.abi.Events["RelayRemoved"].ID,
			c.abi.Events["StakePenalized"].ID,
		},
		{common.BytesToHash(relayAddr.Bytes())},
	}

	logs, err := c.ledger.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{c.address},
		Topics:    topics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registry logs: %w", err)
	}

	events := make([]relay.RegistryEvent, 0, len(logs))
	for _, log := range logs {
		event, err := c.decodeLog(log)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (c *Client) decodeLog(log ethtypes.Log) (relay.RegistryEvent, error) {
	if len(log.Topics) < 2 {
		return nil, fmt.Errorf("registry log with %d topics: %w", len(log.Topics), relay.ErrProtocolViolation)
	}

	meta := relay.EventMeta{Block: log.BlockNumber, TxHash: log.TxHash, LogIndex: log.Index}
	relayAddr := common.BytesToAddress(log.Topics[1].Bytes())

	switch log.Topics[0] {
	case c.abi.Events["Staked"].ID:
		vals, err := c.abi.Unpack("Staked", log.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode Staked event: %w: %w", err, relay.ErrProtocolViolation)
		}
		return relay.StakedEvent{EventMeta: meta, Relay: relayAddr, Stake: vals[0].(*big.Int), UnstakeDelay: vals[1].(*big.Int)}, nil

	case c.abi.Events["Unstaked"].ID:
		vals, err := c.abi.Unpack("Unstaked", log.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode Unstaked event: %w: %w", err, relay.ErrProtocolViolation)
		}
		return relay.UnstakedEvent{EventMeta: meta, Relay: relayAddr, Stake: vals[0].(*big.Int)}, nil

	case c.abi.Events["HubAuthorized"].ID:
		return relay.HubAuthorizedEvent{EventMeta: meta, Relay: relayAddr}, nil

	case c.abi.Events["HubUnauthorized"].ID:
		return relay.HubUnauthorizedEvent{EventMeta: meta, Relay: relayAddr}, nil

	case c.abi.Events["RelayRemoved"].ID:
		vals, err := c.abi.Unpack("RelayRemoved", log.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode RelayRemoved event: %w: %w", err, relay.ErrProtocolViolation)
		}
		return relay.RelayRemovedEvent{EventMeta: meta, Relay: relayAddr, UnstakeBlock: vals[0].(*big.Int)}, nil

	case c.abi.Events["StakePenalized"].ID:
		vals, err := c.abi.Unpack("StakePenalized", log.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode StakePenalized event: %w: %w", err, relay.ErrProtocolViolation)
		}
		return relay.StakePenalizedEvent{EventMeta: meta, Relay: relayAddr, Beneficiary: vals[0].(common.Address), Reward: vals[1].(*big.Int)}, nil

	default:
		return nil, fmt.Errorf("unknown registry log topic %s: %w", log.Topics[0].Hex(), relay.ErrProtocolViolation)
	}
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	ret, err := c.ledger.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	out, err := c.abi.Unpack(method, ret)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w: %w", method, err, relay.ErrProtocolViolation)
	}
	return out, nil
}
