package registry

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/relaynet-org/relay-daemon/internal/relay"
	mock_relay "github.com/relaynet-org/relay-daemon/testutil/mocks/relay"
)

var (
	contractAddr  = common.HexToAddress("0x0000000000000000000000000000000000000c01")
	testRelayAddr = common.HexToAddress("0x0000000000000000000000000000000000000c02")
)

func newTestClient(t *testing.T, ledger relay.LedgerClient) *Client {
	c, err := NewClient(ledger, contractAddr, zap.NewNop())
	require.NoError(t, err)
	return c
}

func (c *Client) mustPackEventData(t *testing.T, event string, args ...interface{}) []byte {
	data, err := c.abi.Events[event].Inputs.NonIndexed().Pack(args...)
	require.NoError(t, err)
	return data
}

func TestPastEventsDecodesLifecycleEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mock_relay.NewMockLedgerClient(ctrl)
	c := newTestClient(t, ledger)

	beneficiary := common.HexToAddress("0x0000000000000000000000000000000000000c03")
	logs := []ethtypes.Log{
		{
			Address:     contractAddr,
			Topics:      []common.Hash{c.abi.Events["Staked"].ID, common.BytesToHash(testRelayAddr.Bytes())},
			Data:        c.mustPackEventData(t, "Staked", big.NewInt(2000), big.NewInt(200)),
			BlockNumber: 10,
		},
		{
			Address:     contractAddr,
			Topics:      []common.Hash{c.abi.Events["HubAuthorized"].ID, common.BytesToHash(testRelayAddr.Bytes())},
			BlockNumber: 11,
		},
		{
			Address:     contractAddr,
			Topics:      []common.Hash{c.abi.Events["StakePenalized"].ID, common.BytesToHash(testRelayAddr.Bytes())},
			Data:        c.mustPackEventData(t, "StakePenalized", beneficiary, big.NewInt(50)),
			BlockNumber: 12,
		},
		{
			Address:     contractAddr,
			Topics:      []common.Hash{c.abi.Events["HubUnauthorized"].ID, common.BytesToHash(testRelayAddr.Bytes())},
			BlockNumber: 13,
		},
		{
			Address:     contractAddr,
			Topics:      []common.Hash{c.abi.Events["RelayRemoved"].ID, common.BytesToHash(testRelayAddr.Bytes())},
			Data:        c.mustPackEventData(t, "RelayRemoved", big.NewInt(300)),
			BlockNumber: 14,
		},
		{
			Address:     contractAddr,
			Topics:      []common.Hash{c.abi.Events["Unstaked"].ID, common.BytesToHash(testRelayAddr.Bytes())},
			Data:        c.mustPackEventData(t, "Unstaked", big.NewInt(2000)),
			BlockNumber: 15,
		},
	}

	ledger.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q ethereum.FilterQuery) ([]ethtypes.Log, error) {
			assert.Equal(t, []common.Address{contractAddr}, q.Addresses)
			assert.Equal(t, big.NewInt(100), q.FromBlock)
			assert.Equal(t, big.NewInt(200), q.ToBlock)
			require.Len(t, q.Topics, 2)
			assert.Len(t, q.Topics[0], 6)
			assert.Equal(t, []common.Hash{common.BytesToHash(testRelayAddr.Bytes())}, q.Topics[1])
			return logs, nil
		})

	events, err := c.PastEvents(context.Background(), testRelayAddr, 100, 200)
	require.NoError(t, err)
	require.Len(t, events, 6)

	staked, ok := events[0].(relay.StakedEvent)
	require.True(t, ok)
	assert.Equal(t, testRelayAddr, staked.Relay)
	assert.Equal(t, big.NewInt(2000), staked.Stake)
	assert.Equal(t, big.NewInt(200), staked.UnstakeDelay)
	assert.Equal(t, uint64(10), staked.BlockNumber())

	_, ok = events[1].(relay.HubAuthorizedEvent)
	require.True(t, ok)

	penalized, ok := events[2].(relay.StakePenalizedEvent)
	require.True(t, ok)
	assert.Equal(t, beneficiary, penalized.Beneficiary)
	assert.Equal(t, big.NewInt(50), penalized.Reward)

	_, ok = events[3].(relay.HubUnauthorizedEvent)
	require.True(t, ok)

	removed, ok := events[4].(relay.RelayRemovedEvent)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(300), removed.UnstakeBlock)

	unstaked, ok := events[5].(relay.UnstakedEvent)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(2000), unstaked.Stake)
}

func TestPastEventsRejectsUnknownTopic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mock_relay.NewMockLedgerClient(ctrl)
	c := newTestClient(t, ledger)

	ledger.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).Return([]ethtypes.Log{
		{
			Address:     contractAddr,
			Topics:      []common.Hash{common.HexToHash("0xdead"), common.BytesToHash(testRelayAddr.Bytes())},
			BlockNumber: 10,
		},
	}, nil)

	_, err := c.PastEvents(context.Background(), testRelayAddr, 100, 200)
	require.Error(t, err)
	assert.True(t, errors.Is(err, relay.ErrProtocolViolation))
}

func TestGetStakeInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mock_relay.NewMockLedgerClient(ctrl)
	c := newTestClient(t, ledger)

	owner := common.HexToAddress("0x0000000000000000000000000000000000000c03")
	ret, err := c.abi.Methods["getStakeInfo"].Outputs.Pack(big.NewInt(2000), big.NewInt(200), big.NewInt(0), owner)
	require.NoError(t, err)

	ledger.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).DoAndReturn(
		func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
			require.NotNil(t, msg.To)
			assert.Equal(t, contractAddr, *msg.To)
			return ret, nil
		})

	info, err := c.GetStakeInfo(context.Background(), testRelayAddr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2000), info.Stake)
	assert.Equal(t, big.NewInt(200), info.UnstakeDelay)
	assert.Equal(t, 0, info.WithdrawBlock.Sign())
	assert.Equal(t, owner, info.Owner)
}

func TestCalldataBuildersUseExpectedSelectors(t *testing.T) {
	c := newTestClient(t, nil)

	register, err := c.RegisterRelayData(big.NewInt(0), big.NewInt(70), "https://relay.example.com")
	require.NoError(t, err)
	assert.Equal(t, c.abi.Methods["registerRelay"].ID, register[:4])

	withdraw, err := c.WithdrawData(big.NewInt(100), testRelayAddr)
	require.NoError(t, err)
	assert.Equal(t, c.abi.Methods["withdraw"].ID, withdraw[:4])

	deposit, err := c.DepositForData(testRelayAddr)
	require.NoError(t, err)
	assert.Equal(t, c.abi.Methods["depositFor"].ID, deposit[:4])
}
