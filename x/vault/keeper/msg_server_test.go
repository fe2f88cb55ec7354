package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/openalpha/hedge-vault/x/vault/types"
)

func (s *KeeperTestSuite) TestMsgServer_Lifecycle() {
	msgServer := NewMsgServerImpl(s.keeper)
	operator := sdk.AccAddress([]byte("operator____________")).String()
	investor := sdk.AccAddress([]byte("investor____________")).String()

	created, err := msgServer.CreateVault(s.ctx, &types.MsgCreateVault{
		Operator:          operator,
		Name:              "Alpha Fund",
		Handle:            "alpha_fund",
		HandleProof:       "valid:" + operator,
		PerformanceFeeBps: 1000,
		AssetID:           "uusdc",
	})
	s.Require().NoError(err)
	s.Require().Equal(types.VaultIDForOperator(operator), created.VaultID)
	s.Require().Equal(types.CustodyAccountForVault(created.VaultID), created.CustodyAccount)

	s.fund(investor, 1000)
	deposited, err := msgServer.Deposit(s.ctx, &types.MsgDeposit{Investor: investor, VaultID: created.VaultID, Amount: "1000"})
	s.Require().NoError(err)
	s.Require().Equal("1000", deposited.SharesMinted)
	s.Require().Equal("1000", deposited.TotalAssets)

	s.at(days(7))
	advanced, err := msgServer.AdvanceEpoch(s.ctx, &types.MsgAdvanceEpoch{Sender: investor, VaultID: created.VaultID, ObservedTotalAssets: "1500"})
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), advanced.Epoch)
	s.Require().Equal("50", advanced.FeeAccrued)
	s.Require().Equal("50", advanced.AccruedFees)
	s.fund(created.CustodyAccount, 500)

	withdrawn, err := msgServer.Withdraw(s.ctx, &types.MsgWithdraw{Investor: investor, VaultID: created.VaultID, Amount: "300"})
	s.Require().NoError(err)
	s.Require().Equal("200", withdrawn.SharesBurned)
	s.Require().Equal("800", withdrawn.RemainingShares)

	s.router.output = 120
	swapped, err := msgServer.RecordSwap(s.ctx, &types.MsgRecordSwap{Operator: operator, VaultID: created.VaultID, InputAmount: "100", MinOutputAmount: "110"})
	s.Require().NoError(err)
	s.Require().Equal("120", swapped.OutputAmount)
	s.Require().NotEmpty(swapped.SwapID)

	claimed, err := msgServer.ClaimFees(s.ctx, &types.MsgClaimFees{Operator: operator, VaultID: created.VaultID})
	s.Require().NoError(err)
	s.Require().Equal("50", claimed.Claimed)
	s.Require().Equal(uint64(50), s.transfer.balances[operator])
}

func (s *KeeperTestSuite) TestMsgServer_RejectsMalformedMessages() {
	msgServer := NewMsgServerImpl(s.keeper)
	investor := sdk.AccAddress([]byte("investor____________")).String()

	_, err := msgServer.CreateVault(s.ctx, &types.MsgCreateVault{Operator: "not-an-address", Name: "x", Handle: "h", HandleProof: "p", AssetID: "uusdc"})
	s.Require().ErrorIs(err, sdkerrors.ErrInvalidAddress)

	_, err = msgServer.Deposit(s.ctx, &types.MsgDeposit{Investor: investor, VaultID: "hvmissing", Amount: "ten"})
	s.Require().ErrorIs(err, types.ErrInvalidAmount)

	_, err = msgServer.Deposit(s.ctx, &types.MsgDeposit{Investor: investor, VaultID: "hvmissing", Amount: "10"})
	s.Require().ErrorIs(err, types.ErrVaultNotFound)

	s.Require().Empty(s.snapshot())
}
