package keeper

import (
	"time"

	"github.com/openalpha/hedge-vault/x/vault/types"
)

func (s *KeeperTestSuite) TestDeposit_BootstrapsOneToOne() {
	vault := s.createVault("operator", 1000)

	result := s.deposit(vault.ID, "alice", 1000)
	s.Require().Equal(uint64(1000), result.SharesMinted)

	v := s.vault(vault.ID)
	s.Require().Equal(uint64(1000), v.TotalShares)
	s.Require().Equal(uint64(1000), v.TotalAssets)
	s.Require().Equal(uint64(1000), s.transfer.balances[v.CustodyAccount])
	s.Require().Zero(s.transfer.balances["alice"])

	pos := s.keeper.GetPosition(s.ctx, vault.ID, "alice")
	s.Require().NotNil(pos)
	s.Require().Equal(uint64(1000), pos.Shares)
	s.Require().Equal(genesisTime.Unix(), pos.DepositedAt)
}

func (s *KeeperTestSuite) TestDeposit_PricesAgainstPreDepositTotals() {
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)

	s.at(days(7))
	_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 1500)
	s.Require().NoError(err)

	result := s.deposit(vault.ID, "bob", 750)
	s.Require().Equal(uint64(500), result.SharesMinted)
	s.Require().Equal(uint64(1500), result.TotalShares)
	s.Require().Equal(uint64(2250), result.TotalAssets)
}

func (s *KeeperTestSuite) TestDeposit_ReusesPositionAndKeepsFirstDepositTime() {
	vault := s.createVault("operator", 0)
	s.deposit(vault.ID, "alice", 100)

	s.at(days(1))
	s.deposit(vault.ID, "alice", 50)

	pos := s.keeper.GetPosition(s.ctx, vault.ID, "alice")
	s.Require().Equal(uint64(150), pos.Shares)
	s.Require().Equal(genesisTime.Unix(), pos.DepositedAt)
	s.Require().Len(s.keeper.GetVaultPositions(s.ctx, vault.ID), 1)
}

func (s *KeeperTestSuite) TestDeposit_WindowBoundary() {
	vault := s.createVault("operator", 1000)

	s.at(days(6) - time.Second)
	s.deposit(vault.ID, "alice", 10)

	s.at(days(6))
	s.fund("alice", 10)
	before := s.snapshot()
	_, err := s.keeper.Deposit(s.ctx, vault.ID, "alice", 10)
	s.Require().ErrorIs(err, types.ErrDepositWindowClosed)
	s.Require().Equal(before, s.snapshot())
	s.Require().Equal(uint64(10), s.transfer.balances["alice"])
}

func (s *KeeperTestSuite) TestDeposit_TransferFailureLeavesStateUnchanged() {
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)
	before := s.snapshot()

	// alice has no funds left
	_, err := s.keeper.Deposit(s.ctx, vault.ID, "alice", 10)
	s.Require().ErrorIs(err, types.ErrTransferFailed)
	s.Require().Equal(before, s.snapshot())

	s.transfer.fail = errBoom
	s.fund("bob", 10)
	_, err = s.keeper.Deposit(s.ctx, vault.ID, "bob", 10)
	s.Require().ErrorIs(err, types.ErrTransferFailed)
	s.Require().Equal(before, s.snapshot())
	s.Require().Nil(s.keeper.GetPosition(s.ctx, vault.ID, "bob"))
}

func (s *KeeperTestSuite) TestDeposit_Rejections() {
	vault := s.createVault("operator", 1000)

	_, err := s.keeper.Deposit(s.ctx, vault.ID, "alice", 0)
	s.Require().ErrorIs(err, types.ErrInvalidAmount)

	_, err = s.keeper.Deposit(s.ctx, "hvmissing", "alice", 10)
	s.Require().ErrorIs(err, types.ErrVaultNotFound)

	_, err = s.keeper.Deposit(s.ctx, vault.ID, "", 10)
	s.Require().ErrorIs(err, types.ErrUnauthorized)
}

func (s *KeeperTestSuite) TestDeposit_BelowSharePrice() {
	vault := s.createVault("operator", 0)
	s.deposit(vault.ID, "alice", 1000)

	s.at(days(7))
	_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 3000)
	s.Require().NoError(err)

	// one share is worth 3 units; 2 units would mint nothing
	s.fund("bob", 2)
	before := s.snapshot()
	_, err = s.keeper.Deposit(s.ctx, vault.ID, "bob", 2)
	s.Require().ErrorIs(err, types.ErrAmountBelowSharePrice)
	s.Require().Equal(before, s.snapshot())
}

func (s *KeeperTestSuite) TestDeposit_PoolInconsistent() {
	vault := s.createVault("operator", 0)
	s.deposit(vault.ID, "alice", 1000)

	s.at(days(7))
	_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 0)
	s.Require().NoError(err)

	s.fund("bob", 10)
	before := s.snapshot()
	_, err = s.keeper.Deposit(s.ctx, vault.ID, "bob", 10)
	s.Require().ErrorIs(err, types.ErrPoolInconsistent)
	s.Require().Equal(before, s.snapshot())
}

func (s *KeeperTestSuite) TestDeposit_CustodyAccountRejected() {
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)
	before := s.snapshot()

	_, err := s.keeper.Deposit(s.ctx, vault.ID, vault.CustodyAccount, 1000)
	s.Require().ErrorIs(err, types.ErrUnauthorized)
	s.Require().Equal(before, s.snapshot())
	s.Require().Equal(uint64(1000), s.transfer.balances[vault.CustodyAccount])
	s.Require().Nil(s.keeper.GetPosition(s.ctx, vault.ID, vault.CustodyAccount))
}
