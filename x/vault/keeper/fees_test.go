package keeper

import (
	"github.com/openalpha/hedge-vault/x/vault/types"
)

// Fee 10%: deposit 1000, observe 1500, fee 50, claim 50.
func (s *KeeperTestSuite) TestClaimFees_Scenario() {
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)

	s.at(days(7))
	_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 1500)
	s.Require().NoError(err)
	s.fund(vault.CustodyAccount, 500)

	claimed, err := s.keeper.ClaimFees(s.ctx, vault.ID, "operator")
	s.Require().NoError(err)
	s.Require().Equal(uint64(50), claimed)
	s.Require().Equal(uint64(50), s.transfer.balances["operator"])
	s.Require().Equal(uint64(1450), s.transfer.balances[vault.CustodyAccount])

	v := s.vault(vault.ID)
	s.Require().Zero(v.AccruedFees)
	// the claim does not touch the recorded total
	s.Require().Equal(uint64(1500), v.TotalAssets)
}

func (s *KeeperTestSuite) TestClaimFees_SecondClaimIsNoop() {
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)
	s.at(days(7))
	_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 1500)
	s.Require().NoError(err)
	s.fund(vault.CustodyAccount, 500)

	_, err = s.keeper.ClaimFees(s.ctx, vault.ID, "operator")
	s.Require().NoError(err)
	moves := s.transfer.moves
	before := s.snapshot()

	claimed, err := s.keeper.ClaimFees(s.ctx, vault.ID, "operator")
	s.Require().NoError(err)
	s.Require().Zero(claimed)
	s.Require().Equal(moves, s.transfer.moves)
	s.Require().Equal(before, s.snapshot())
}

func (s *KeeperTestSuite) TestClaimFees_Unauthorized() {
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)
	s.at(days(7))
	_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 1500)
	s.Require().NoError(err)
	before := s.snapshot()

	for _, caller := range []string{"alice", "", "operator "} {
		_, err = s.keeper.ClaimFees(s.ctx, vault.ID, caller)
		s.Require().ErrorIs(err, types.ErrUnauthorized, caller)
	}
	s.Require().Equal(before, s.snapshot())
}

func (s *KeeperTestSuite) TestClaimFees_TransferFailureKeepsBalance() {
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)
	s.at(days(7))
	_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 1500)
	s.Require().NoError(err)
	before := s.snapshot()

	s.transfer.fail = errBoom
	_, err = s.keeper.ClaimFees(s.ctx, vault.ID, "operator")
	s.Require().ErrorIs(err, types.ErrTransferFailed)
	s.Require().Equal(before, s.snapshot())
	s.Require().Equal(uint64(50), s.vault(vault.ID).AccruedFees)
}
