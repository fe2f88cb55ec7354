package keeper

import (
	"github.com/openalpha/hedge-vault/x/vault/types"
)

func (s *KeeperTestSuite) TestInvariants_HoldAcrossLifecycle() {
	vault := s.createVault("operator", 1000)
	s.Require().NoError(s.keeper.AssertInvariants(s.ctx))

	s.deposit(vault.ID, "alice", 1000)
	s.deposit(vault.ID, "bob", 333)
	s.Require().NoError(s.keeper.AssertInvariants(s.ctx))

	s.at(days(7))
	_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 1999)
	s.Require().NoError(err)
	s.fund(vault.CustodyAccount, 666)
	_, err = s.keeper.Withdraw(s.ctx, vault.ID, "bob", 400)
	s.Require().NoError(err)
	s.Require().NoError(s.keeper.AssertInvariants(s.ctx))
}

func (s *KeeperTestSuite) TestInvariants_DetectBrokenState() {
	tests := []struct {
		name   string
		mutate func(v *types.Vault)
	}{
		{
			name:   "positions exceed shares",
			mutate: func(v *types.Vault) { v.TotalShares = 999 },
		},
		{
			name:   "shares without assets",
			mutate: func(v *types.Vault) { v.TotalAssets = 0 },
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			vault := s.createVault("operator", 1000)
			s.deposit(vault.ID, "alice", 1000)

			broken := s.vault(vault.ID)
			tt.mutate(broken)
			s.keeper.SetVault(s.ctx, broken)

			s.Require().Error(s.keeper.AssertInvariants(s.ctx))
		})
	}

	_, brokenShares := PositionSharesInvariant(s.keeper)(s.ctx)
	_, brokenPool := PoolConsistencyInvariant(s.keeper)(s.ctx)
	s.Require().False(brokenShares)
	s.Require().True(brokenPool)
}
