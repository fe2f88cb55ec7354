package keeper

import (
	"github.com/openalpha/hedge-vault/x/vault/types"
)

func (s *KeeperTestSuite) TestGenesis_ExportImportRoundTrip() {
	vault := s.createVault("operator", 1000)
	s.createVault("other", 0)
	s.deposit(vault.ID, "alice", 1000)
	s.deposit(vault.ID, "bob", 250)
	_, err := s.keeper.RecordSwap(s.ctx, vault.ID, "operator", 100, 0)
	s.Require().NoError(err)
	s.at(days(7))
	_, err = s.keeper.AdvanceEpoch(s.ctx, vault.ID, 1500)
	s.Require().NoError(err)

	exported := s.keeper.ExportGenesis(s.ctx)
	s.Require().NoError(exported.Validate())
	s.Require().Len(exported.Vaults, 2)
	s.Require().Len(exported.Positions, 2)
	s.Require().Len(exported.EpochRecords, 1)
	s.Require().Len(exported.SwapRecords, 1)
	before := s.snapshot()

	s.SetupTest()
	s.Require().Empty(s.snapshot())
	s.Require().NoError(s.keeper.InitGenesis(s.ctx, *exported))

	s.Require().Equal(before, s.snapshot())
	s.Require().Equal(exported, s.keeper.ExportGenesis(s.ctx))
}

func (s *KeeperTestSuite) TestGenesis_RoundTripsZeroAssetVault() {
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)
	s.at(days(7))
	_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 0)
	s.Require().NoError(err)

	exported := s.keeper.ExportGenesis(s.ctx)
	s.Require().NoError(exported.Validate())
	before := s.snapshot()

	s.SetupTest()
	s.Require().NoError(s.keeper.InitGenesis(s.ctx, *exported))
	s.Require().Equal(before, s.snapshot())

	v := s.vault(vault.ID)
	s.Require().Equal(uint64(1000), v.TotalShares)
	s.Require().Zero(v.TotalAssets)

	_, broken := PoolConsistencyInvariant(s.keeper)(s.ctx)
	s.Require().True(broken)
}

func (s *KeeperTestSuite) TestGenesis_RejectsInvalidState() {
	vault := types.NewVault("operator", "Alpha Fund", "alpha_fund", "proof", 1000, "uusdc", genesisTime.Unix())
	vault.TotalShares = 100
	vault.TotalAssets = 100

	gs := types.DefaultGenesis()
	gs.Vaults = append(gs.Vaults, *vault)
	gs.Positions = append(gs.Positions, types.InvestorPosition{VaultID: vault.ID, Investor: "alice", Shares: 101})

	err := s.keeper.InitGenesis(s.ctx, *gs)
	s.Require().ErrorIs(err, types.ErrInvalidGenesis)
	s.Require().Empty(s.snapshot())
}
