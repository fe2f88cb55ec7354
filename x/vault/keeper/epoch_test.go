package keeper

import (
	"time"

	"github.com/openalpha/hedge-vault/x/vault/types"
)

func (s *KeeperTestSuite) TestAdvanceEpoch_Boundary() {
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)

	for _, elapsed := range []time.Duration{days(6) - time.Second, days(6), days(7) - time.Second} {
		s.at(elapsed)
		before := s.snapshot()
		_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 1500)
		s.Require().ErrorIs(err, types.ErrEpochNotReady, elapsed.String())
		s.Require().Equal(before, s.snapshot())
	}

	s.at(days(7))
	_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 1500)
	s.Require().NoError(err)

	v := s.vault(vault.ID)
	s.Require().Equal(uint64(1), v.CurrentEpoch)
	s.Require().Equal(genesisTime.Add(days(7)).Unix(), v.LastEpochUpdate)

	// the next epoch is measured from the advance, not from creation
	s.at(days(13))
	_, err = s.keeper.AdvanceEpoch(s.ctx, vault.ID, 1500)
	s.Require().ErrorIs(err, types.ErrEpochNotReady)
}

func (s *KeeperTestSuite) TestAdvanceEpoch_AccruesFeeOnProfit() {
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)

	s.at(days(7))
	record, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 1500)
	s.Require().NoError(err)

	s.Require().Equal(uint64(0), record.Epoch)
	s.Require().Equal(uint64(1000), record.OpeningAssets)
	s.Require().Equal(uint64(1500), record.ObservedAssets)
	s.Require().Equal(uint64(500), record.Profit)
	s.Require().Equal(uint64(50), record.FeeAccrued)
	s.Require().Equal("1.500000000000000000", record.SharePrice)

	v := s.vault(vault.ID)
	s.Require().Equal(uint64(50), v.AccruedFees)
	s.Require().Equal(uint64(1500), v.TotalAssets)
	s.Require().Equal(uint64(1000), v.TotalShares)
	s.Require().Equal(uint64(1), v.CurrentEpoch)

	history := s.keeper.GetEpochRecords(s.ctx, vault.ID)
	s.Require().Len(history, 1)
	s.Require().Equal(record, history[0])
}

func (s *KeeperTestSuite) TestAdvanceEpoch_LossChargesNoFee() {
	vault := s.createVault("operator", 2000)
	s.deposit(vault.ID, "alice", 1000)

	s.at(days(7))
	_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 800)
	s.Require().NoError(err)

	v := s.vault(vault.ID)
	s.Require().Zero(v.AccruedFees)
	s.Require().Equal(uint64(800), v.TotalAssets)

	// recovering to 1000 is profit against the recorded 800
	s.at(days(14))
	record, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 1000)
	s.Require().NoError(err)
	s.Require().Equal(uint64(40), record.FeeAccrued)
	s.Require().Equal(uint64(40), s.vault(vault.ID).AccruedFees)

	history := s.keeper.GetEpochRecords(s.ctx, vault.ID)
	s.Require().Len(history, 2)
	s.Require().Equal(uint64(0), history[0].Epoch)
	s.Require().Equal(uint64(1), history[1].Epoch)
}

func (s *KeeperTestSuite) TestAdvanceEpoch_UnknownVault() {
	_, err := s.keeper.AdvanceEpoch(s.ctx, "hvmissing", 1)
	s.Require().ErrorIs(err, types.ErrVaultNotFound)
}
