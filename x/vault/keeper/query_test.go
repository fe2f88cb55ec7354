package keeper

import (
	"math"

	"github.com/openalpha/hedge-vault/x/vault/types"
)

func (s *KeeperTestSuite) TestQuery_VaultLookups() {
	q := NewQueryServerImpl(s.keeper)
	a := s.createVault("op-a", 1000)
	s.createVault("op-b", 1000)
	s.createVault("op-c", 1000)

	got, err := q.Vault(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Require().Equal("op-a", got.Operator)

	got, err = q.VaultByOperator(s.ctx, "op-a")
	s.Require().NoError(err)
	s.Require().Equal(a.ID, got.ID)

	_, err = q.Vault(s.ctx, "hvmissing")
	s.Require().ErrorIs(err, types.ErrVaultNotFound)
	_, err = q.VaultByOperator(s.ctx, "nobody")
	s.Require().ErrorIs(err, types.ErrVaultNotFound)

	tests := []struct {
		name          string
		offset, limit uint64
		want          int
	}{
		{"all", 0, 0, 3},
		{"first page", 0, 2, 2},
		{"second page", 2, 2, 1},
		{"past the end", 5, 2, 0},
		{"limit at max", 1, math.MaxUint64, 2},
		{"offset and limit at max", math.MaxUint64, math.MaxUint64, 0},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			page, total, err := q.Vaults(s.ctx, tt.offset, tt.limit)
			s.Require().NoError(err)
			s.Require().Equal(uint64(3), total)
			s.Require().Len(page, tt.want)
		})
	}
}

func (s *KeeperTestSuite) TestQuery_PositionValue() {
	q := NewQueryServerImpl(s.keeper)
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)
	s.deposit(vault.ID, "bob", 500)

	s.at(days(7))
	_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 2000)
	s.Require().NoError(err)

	value, err := q.PositionValue(s.ctx, vault.ID, "bob")
	s.Require().NoError(err)
	s.Require().Equal(uint64(500), value.Shares)
	s.Require().Equal(uint64(666), value.Assets)

	price, err := q.SharePrice(s.ctx, vault.ID)
	s.Require().NoError(err)
	s.Require().Equal("1.333333333333333333", price.String())

	_, err = q.PositionValue(s.ctx, vault.ID, "carol")
	s.Require().ErrorIs(err, types.ErrPositionNotFound)

	positions, total, err := q.VaultPositions(s.ctx, vault.ID, 0, 0)
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), total)
	s.Require().Len(positions, 2)

	held, err := q.InvestorPositions(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(held, 1)
}

func (s *KeeperTestSuite) TestQuery_EpochStatus() {
	q := NewQueryServerImpl(s.keeper)
	vault := s.createVault("operator", 1000)
	start := genesisTime.Unix()

	tests := []struct {
		name    string
		elapsed int64
		phase   string
		next    int64
	}{
		{"open", 3, "within_window", start + types.DepositWindow},
		{"closed", 6, "window_closed", start + types.EpochLength},
		{"ready", 9, "advance_ready", start + types.EpochLength},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.at(days(tt.elapsed))
			status, err := q.EpochStatus(s.ctx, vault.ID)
			s.Require().NoError(err)
			s.Require().Equal(tt.phase, status.Phase)
			s.Require().Equal(tt.next, status.NextTransition)
			s.Require().Equal(tt.elapsed*types.SecondsPerDay, status.ElapsedSeconds)
			s.Require().Equal(uint64(0), status.Epoch)
		})
	}
}

func (s *KeeperTestSuite) TestQuery_Previews() {
	q := NewQueryServerImpl(s.keeper)
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)
	s.at(days(7))
	_, err := s.keeper.AdvanceEpoch(s.ctx, vault.ID, 1500)
	s.Require().NoError(err)

	preview, err := q.PreviewDeposit(s.ctx, vault.ID, 750)
	s.Require().NoError(err)
	s.Require().Equal(uint64(500), preview.Shares)
	s.Require().Equal("within_window", preview.Phase)

	preview, err = q.PreviewWithdraw(s.ctx, vault.ID, 300)
	s.Require().NoError(err)
	s.Require().Equal(uint64(200), preview.Shares)

	// previews never write
	s.Require().Equal(uint64(1000), s.vault(vault.ID).TotalShares)
}

func (s *KeeperTestSuite) TestQuery_History() {
	q := NewQueryServerImpl(s.keeper)
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)

	_, err := s.keeper.RecordSwap(s.ctx, vault.ID, "operator", 100, 0)
	s.Require().NoError(err)
	s.at(days(1))
	_, err = s.keeper.RecordSwap(s.ctx, vault.ID, "operator", 200, 0)
	s.Require().NoError(err)

	swaps, err := q.SwapHistory(s.ctx, vault.ID)
	s.Require().NoError(err)
	s.Require().Len(swaps, 2)
	s.Require().Equal(uint64(100), swaps[0].InputAmount)
	s.Require().Equal(uint64(200), swaps[1].InputAmount)

	epochs, err := q.EpochHistory(s.ctx, vault.ID)
	s.Require().NoError(err)
	s.Require().Empty(epochs)

	_, err = q.SwapHistory(s.ctx, "hvmissing")
	s.Require().ErrorIs(err, types.ErrVaultNotFound)
}
