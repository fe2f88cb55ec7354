package keeper

import (
	"strings"

	"github.com/openalpha/hedge-vault/x/vault/types"
)

func (s *KeeperTestSuite) TestCreateVault() {
	vault := s.createVault("operator", 1000)

	s.Require().Equal(types.VaultIDForOperator("operator"), vault.ID)
	s.Require().Equal("operator", vault.Operator)
	s.Require().Equal(uint32(1000), vault.PerformanceFeeBps)
	s.Require().Zero(vault.TotalShares)
	s.Require().Zero(vault.TotalAssets)
	s.Require().Zero(vault.CurrentEpoch)
	s.Require().Zero(vault.AccruedFees)
	s.Require().Equal(genesisTime.Unix(), vault.CreatedAt)
	s.Require().Equal(genesisTime.Unix(), vault.LastEpochUpdate)
	s.Require().Equal(types.CustodyAccountForVault(vault.ID), vault.CustodyAccount)

	stored := s.vault(vault.ID)
	s.Require().Equal(vault, stored)

	events := s.ctx.EventManager().Events()
	s.Require().NotEmpty(events)
	s.Require().Equal(types.EventTypeCreateVault, events[len(events)-1].Type)
}

func (s *KeeperTestSuite) TestCreateVault_Rejections() {
	tests := []struct {
		name    string
		setup   func()
		handle  string
		proof   string
		feeBps  uint32
		vname   string
		asset   string
		wantErr error
	}{
		{
			name:    "fee above 5000 bps",
			handle:  "alpha",
			proof:   "valid:operator",
			feeBps:  5001,
			vname:   "Alpha",
			asset:   "uusdc",
			wantErr: types.ErrInvalidPerformanceFee,
		},
		{
			name:    "fee checked before handle",
			handle:  "bad handle",
			proof:   "valid:operator",
			feeBps:  9000,
			vname:   "Alpha",
			asset:   "uusdc",
			wantErr: types.ErrInvalidPerformanceFee,
		},
		{
			name:    "malformed handle",
			handle:  "bad handle",
			proof:   "valid:operator",
			feeBps:  100,
			vname:   "Alpha",
			asset:   "uusdc",
			wantErr: types.ErrInvalidHandleFormat,
		},
		{
			name:    "proof for another owner",
			handle:  "alpha",
			proof:   "valid:mallory",
			feeBps:  100,
			vname:   "Alpha",
			asset:   "uusdc",
			wantErr: types.ErrInvalidProof,
		},
		{
			name:    "verifier error",
			setup:   func() { s.identity.verifyErr = errBoom },
			handle:  "alpha",
			proof:   "valid:operator",
			feeBps:  100,
			vname:   "Alpha",
			asset:   "uusdc",
			wantErr: types.ErrInvalidProof,
		},
		{
			name:    "empty name",
			handle:  "alpha",
			proof:   "valid:operator",
			vname:   "",
			asset:   "uusdc",
			wantErr: types.ErrInvalidVaultName,
		},
		{
			name:    "name too long",
			handle:  "alpha",
			proof:   "valid:operator",
			vname:   strings.Repeat("x", types.MaxVaultNameLength+1),
			asset:   "uusdc",
			wantErr: types.ErrInvalidVaultName,
		},
		{
			name:    "missing asset",
			handle:  "alpha",
			proof:   "valid:operator",
			vname:   "Alpha",
			wantErr: types.ErrInvalidAsset,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			if tt.setup != nil {
				tt.setup()
			}
			_, err := s.keeper.CreateVault(s.ctx, "operator", tt.vname, tt.handle, tt.proof, tt.feeBps, tt.asset)
			s.Require().ErrorIs(err, tt.wantErr)
			s.Require().Empty(s.snapshot())
		})
	}
}

func (s *KeeperTestSuite) TestCreateVault_MaxFeeAccepted() {
	vault := s.createVault("operator", types.MaxPerformanceFeeBps)
	s.Require().Equal(types.MaxPerformanceFeeBps, vault.PerformanceFeeBps)
}

func (s *KeeperTestSuite) TestCreateVault_OnePerOperator() {
	s.createVault("operator", 1000)
	before := s.snapshot()

	_, err := s.keeper.CreateVault(s.ctx, "operator", "Second", "alpha_fund", "valid:operator", 0, "uusdc")
	s.Require().ErrorIs(err, types.ErrVaultExists)
	s.Require().Equal(before, s.snapshot())
}
