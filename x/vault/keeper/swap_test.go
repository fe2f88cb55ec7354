package keeper

import (
	"github.com/openalpha/hedge-vault/x/vault/types"
)

func (s *KeeperTestSuite) TestRecordSwap() {
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)
	s.router.output = 98

	record, err := s.keeper.RecordSwap(s.ctx, vault.ID, "operator", 100, 95)
	s.Require().NoError(err)
	s.Require().NotEmpty(record.ID)
	s.Require().Equal(uint64(98), record.OutputAmount)
	s.Require().Equal(genesisTime.Unix(), record.ExecutedAt)

	v := s.vault(vault.ID)
	s.Require().Equal(uint64(1000), v.TotalAssets)
	s.Require().Equal(uint64(1000), v.TotalShares)

	history := s.keeper.GetSwapRecords(s.ctx, vault.ID)
	s.Require().Len(history, 1)
	s.Require().Equal(record.ID, history[0].ID)
}

func (s *KeeperTestSuite) TestRecordSwap_Failures() {
	vault := s.createVault("operator", 1000)
	s.deposit(vault.ID, "alice", 1000)
	before := s.snapshot()

	tests := []struct {
		name    string
		caller  string
		input   uint64
		min     uint64
		output  uint64
		err     error
		wantErr error
		calls   int
	}{
		{"not operator", "alice", 100, 0, 100, nil, types.ErrUnauthorized, 0},
		{"zero input", "operator", 0, 0, 100, nil, types.ErrInvalidAmount, 0},
		{"router failure", "operator", 100, 0, 0, errBoom, types.ErrSwapFailed, 1},
		{"output below minimum", "operator", 100, 99, 98, nil, types.ErrSlippageExceeded, 1},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.router.calls = 0
			s.router.output = tt.output
			s.router.err = tt.err

			_, err := s.keeper.RecordSwap(s.ctx, vault.ID, tt.caller, tt.input, tt.min)
			s.Require().ErrorIs(err, tt.wantErr)
			s.Require().Equal(tt.calls, s.router.calls)
			s.Require().Equal(before, s.snapshot())
		})
	}
}
