package keeper

import (
	"context"
	"strconv"

	"github.com/openalpha/hedge-vault/x/vault/types"
)

// MsgServer defines the vault MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreateVault handles MsgCreateVault
func (m *MsgServer) CreateVault(ctx context.Context, msg *types.MsgCreateVault) (*types.MsgCreateVaultResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	vault, err := m.keeper.CreateVault(ctx, msg.Operator, msg.Name, msg.Handle, msg.HandleProof, msg.PerformanceFeeBps, msg.AssetID)
	if err != nil {
		return nil, err
	}

	return &types.MsgCreateVaultResponse{
		VaultID:        vault.ID,
		CustodyAccount: vault.CustodyAccount,
		CreatedAt:      vault.CreatedAt,
	}, nil
}

// Deposit handles MsgDeposit
func (m *MsgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	amount, err := types.ParseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	result, err := m.keeper.Deposit(ctx, msg.VaultID, msg.Investor, amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgDepositResponse{
		SharesMinted: strconv.FormatUint(result.SharesMinted, 10),
		TotalShares:  strconv.FormatUint(result.TotalShares, 10),
		TotalAssets:  strconv.FormatUint(result.TotalAssets, 10),
	}, nil
}

// Withdraw handles MsgWithdraw
func (m *MsgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	amount, err := types.ParseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	result, err := m.keeper.Withdraw(ctx, msg.VaultID, msg.Investor, amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgWithdrawResponse{
		SharesBurned:    strconv.FormatUint(result.SharesBurned, 10),
		RemainingShares: strconv.FormatUint(result.RemainingShares, 10),
	}, nil
}

// AdvanceEpoch handles MsgAdvanceEpoch
func (m *MsgServer) AdvanceEpoch(ctx context.Context, msg *types.MsgAdvanceEpoch) (*types.MsgAdvanceEpochResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	observed, err := types.ParseAmount(msg.ObservedTotalAssets)
	if err != nil {
		return nil, err
	}

	record, err := m.keeper.AdvanceEpoch(ctx, msg.VaultID, observed)
	if err != nil {
		return nil, err
	}
	vault, err := NewQueryServerImpl(m.keeper).Vault(ctx, msg.VaultID)
	if err != nil {
		return nil, err
	}

	return &types.MsgAdvanceEpochResponse{
		Epoch:       vault.CurrentEpoch,
		FeeAccrued:  strconv.FormatUint(record.FeeAccrued, 10),
		AccruedFees: strconv.FormatUint(vault.AccruedFees, 10),
		SharePrice:  record.SharePrice,
	}, nil
}

// ClaimFees handles MsgClaimFees
func (m *MsgServer) ClaimFees(ctx context.Context, msg *types.MsgClaimFees) (*types.MsgClaimFeesResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	claimed, err := m.keeper.ClaimFees(ctx, msg.VaultID, msg.Operator)
	if err != nil {
		return nil, err
	}

	return &types.MsgClaimFeesResponse{Claimed: strconv.FormatUint(claimed, 10)}, nil
}

// RecordSwap handles MsgRecordSwap
func (m *MsgServer) RecordSwap(ctx context.Context, msg *types.MsgRecordSwap) (*types.MsgRecordSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	input, err := types.ParseAmount(msg.InputAmount)
	if err != nil {
		return nil, err
	}
	minOutput, err := types.ParseAmount(msg.MinOutputAmount)
	if err != nil {
		return nil, err
	}

	record, err := m.keeper.RecordSwap(ctx, msg.VaultID, msg.Operator, input, minOutput)
	if err != nil {
		return nil, err
	}

	return &types.MsgRecordSwapResponse{
		SwapID:       record.ID,
		OutputAmount: strconv.FormatUint(record.OutputAmount, 10),
	}, nil
}
