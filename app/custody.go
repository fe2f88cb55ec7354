package app

import (
	"context"
	"encoding/binary"

	"cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/hedge-vault/x/vault/types"
)

// CustodyStoreKey names the store holding host account balances
const CustodyStoreKey = "custody"

const custodyCodespace = "custody"

var (
	ErrInsufficientBalance = errors.Register(custodyCodespace, 1, "insufficient balance")
	ErrBalanceOverflow     = errors.Register(custodyCodespace, 2, "balance overflow")
	ErrInvalidAccount      = errors.Register(custodyCodespace, 3, "invalid account")
)

var balanceKeyPrefix = []byte{0x01}

func balanceKey(account string) []byte {
	return append(append([]byte{}, balanceKeyPrefix...), []byte(account)...)
}

// CustodyKeeper keeps single-asset account balances for the host, including the
// vault custody accounts. It is the vault ledger's asset transfer service.
type CustodyKeeper struct {
	storeKey storetypes.StoreKey
}

var _ types.AssetTransfer = CustodyKeeper{}

// NewCustodyKeeper creates a custody keeper over storeKey
func NewCustodyKeeper(storeKey storetypes.StoreKey) CustodyKeeper {
	return CustodyKeeper{storeKey: storeKey}
}

// Balance returns the balance of account
func (k CustodyKeeper) Balance(ctx context.Context, account string) uint64 {
	bz := sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey).Get(balanceKey(account))
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (k CustodyKeeper) setBalance(ctx context.Context, account string, amount uint64) {
	store := sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
	if amount == 0 {
		store.Delete(balanceKey(account))
		return
	}
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, amount)
	store.Set(balanceKey(account), bz)
}

// Move transfers amount between two distinct accounts. Both balances change or
// neither does.
func (k CustodyKeeper) Move(ctx context.Context, from, to string, amount uint64) error {
	if from == "" || to == "" {
		return errors.Wrapf(ErrInvalidAccount, "move %q -> %q", from, to)
	}
	fromBalance := k.Balance(ctx, from)
	if fromBalance < amount {
		return errors.Wrapf(ErrInsufficientBalance, "%s has %d, needs %d", from, fromBalance, amount)
	}
	if from == to {
		return errors.Wrapf(ErrInvalidAccount, "move from %q to itself", from)
	}
	toBalance, err := types.SafeAdd(k.Balance(ctx, to), amount)
	if err != nil {
		return errors.Wrapf(ErrBalanceOverflow, "%s", to)
	}
	k.setBalance(ctx, from, fromBalance-amount)
	k.setBalance(ctx, to, toBalance)
	return nil
}

// Mint credits amount to account out of thin air
func (k CustodyKeeper) Mint(ctx context.Context, account string, amount uint64) error {
	if account == "" {
		return errors.Wrap(ErrInvalidAccount, "mint to empty account")
	}
	balance, err := types.SafeAdd(k.Balance(ctx, account), amount)
	if err != nil {
		return errors.Wrapf(ErrBalanceOverflow, "%s", account)
	}
	k.setBalance(ctx, account, balance)
	return nil
}

// Burn debits amount from account
func (k CustodyKeeper) Burn(ctx context.Context, account string, amount uint64) error {
	balance := k.Balance(ctx, account)
	if balance < amount {
		return errors.Wrapf(ErrInsufficientBalance, "%s has %d, burning %d", account, balance, amount)
	}
	k.setBalance(ctx, account, balance-amount)
	return nil
}

// Balances returns every non-zero balance
func (k CustodyKeeper) Balances(ctx context.Context) map[string]uint64 {
	iterator := storetypes.KVStorePrefixIterator(sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey), balanceKeyPrefix)
	defer iterator.Close()

	balances := make(map[string]uint64)
	for ; iterator.Valid(); iterator.Next() {
		account := string(iterator.Key()[len(balanceKeyPrefix):])
		balances[account] = binary.BigEndian.Uint64(iterator.Value())
	}
	return balances
}
