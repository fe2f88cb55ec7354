package types

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Module name and store key
const (
	ModuleName = "vault"
	StoreKey   = ModuleName
)

// Store key prefixes
var (
	VaultKeyPrefix         = []byte{0x01}
	OperatorIndexKeyPrefix = []byte{0x02}
	PositionKeyPrefix      = []byte{0x03}
	InvestorIndexKeyPrefix = []byte{0x04}
	EpochRecordKeyPrefix   = []byte{0x05}
	SwapRecordKeyPrefix    = []byte{0x06}
)

const keySeparator = byte('/')

// VaultIDForOperator derives the id of the single vault an operator may own.
func VaultIDForOperator(operator string) string {
	sum := sha256.Sum256([]byte(operator))
	return "hv" + hex.EncodeToString(sum[:])[:24]
}

// CustodyAccountForVault returns the custody account that holds a vault's pooled assets.
func CustodyAccountForVault(vaultID string) string {
	return "custody/" + vaultID
}

func VaultKey(vaultID string) []byte {
	return concat(VaultKeyPrefix, []byte(vaultID))
}

func OperatorIndexKey(operator string) []byte {
	return concat(OperatorIndexKeyPrefix, []byte(operator))
}

// PositionKey is vault-major so that all positions of a vault share a prefix.
func PositionKey(vaultID, investor string) []byte {
	return concat(PositionsByVaultPrefix(vaultID), []byte(investor))
}

func PositionsByVaultPrefix(vaultID string) []byte {
	return concat(PositionKeyPrefix, []byte(vaultID), []byte{keySeparator})
}

func InvestorIndexKey(investor, vaultID string) []byte {
	return concat(InvestorIndexPrefix(investor), []byte(vaultID))
}

func InvestorIndexPrefix(investor string) []byte {
	return concat(InvestorIndexKeyPrefix, []byte(investor), []byte{keySeparator})
}

// EpochRecordKey uses a big-endian epoch so iteration is in epoch order.
func EpochRecordKey(vaultID string, epoch uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, epoch)
	return concat(EpochRecordsByVaultPrefix(vaultID), bz)
}

func EpochRecordsByVaultPrefix(vaultID string) []byte {
	return concat(EpochRecordKeyPrefix, []byte(vaultID), []byte{keySeparator})
}

// SwapRecordKey orders swaps by execution time, then id.
func SwapRecordKey(vaultID string, executedAt int64, swapID string) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(executedAt))
	return concat(SwapRecordsByVaultPrefix(vaultID), bz, []byte(swapID))
}

func SwapRecordsByVaultPrefix(vaultID string) []byte {
	return concat(SwapRecordKeyPrefix, []byte(vaultID), []byte{keySeparator})
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	key := make([]byte, 0, n)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}
