package types

import (
	"cosmossdk.io/errors"
)

// Epoch timing, in seconds
const (
	SecondsPerDay = int64(86400)
	DepositWindow = 6 * SecondsPerDay
	EpochLength   = 7 * SecondsPerDay
)

// Phase is the admission state of a vault's current epoch.
type Phase int

const (
	// PhaseWithinWindow admits deposits and withdrawals: elapsed in [0, 6d).
	PhaseWithinWindow Phase = iota
	// PhaseWindowClosed admits nothing: elapsed in [6d, 7d).
	PhaseWindowClosed
	// PhaseAdvanceReady admits only the epoch advance: elapsed >= 7d.
	PhaseAdvanceReady
)

func (p Phase) String() string {
	switch p {
	case PhaseWithinWindow:
		return "within_window"
	case PhaseWindowClosed:
		return "window_closed"
	case PhaseAdvanceReady:
		return "advance_ready"
	default:
		return "unknown"
	}
}

// Elapsed returns the seconds since the last epoch update. A clock reading
// earlier than lastEpochUpdate counts as zero.
func Elapsed(lastEpochUpdate, now int64) int64 {
	if now < lastEpochUpdate {
		return 0
	}
	return now - lastEpochUpdate
}

// PhaseAt classifies now relative to lastEpochUpdate.
func PhaseAt(lastEpochUpdate, now int64) Phase {
	elapsed := Elapsed(lastEpochUpdate, now)
	switch {
	case elapsed < DepositWindow:
		return PhaseWithinWindow
	case elapsed < EpochLength:
		return PhaseWindowClosed
	default:
		return PhaseAdvanceReady
	}
}

// NextTransition returns the unix time at which the phase next changes.
// Once advance-ready the vault stays so until advanced, and the ready time is returned.
func NextTransition(lastEpochUpdate, now int64) int64 {
	switch PhaseAt(lastEpochUpdate, now) {
	case PhaseWithinWindow:
		return lastEpochUpdate + DepositWindow
	default:
		return lastEpochUpdate + EpochLength
	}
}

// AdmitDeposit fails unless the deposit window is open.
func (v *Vault) AdmitDeposit(now int64) error {
	if PhaseAt(v.LastEpochUpdate, now) != PhaseWithinWindow {
		return errors.Wrapf(ErrDepositWindowClosed, "epoch %d elapsed %ds", v.CurrentEpoch, Elapsed(v.LastEpochUpdate, now))
	}
	return nil
}

// AdmitWithdraw fails unless the withdrawal window is open.
func (v *Vault) AdmitWithdraw(now int64) error {
	if PhaseAt(v.LastEpochUpdate, now) != PhaseWithinWindow {
		return errors.Wrapf(ErrWithdrawalWindowClosed, "epoch %d elapsed %ds", v.CurrentEpoch, Elapsed(v.LastEpochUpdate, now))
	}
	return nil
}

// AdmitAdvance fails until a full epoch has elapsed.
func (v *Vault) AdmitAdvance(now int64) error {
	if PhaseAt(v.LastEpochUpdate, now) != PhaseAdvanceReady {
		return errors.Wrapf(ErrEpochNotReady, "epoch %d ready at %d", v.CurrentEpoch, v.LastEpochUpdate+EpochLength)
	}
	return nil
}

// Advance closes the current epoch at now. It is the only epoch transition.
func (v *Vault) Advance(now int64) error {
	next, err := SafeAdd(v.CurrentEpoch, 1)
	if err != nil {
		return err
	}
	v.CurrentEpoch = next
	v.LastEpochUpdate = now
	return nil
}
