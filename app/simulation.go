package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openalpha/hedge-vault/x/vault/types"
)

// Scenario step actions
const (
	ActionFund       = "fund"
	ActionCreate     = "create"
	ActionDeposit    = "deposit"
	ActionWithdraw   = "withdraw"
	ActionPnL        = "pnl"
	ActionAdvance    = "advance"
	ActionAdvanceDue = "advance-due"
	ActionClaim      = "claim"
	ActionSwap       = "swap"
)

// Scenario is a timed script of ledger operations
type Scenario struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	Steps []Step    `json:"steps"`
}

// Step is one scenario operation. At is an offset from the scenario start in
// time.ParseDuration form, e.g. "144h". Vaults are addressed by operator.
type Step struct {
	At          string  `json:"at"`
	Action      string  `json:"action"`
	Account     string  `json:"account,omitempty"`
	Operator    string  `json:"operator,omitempty"`
	Name        string  `json:"name,omitempty"`
	Handle      string  `json:"handle,omitempty"`
	Proof       string  `json:"proof,omitempty"`
	FeeBps      uint32  `json:"fee_bps,omitempty"`
	AssetID     string  `json:"asset_id,omitempty"`
	Amount      uint64  `json:"amount,omitempty"`
	Delta       int64   `json:"delta,omitempty"`
	Observed    *uint64 `json:"observed,omitempty"`
	MinOutput   uint64  `json:"min_output,omitempty"`
	ExpectError string  `json:"expect_error,omitempty"`
}

// StepResult is the outcome of one step
type StepResult struct {
	Index  int         `json:"index"`
	Action string      `json:"action"`
	Time   time.Time   `json:"time"`
	Error  string      `json:"error,omitempty"`
	Result interface{} `json:"result,omitempty"`
}

// Report is the outcome of a scenario run
type Report struct {
	Scenario string            `json:"scenario"`
	Steps    []StepResult      `json:"steps"`
	Vaults   []*types.Vault    `json:"vaults"`
	Balances map[string]uint64 `json:"balances"`
}

// LoadScenario reads a JSON scenario file
func LoadScenario(path string) (*Scenario, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	var s Scenario
	if err := json.Unmarshal(bz, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	return &s, nil
}

// Runner executes scenarios against a VaultApp
type Runner struct {
	app *VaultApp
}

// NewRunner creates a runner over app
func NewRunner(app *VaultApp) *Runner {
	return &Runner{app: app}
}

// Run executes every step in order, committing and checking invariants after
// each one. It stops at the first step whose outcome differs from its expectation.
func (r *Runner) Run(s *Scenario) (*Report, error) {
	logger := r.app.Logger().With("scenario", s.Name)
	report := &Report{Scenario: s.Name}

	var now time.Time
	for i, step := range s.Steps {
		offset, err := time.ParseDuration(step.At)
		if err != nil {
			return report, fmt.Errorf("step %d: invalid at %q: %w", i, step.At, err)
		}
		now = s.Start.Add(offset)

		result, err := r.apply(now, step)
		res := StepResult{Index: i, Action: step.Action, Time: now, Result: result}
		if err != nil {
			res.Error = err.Error()
		}
		report.Steps = append(report.Steps, res)

		switch {
		case step.ExpectError == "" && err != nil:
			return report, fmt.Errorf("step %d (%s): %w", i, step.Action, err)
		case step.ExpectError != "" && err == nil:
			return report, fmt.Errorf("step %d (%s): expected error %q", i, step.Action, step.ExpectError)
		case step.ExpectError != "" && !strings.Contains(err.Error(), step.ExpectError):
			return report, fmt.Errorf("step %d (%s): expected error %q, got %q", i, step.Action, step.ExpectError, err)
		}

		r.app.Commit()
		if err := r.app.AssertInvariants(now); err != nil {
			return report, fmt.Errorf("after step %d (%s): %w", i, step.Action, err)
		}
		logger.Debug("step done", "index", i, "action", step.Action, "error", res.Error)
	}

	ctx := r.app.QueryContext(now)
	report.Vaults = r.app.VaultKeeper.GetAllVaults(ctx)
	report.Balances = r.app.Custody.Balances(ctx)
	return report, nil
}

func (r *Runner) apply(now time.Time, step Step) (interface{}, error) {
	vaultID := types.VaultIDForOperator(step.Operator)

	switch step.Action {
	case ActionFund:
		return nil, r.app.Fund(now, step.Account, step.Amount)

	case ActionCreate:
		proof := step.Proof
		if proof == "" {
			proof = ProofFor(step.Handle, step.Operator)
		}
		assetID := step.AssetID
		if assetID == "" {
			assetID = "uusdc"
		}
		return r.app.CreateVault(now, step.Operator, step.Name, step.Handle, proof, step.FeeBps, assetID)

	case ActionDeposit:
		return r.app.Deposit(now, vaultID, step.Account, step.Amount)

	case ActionWithdraw:
		return r.app.Withdraw(now, vaultID, step.Account, step.Amount)

	case ActionPnL:
		return nil, r.app.ApplyPnL(now, vaultID, step.Delta)

	case ActionAdvance:
		observed, err := r.observed(now, vaultID, step.Observed)
		if err != nil {
			return nil, err
		}
		return r.app.AdvanceEpoch(now, vaultID, observed)

	case ActionAdvanceDue:
		return r.app.AdvanceDue(now)

	case ActionClaim:
		caller := step.Account
		if caller == "" {
			caller = step.Operator
		}
		return r.app.ClaimFees(now, vaultID, caller)

	case ActionSwap:
		caller := step.Account
		if caller == "" {
			caller = step.Operator
		}
		return r.app.RecordSwap(now, vaultID, caller, step.Amount, step.MinOutput)

	default:
		return nil, fmt.Errorf("unknown action %q", step.Action)
	}
}

// observed defaults to the vault's custody balance
func (r *Runner) observed(now time.Time, vaultID string, explicit *uint64) (uint64, error) {
	if explicit != nil {
		return *explicit, nil
	}
	ctx := r.app.QueryContext(now)
	v := r.app.VaultKeeper.GetVault(ctx, vaultID)
	if v == nil {
		return 0, types.ErrVaultNotFound.Wrapf("vault %s", vaultID)
	}
	return r.app.Custody.Balance(ctx, v.CustodyAccount), nil
}
