package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every vault ledger metric.
const DefaultNamespace = "hedgevault"

// Operation results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds the vault ledger metrics. A nil *Collector records nothing.
type Collector struct {
	// Operation metrics
	OperationsTotal  *prometheus.CounterVec
	OperationLatency *prometheus.HistogramVec

	// Flow metrics
	DepositedAssets *prometheus.CounterVec
	WithdrawnAssets *prometheus.CounterVec
	MintedShares    *prometheus.CounterVec
	BurnedShares    *prometheus.CounterVec

	// Fee metrics
	FeesAccrued *prometheus.CounterVec
	FeesClaimed *prometheus.CounterVec

	// Swap metrics
	SwapsTotal *prometheus.CounterVec
	SwapInput  *prometheus.CounterVec
	SwapOutput *prometheus.CounterVec

	// Vault state
	TotalAssets  *prometheus.GaugeVec
	TotalShares  *prometheus.GaugeVec
	AccruedFees  *prometheus.GaugeVec
	CurrentEpoch *prometheus.GaugeVec
	VaultsTotal  prometheus.Gauge
}

// GetCollector returns the singleton collector registered on the default registry
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = NewCollector(DefaultNamespace, prometheus.DefaultRegisterer)
	})
	return collector
}

// NewCollector creates a collector and registers it on reg.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	c := &Collector{}

	c.OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by type and result",
		},
		[]string{"operation", "result"},
	)

	c.OperationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operation_latency_ms",
			Help:      "Ledger operation latency in milliseconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		},
		[]string{"operation"},
	)

	c.DepositedAssets = newAssetCounter(namespace, "flows", "deposited_assets_total", "Assets deposited into vault custody")
	c.WithdrawnAssets = newAssetCounter(namespace, "flows", "withdrawn_assets_total", "Assets withdrawn from vault custody")
	c.MintedShares = newAssetCounter(namespace, "flows", "minted_shares_total", "Shares minted on deposit")
	c.BurnedShares = newAssetCounter(namespace, "flows", "burned_shares_total", "Shares burned on withdrawal")
	c.FeesAccrued = newAssetCounter(namespace, "fees", "accrued_total", "Performance fees accrued on epoch advance")
	c.FeesClaimed = newAssetCounter(namespace, "fees", "claimed_total", "Performance fees paid to operators")
	c.SwapsTotal = newAssetCounter(namespace, "swaps", "total", "Operator swaps recorded")
	c.SwapInput = newAssetCounter(namespace, "swaps", "input_total", "Swap input amount")
	c.SwapOutput = newAssetCounter(namespace, "swaps", "output_total", "Swap realized output amount")

	c.TotalAssets = newVaultGauge(namespace, "total_assets", "Recorded pool assets")
	c.TotalShares = newVaultGauge(namespace, "total_shares", "Outstanding shares")
	c.AccruedFees = newVaultGauge(namespace, "accrued_fees", "Unclaimed performance fees")
	c.CurrentEpoch = newVaultGauge(namespace, "current_epoch", "Current epoch number")

	c.VaultsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "count",
			Help:      "Number of vaults",
		},
	)

	c.registerAll(reg)
	return c
}

func newAssetCounter(namespace, subsystem, name, help string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		},
		[]string{"vault_id"},
	)
}

func newVaultGauge(namespace, name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      name,
			Help:      help,
		},
		[]string{"vault_id"},
	)
}

// registerAll registers all metrics
func (c *Collector) registerAll(reg prometheus.Registerer) {
	reg.MustRegister(
		c.OperationsTotal,
		c.OperationLatency,
		c.DepositedAssets,
		c.WithdrawnAssets,
		c.MintedShares,
		c.BurnedShares,
		c.FeesAccrued,
		c.FeesClaimed,
		c.SwapsTotal,
		c.SwapInput,
		c.SwapOutput,
		c.TotalAssets,
		c.TotalShares,
		c.AccruedFees,
		c.CurrentEpoch,
		c.VaultsTotal,
	)
}

// ============ Recording Helpers ============

// RecordOperation records the result and latency of a ledger operation
func (c *Collector) RecordOperation(operation string, err error, latencyMs float64) {
	if c == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	c.OperationsTotal.WithLabelValues(operation, result).Inc()
	c.OperationLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordDeposit records a committed deposit
func (c *Collector) RecordDeposit(vaultID string, amount, shares uint64) {
	if c == nil {
		return
	}
	c.DepositedAssets.WithLabelValues(vaultID).Add(float64(amount))
	c.MintedShares.WithLabelValues(vaultID).Add(float64(shares))
}

// RecordWithdrawal records a committed withdrawal
func (c *Collector) RecordWithdrawal(vaultID string, amount, shares uint64) {
	if c == nil {
		return
	}
	c.WithdrawnAssets.WithLabelValues(vaultID).Add(float64(amount))
	c.BurnedShares.WithLabelValues(vaultID).Add(float64(shares))
}

// RecordFeeAccrual records the fee accrued by an epoch advance
func (c *Collector) RecordFeeAccrual(vaultID string, fee uint64) {
	if c == nil {
		return
	}
	c.FeesAccrued.WithLabelValues(vaultID).Add(float64(fee))
}

// RecordFeeClaim records a fee payout
func (c *Collector) RecordFeeClaim(vaultID string, amount uint64) {
	if c == nil {
		return
	}
	c.FeesClaimed.WithLabelValues(vaultID).Add(float64(amount))
}

// RecordSwap records an executed swap
func (c *Collector) RecordSwap(vaultID string, input, output uint64) {
	if c == nil {
		return
	}
	c.SwapsTotal.WithLabelValues(vaultID).Inc()
	c.SwapInput.WithLabelValues(vaultID).Add(float64(input))
	c.SwapOutput.WithLabelValues(vaultID).Add(float64(output))
}

// UpdateVault sets the state gauges of one vault
func (c *Collector) UpdateVault(vaultID string, totalAssets, totalShares, accruedFees, epoch uint64) {
	if c == nil {
		return
	}
	c.TotalAssets.WithLabelValues(vaultID).Set(float64(totalAssets))
	c.TotalShares.WithLabelValues(vaultID).Set(float64(totalShares))
	c.AccruedFees.WithLabelValues(vaultID).Set(float64(accruedFees))
	c.CurrentEpoch.WithLabelValues(vaultID).Set(float64(epoch))
}

// SetVaultCount sets the number of vaults
func (c *Collector) SetVaultCount(n int) {
	if c == nil {
		return
	}
	c.VaultsTotal.Set(float64(n))
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
