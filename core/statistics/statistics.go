package statistics

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
)

// Data holds the operational metrics of the vault engine.
type Data struct {
	depositsTotal  prometheus.Counter
	withdrawsTotal prometheus.Counter
	capacityClamps prometheus.Counter
	totalCustodied prometheus.Gauge
}

// New creates the metric set and registers it on the given registerer.
func New(registerer prometheus.Registerer) *Data {
	data := &Data{
		depositsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vault_deposits_total",
			Help: "Number of completed deposits",
		}),
		withdrawsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vault_withdraws_total",
			Help: "Number of completed withdrawals",
		}),
		capacityClamps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vault_capacity_clamps_total",
			Help: "Number of capacity releases saturated at zero",
		}),
		totalCustodied: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vault_total_custodied",
			Help: "Total custodied value in settlement units",
		}),
	}

	registerer.MustRegister(data.depositsTotal, data.withdrawsTotal, data.capacityClamps, data.totalCustodied)

	return data
}

func (d *Data) IncDeposit() {
	if d == nil {
		return
	}
	d.depositsTotal.Inc()
}

func (d *Data) IncWithdraw() {
	if d == nil {
		return
	}
	d.withdrawsTotal.Inc()
}

func (d *Data) IncCapacityClamp() {
	if d == nil {
		return
	}
	d.capacityClamps.Inc()
}

func (d *Data) SetTotalCustodied(total *big.Int) {
	if d == nil {
		return
	}
	value, _ := new(big.Float).SetInt(total).Float64()
	d.totalCustodied.Set(value)
}
