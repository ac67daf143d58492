// Package metrics holds the prometheus collectors for ledger and settlement activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	WalletUser    = "user"
	WalletProgram = "program"

	TriggerAuto   = "auto"
	TriggerManual = "manual"

	OutcomeSettled = "settled"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

var (
	LedgerCredits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "questevent",
		Subsystem: "ledger",
		Name:      "credits_total",
		Help:      "Number of committed wallet credits.",
	}, []string{"wallet"})

	LedgerCreditedGems = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "questevent",
		Subsystem: "ledger",
		Name:      "credited_gems_total",
		Help:      "Gems credited to wallets.",
	}, []string{"wallet"})

	Settlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "questevent",
		Name:      "settlements_total",
		Help:      "Program settlements by trigger and outcome.",
	}, []string{"trigger", "outcome"})

	SettlementTransferredGems = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "questevent",
		Name:      "settlement_transferred_gems_total",
		Help:      "Gems swept from program wallets into user wallets.",
	})

	SettlementRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "questevent",
		Name:      "settlement_run_duration_seconds",
		Help:      "Duration of automatic settlement runs.",
		Buckets:   prometheus.DefBuckets,
	})
)
