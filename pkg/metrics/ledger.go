package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records balance-affecting operations.
type LedgerMetrics struct {
	webhookEvents *prometheus.CounterVec
	credits       prometheus.Counter
	debits        prometheus.Counter
	rejections    *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Gateway webhook events by outcome.",
	}, []string{"outcome"})
	credits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shard_credits_total",
		Help: "Shard credits applied to user balances.",
	})
	debits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shard_debits_total",
		Help: "Shard debits applied to user balances.",
	})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "unlock_rejections_total",
		Help: "Rejected unlock attempts by reason.",
	}, []string{"reason"})
	reg.MustRegister(webhookEvents, credits, debits, rejections)
	return &LedgerMetrics{
		webhookEvents: webhookEvents,
		credits:       credits,
		debits:        debits,
		rejections:    rejections,
	}
}

// ObserveWebhookEvent counts one webhook delivery outcome.
func (m *LedgerMetrics) ObserveWebhookEvent(outcome string) {
	if m == nil || m.webhookEvents == nil {
		return
	}
	m.webhookEvents.WithLabelValues(outcome).Inc()
}

// IncCredit counts one applied balance credit.
func (m *LedgerMetrics) IncCredit() {
	if m == nil || m.credits == nil {
		return
	}
	m.credits.Inc()
}

// IncDebit counts one applied balance debit.
func (m *LedgerMetrics) IncDebit() {
	if m == nil || m.debits == nil {
		return
	}
	m.debits.Inc()
}

// IncRejection counts one rejected unlock attempt.
func (m *LedgerMetrics) IncRejection(reason string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}
