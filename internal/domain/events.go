package domain

import "time"

// Event types
const (
	EventTypeGroupRecorded      = "ledger.group.recorded"
	EventTypeGroupRefunded      = "ledger.group.refunded"
	EventTypeHoldOpened         = "ledger.hold.opened"
	EventTypeHoldClosed         = "ledger.hold.closed"
	EventTypeSettlementInvoiced = "settlement.invoiced"
	EventTypeSettlementPaid     = "settlement.paid"
	EventTypeAccountCreated     = "account.created"
)

// Aggregate types
const (
	AggregateTypeGroup      = "ledger_group"
	AggregateTypeHold       = "hold"
	AggregateTypeSettlement = "settlement"
	AggregateTypeAccount    = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
