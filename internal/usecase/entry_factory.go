package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/hostledger/internal/domain"
)

// EntryFactory turns an economic event and its fee decision into matched
// CREDIT/DEBIT pairs sharing one group id.
type EntryFactory struct {
	policy domain.LedgerPolicy
	idGen  IDGenerator
}

// NewEntryFactory creates a new EntryFactory.
func NewEntryFactory(policy domain.LedgerPolicy, idGen IDGenerator) *EntryFactory {
	return &EntryFactory{policy: policy, idGen: idGen}
}

// Policy returns the ledger toggles the factory applies.
func (f *EntryFactory) Policy() domain.LedgerPolicy {
	return f.policy
}

// BuildInput carries everything the factory needs; no lookups happen inside.
type BuildInput struct {
	Event        *domain.EconomicEvent
	Fees         domain.FeeDecision
	HostCurrency string
	FxRate       decimal.Decimal
	CreatedAt    time.Time
}

// leg is one conceptual movement: payee gains amount, payer loses it.
// Folded amounts reduce the net of the corresponding row only.
type leg struct {
	kind         domain.EntryKind
	payee        string
	payer        string
	amount       int64
	creditFolded int64
	debitFolded  int64
	settlement   domain.SettlementStatus
}

// Build returns the full row set of the event, primary pair first.
func (f *EntryFactory) Build(in BuildInput) domain.EntryGroup {
	ev := in.Event
	fees := in.Fees
	host := ev.HostAccountID

	var legs []leg
	if ev.Kind == domain.EventKindExpense {
		primary := leg{
			kind:   domain.KindExpense,
			payee:  ev.PayeeAccountID,
			payer:  ev.PayerAccountID,
			amount: ev.GrossAmount,
		}
		if f.policy.SeparatePaymentProcessorFees {
			legs = append(legs, primary, leg{
				kind:   domain.KindPaymentProcessorFee,
				payee:  f.policy.PaymentProcessorAccountID,
				payer:  ev.PayerAccountID,
				amount: fees.PaymentProcessorFeeAmount,
			})
		} else {
			primary.debitFolded = fees.PaymentProcessorFeeAmount
			legs = append(legs, primary)
		}
	} else {
		collective := ev.PayeeAccountID
		primary := leg{
			kind:   domain.PrimaryKind(ev.Kind),
			payee:  collective,
			payer:  ev.PayerAccountID,
			amount: ev.GrossAmount - fees.PlatformTipAmount,
		}
		if !f.policy.SeparateTaxes {
			primary.creditFolded += fees.TaxAmount
		}
		if !f.policy.SeparatePaymentProcessorFees {
			primary.creditFolded += fees.PaymentProcessorFeeAmount
		}
		legs = append(legs, primary)

		legs = append(legs, leg{
			kind:   domain.KindPlatformTip,
			payee:  f.policy.PlatformAccountID,
			payer:  ev.PayerAccountID,
			amount: fees.PlatformTipAmount,
		})
		if fees.PlatformTipIsDebt {
			legs = append(legs, leg{
				kind:       domain.KindPlatformTipDebt,
				payee:      host,
				payer:      f.policy.PlatformAccountID,
				amount:     fees.PlatformTipAmount,
				settlement: domain.SettlementPending,
			})
		}

		legs = append(legs, leg{
			kind:   domain.KindHostFee,
			payee:  host,
			payer:  collective,
			amount: fees.HostFeeAmount,
		})

		legs = append(legs, leg{
			kind:   domain.KindHostFeeShare,
			payee:  f.policy.PlatformAccountID,
			payer:  host,
			amount: fees.HostFeeShareAmount,
		})
		if fees.HostFeeShareIsDebt {
			legs = append(legs, leg{
				kind:       domain.KindHostFeeShareDebt,
				payee:      host,
				payer:      f.policy.PlatformAccountID,
				amount:     fees.HostFeeShareAmount,
				settlement: domain.SettlementPending,
			})
		}

		if f.policy.SeparatePaymentProcessorFees {
			legs = append(legs, leg{
				kind:   domain.KindPaymentProcessorFee,
				payee:  f.policy.PaymentProcessorAccountID,
				payer:  collective,
				amount: fees.PaymentProcessorFeeAmount,
			})
		}
		if f.policy.SeparateTaxes {
			legs = append(legs, leg{
				kind:   domain.KindTax,
				payee:  host,
				payer:  collective,
				amount: fees.TaxAmount,
			})
		}
	}

	groupID := f.idGen.GenerateGroupID()
	group := make(domain.EntryGroup, 0, 2*len(legs))
	for i, l := range legs {
		if l.amount == 0 {
			continue
		}
		credit, debit := f.pair(groupID, in, l)
		if i == 0 {
			credit.IdempotencyKey = ev.IdempotencyKey
		}
		group = append(group, credit, debit)
	}

	return group
}

// appendLeg adds a pair to an existing group, used for fees charged on
// reversal groups.
func (f *EntryFactory) appendLeg(group domain.EntryGroup, groupID string, in BuildInput, l leg) domain.EntryGroup {
	if l.amount == 0 {
		return group
	}
	credit, debit := f.pair(groupID, in, l)
	return append(group, credit, debit)
}

func (f *EntryFactory) pair(groupID string, in BuildInput, l leg) (*domain.LedgerEntry, *domain.LedgerEntry) {
	ev := in.Event
	inHost := domain.ConvertAmount(l.amount, in.FxRate)

	credit := &domain.LedgerEntry{
		ID:                            f.idGen.Generate(),
		GroupID:                       groupID,
		Direction:                     domain.DirectionCredit,
		Kind:                          l.kind,
		Amount:                        l.amount,
		Currency:                      ev.Currency,
		AmountInHostCurrency:          inHost,
		HostCurrency:                  in.HostCurrency,
		HostCurrencyFxRate:            in.FxRate,
		NetAmountInCollectiveCurrency: l.amount - l.creditFolded,
		NetAmountInHostCurrency:       inHost - domain.ConvertAmount(l.creditFolded, in.FxRate),
		PayerAccountID:                l.payer,
		PayeeAccountID:                l.payee,
		HostAccountID:                 ev.HostAccountID,
		SourceEventID:                 ev.SourceEventID,
		Description:                   ev.Description,
		SettlementStatus:              l.settlement,
		CreatedAt:                     in.CreatedAt,
	}

	debit := &domain.LedgerEntry{
		ID:                            f.idGen.Generate(),
		GroupID:                       groupID,
		Direction:                     domain.DirectionDebit,
		Kind:                          l.kind,
		Amount:                        -l.amount,
		Currency:                      ev.Currency,
		AmountInHostCurrency:          -inHost,
		HostCurrency:                  in.HostCurrency,
		HostCurrencyFxRate:            in.FxRate,
		NetAmountInCollectiveCurrency: -(l.amount + l.debitFolded),
		NetAmountInHostCurrency:       -(inHost + domain.ConvertAmount(l.debitFolded, in.FxRate)),
		PayerAccountID:                l.payee,
		PayeeAccountID:                l.payer,
		HostAccountID:                 ev.HostAccountID,
		SourceEventID:                 ev.SourceEventID,
		Description:                   ev.Description,
		SettlementStatus:              l.settlement,
		CreatedAt:                     in.CreatedAt,
	}

	credit.MirrorEntryID = debit.ID
	debit.MirrorEntryID = credit.ID

	return credit, debit
}

// ReverseInput describes a (possibly partial) reversal of a recorded group.
type ReverseInput struct {
	Original domain.EntryGroup
	// Refunded is the part of the primary amount reversed by earlier refunds.
	Refunded int64
	// Amount is the part of the primary amount being reversed. Zero writes
	// only the fee pairs.
	Amount int64
	// ProcessorFeeAmount is kept by the processor on refund and charged to the host.
	ProcessorFeeAmount int64
	// DisputeFeeAmount is charged to the host when a dispute is lost.
	DisputeFeeAmount int64
	Description      string
	CreatedAt        time.Time
}

// Reverse mirrors every row of the original group with negated amounts scaled
// by Amount over the primary amount, then appends the host-charged fee pairs.
// Debt rows of the reversal start PENDING so settlement nets them again.
//
// Each leg is scaled on the cumulative refunded amount, so installments that
// add up to the primary amount cancel the original exactly.
func (f *EntryFactory) Reverse(in ReverseInput) domain.EntryGroup {
	primary := in.Original.Primary()
	groupID := f.idGen.GenerateGroupID()
	before, after := in.Refunded, in.Refunded+in.Amount

	scale := func(v int64) int64 {
		return domain.ScaleAmount(v, before, primary.Amount) - domain.ScaleAmount(v, after, primary.Amount)
	}

	mirrored := in.Original
	if in.Amount == 0 {
		mirrored = nil
	}
	ids := make(map[string]string, len(mirrored))
	for _, e := range mirrored {
		ids[e.ID] = f.idGen.Generate()
	}


	description := in.Description
	if description == "" {
		description = "Refund: " + primary.Description
	}


	group := make(domain.EntryGroup, 0, len(in.Original)+4)
	for _, e := range mirrored {
		direction := domain.DirectionDebit
		if e.Direction == domain.DirectionDebit {
			direction = domain.DirectionCredit
		}
		status := domain.SettlementNone
		if e.Kind.IsDebt() {
			status = domain.SettlementPending
		}

		group = append(group, &domain.LedgerEntry{
			ID:                            ids[e.ID],
			GroupID:                       groupID,
			Direction:                     direction,
			Kind:                          e.Kind,
			Amount:                        scale(e.Amount),
			Currency:                      e.Currency,
			AmountInHostCurrency:          scale(e.AmountInHostCurrency),
			HostCurrency:                  e.HostCurrency,
			HostCurrencyFxRate:            e.HostCurrencyFxRate,
			NetAmountInCollectiveCurrency: scale(e.NetAmountInCollectiveCurrency),
			NetAmountInHostCurrency:       scale(e.NetAmountInHostCurrency),
			PayerAccountID:                e.PayerAccountID,
			PayeeAccountID:                e.PayeeAccountID,
			HostAccountID:                 e.HostAccountID,
			SourceEventID:                 e.SourceEventID,
			MirrorEntryID:                 ids[e.MirrorEntryID],
			ReversalOfEntryID:             primary.ID,
			Description:                   description,
			IsRefund:                      true,
			SettlementStatus:              status,
			CreatedAt:                     in.CreatedAt,
		})
	}

	feeIn := BuildInput{
		Event: &domain.EconomicEvent{
			Currency:      primary.Currency,
			HostAccountID: primary.HostAccountID,
			SourceEventID: primary.SourceEventID,
			Description:   description,
		},
		HostCurrency: primary.HostCurrency,
		FxRate:       primary.HostCurrencyFxRate,
		CreatedAt:    in.CreatedAt,
	}
	group = f.appendLeg(group, groupID, feeIn, leg{
		kind:   domain.KindPaymentProcessorFee,
		payee:  f.policy.PaymentProcessorAccountID,
		payer:  primary.HostAccountID,
		amount: in.ProcessorFeeAmount,
	})
	group = f.appendLeg(group, groupID, feeIn, leg{
		kind:   domain.KindPaymentProcessorDisputeFee,
		payee:  f.policy.PaymentProcessorAccountID,
		payer:  primary.HostAccountID,
		amount: in.DisputeFeeAmount,
	})

	for _, e := range group {
		e.ReversalOfEntryID = primary.ID
		e.IsRefund = true
	}

	return group
}
