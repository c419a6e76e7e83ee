package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/infrastructure/metrics"
)

// ReversalUseCase refunds recorded groups and runs dispute and review holds.
type ReversalUseCase struct {
	txManager        TransactionManager
	store            LedgerStore
	accountRepo      AccountRepository
	holdRepo         HoldRepository
	subscriptionRepo SubscriptionRepository
	outboxRepo       OutboxRepository
	factory          *EntryFactory
	balances         *BalanceUseCase
	idGen            IDGenerator
	logger           zerolog.Logger
	metrics          *metrics.Metrics
}

// NewReversalUseCase creates a new ReversalUseCase. subscriptionRepo and m may be nil.
func NewReversalUseCase(
	txManager TransactionManager,
	store LedgerStore,
	accountRepo AccountRepository,
	holdRepo HoldRepository,
	subscriptionRepo SubscriptionRepository,
	outboxRepo OutboxRepository,
	factory *EntryFactory,
	balances *BalanceUseCase,
	idGen IDGenerator,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *ReversalUseCase {
	return &ReversalUseCase{
		txManager:        txManager,
		store:            store,
		accountRepo:      accountRepo,
		holdRepo:         holdRepo,
		subscriptionRepo: subscriptionRepo,
		outboxRepo:       outboxRepo,
		factory:          factory,
		balances:         balances,
		idGen:            idGen,
		logger:           logger,
		metrics:          m,
	}
}

// RefundInput represents input for refunding a recorded event.
type RefundInput struct {
	// EntryID is the primary CREDIT row of the event.
	EntryID string
	// Amount defaults to everything not refunded yet.
	Amount *int64
	// ProcessorFeeAmount is what the processor keeps on refund, charged to the host.
	ProcessorFeeAmount int64
	Description        string
}

type refundOptions struct {
	skipBalanceCheck bool
	disputeFeeAmount int64
	// closingHold lets the hold that blocks the group refund it. A fully
	// refunded group then only gets its fee pairs.
	closingHold bool
}

// Refund writes a reversal group for the event and returns it.
func (uc *ReversalUseCase) Refund(ctx context.Context, in RefundInput) (domain.EntryGroup, error) {
	return uc.refund(ctx, in, refundOptions{})
}

func (uc *ReversalUseCase) refund(ctx context.Context, in RefundInput, opts refundOptions) (domain.EntryGroup, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	reversal, err := uc.refundTx(txCtx, tx, in, opts)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.observeRefund(in, reversal)
	return reversal, nil
}

// refundTx locks the original group and appends its reversal inside tx.
func (uc *ReversalUseCase) refundTx(ctx context.Context, tx Transaction, in RefundInput, opts refundOptions) (domain.EntryGroup, error) {
	if in.ProcessorFeeAmount < 0 || opts.disputeFeeAmount < 0 {
		return nil, fmt.Errorf("%w: fees cannot be negative", domain.ErrInvalidAmount)
	}

	primary, err := uc.store.GetByID(ctx, in.EntryID)
	if err != nil {
		return nil, err
	}
	if !primary.IsPrimaryCredit() || primary.ReversalOfEntryID != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotPrimaryEntry, in.EntryID)
	}

	original, err := uc.store.GetGroupForUpdate(ctx, tx, primary.GroupID)
	if err != nil {
		return nil, err
	}
	if original.Blocked() && !opts.closingHold {
		return nil, fmt.Errorf("%w: %s", domain.ErrGroupOnHold, primary.GroupID)
	}

	refunded, err := uc.store.RefundedAmount(ctx, tx, primary.ID)
	if err != nil {
		return nil, err
	}
	remaining := primary.Amount - refunded
	if remaining <= 0 && !opts.closingHold {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyRefunded, primary.ID)
	}

	amount := max(remaining, 0)
	if in.Amount != nil {
		amount = *in.Amount
		if amount <= 0 {
			return nil, domain.ErrInvalidAmount
		}
		if amount > remaining {
			return nil, fmt.Errorf("%w: %d requested, %d refundable", domain.ErrInvalidRefundAmount, amount, remaining)
		}
	}

	reversal := uc.factory.Reverse(ReverseInput{
		Original:           original,
		Refunded:           refunded,
		Amount:             amount,
		ProcessorFeeAmount: in.ProcessorFeeAmount,
		DisputeFeeAmount:   opts.disputeFeeAmount,
		Description:        in.Description,
		CreatedAt:          time.Now().UTC(),
	})

	if len(reversal) == 0 {
		return nil, nil
	}

	if !opts.skipBalanceCheck && amount > 0 {
		if err := uc.checkRefundable(ctx, primary, original.Blocked(), reversal); err != nil {
			return nil, err
		}
	}

	if err := uc.store.AppendGroup(ctx, tx, reversal); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   reversal[0].GroupID,
		AggregateType: domain.AggregateTypeGroup,
		EventType:     domain.EventTypeGroupRefunded,
		Payload: map[string]any{
			"group_id":          reversal[0].GroupID,
			"original_group_id": primary.GroupID,
			"primary_entry_id":  primary.ID,
			"source_event_id":   primary.SourceEventID,
			"amount":            amount,
			"currency":          primary.Currency,
			"full":              amount == remaining,
			"fees_only":         amount == 0,
		},
		CreatedAt: reversal[0].CreatedAt,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	return reversal, nil
}

// checkRefundable refuses a reversal that would leave the hosted payee negative.
func (uc *ReversalUseCase) checkRefundable(ctx context.Context, primary *domain.LedgerEntry, blocked bool, reversal domain.EntryGroup) error {
	payee, err := uc.accountRepo.GetByID(ctx, primary.PayeeAccountID)
	if err != nil {
		return err
	}
	if !payee.IsHostedBy(primary.HostAccountID) {
		return nil
	}

	balance, err := uc.balances.Balance(ctx, payee.ID, BalanceOptions{IncludeBlocked: blocked})
	if err != nil {
		return err
	}
	delta, err := uc.balances.sum(ctx, payee.Currency, bucketsOf(reversal, payee.ID))
	if err != nil {
		return err
	}

	after, err := balance.Add(delta)
	if err != nil {
		return err
	}
	if after.IsNegative() {
		return fmt.Errorf("%w: %s has %s, refund takes %d", domain.ErrInsufficientBalance, payee.ID, balance, -delta.Amount)
	}
	return nil
}

// bucketsOf groups the nets of rows owned by accountID the way BalanceBuckets does.
func bucketsOf(group domain.EntryGroup, accountID string) []BalanceBucket {
	index := make(map[[2]string]int)
	var buckets []BalanceBucket
	for _, e := range group {
		if e.PayeeAccountID != accountID {
			continue
		}
		key := [2]string{e.Currency, e.HostCurrency}
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, BalanceBucket{Currency: e.Currency, HostCurrency: e.HostCurrency})
		}
		buckets[i].NetAmount += e.NetAmountInCollectiveCurrency
		buckets[i].NetAmountInHostCurrency += e.NetAmountInHostCurrency
	}
	return buckets
}

func (uc *ReversalUseCase) observeRefund(in RefundInput, reversal domain.EntryGroup) {
	scope := "full"
	if in.Amount != nil {
		scope = "partial"
	}
	if uc.metrics != nil {
		uc.metrics.Refunds.WithLabelValues(scope).Inc()
	}
	uc.logger.Info().
		Str("entry_id", in.EntryID).
		Str("group_id", reversal[0].GroupID).
		Str("scope", scope).
		Int("rows", len(reversal)).
		Msg("refund recorded")
}

// CreateDispute blocks the funds of the event until the dispute closes and
// stops the recurring contribution that produced it.
func (uc *ReversalUseCase) CreateDispute(ctx context.Context, entryID, processorReference string) (*domain.Hold, error) {
	return uc.openHold(ctx, entryID, domain.HoldKindDispute, processorReference)
}

// OpenReview blocks the funds of the event while it is reviewed for fraud.
func (uc *ReversalUseCase) OpenReview(ctx context.Context, entryID, processorReference string) (*domain.Hold, error) {
	return uc.openHold(ctx, entryID, domain.HoldKindReview, processorReference)
}

func (uc *ReversalUseCase) openHold(ctx context.Context, entryID string, kind domain.HoldKind, processorReference string) (*domain.Hold, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	primary, err := uc.store.GetByID(txCtx, entryID)
	if err != nil {
		return nil, err
	}
	if !primary.IsPrimaryCredit() || primary.ReversalOfEntryID != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotPrimaryEntry, entryID)
	}

	group, err := uc.store.GetGroupForUpdate(txCtx, tx, primary.GroupID)
	if err != nil {
		return nil, err
	}
	if group.Blocked() {
		return nil, fmt.Errorf("%w: %s", domain.ErrHoldExists, primary.GroupID)
	}

	refunded, err := uc.store.RefundedAmount(txCtx, tx, primary.ID)
	if err != nil {
		return nil, err
	}
	if refunded >= primary.Amount {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyRefunded, primary.ID)
	}

	now := time.Now().UTC()
	hold := &domain.Hold{
		ID:                 uc.idGen.Generate(),
		GroupID:            primary.GroupID,
		PrimaryEntryID:     primary.ID,
		Kind:               kind,
		Status:             domain.HoldStatusActive,
		ProcessorReference: processorReference,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.holdRepo.Create(txCtx, tx, hold); err != nil {
		return nil, err
	}

	if err := uc.markBlocked(txCtx, tx, hold, true); err != nil {
		return nil, err
	}

	if kind == domain.HoldKindDispute && uc.subscriptionRepo != nil {
		deactivated, err := uc.subscriptionRepo.DeactivateBySourceEvent(txCtx, tx, primary.SourceEventID, now)
		if err != nil {
			return nil, err
		}
		if deactivated {
			uc.logger.Info().Str("source_event_id", primary.SourceEventID).Msg("subscription deactivated after dispute")
		}
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   hold.ID,
		AggregateType: domain.AggregateTypeHold,
		EventType:     domain.EventTypeHoldOpened,
		Payload: map[string]any{
			"hold_id":          hold.ID,
			"group_id":         hold.GroupID,
			"primary_entry_id": hold.PrimaryEntryID,
			"kind":             string(hold.Kind),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.HoldsOpened.WithLabelValues(string(kind)).Inc()
	}

	return hold, nil
}

func (uc *ReversalUseCase) markBlocked(ctx context.Context, tx Transaction, hold *domain.Hold, blocked bool) error {
	if hold.Kind == domain.HoldKindDispute {
		return uc.store.MarkDisputed(ctx, tx, hold.GroupID, blocked)
	}
	return uc.store.MarkInReview(ctx, tx, hold.GroupID, blocked)
}

// CloseHoldInput represents input for closing a dispute or review.
type CloseHoldInput struct {
	HoldID  string
	Outcome domain.Outcome
	// FeeAmount is the dispute fee on a lost dispute, or the processor
	// refund fee on a refunded review.
	FeeAmount int64
}

// CloseHoldResult carries the closed hold and the reversal it caused, if any.
type CloseHoldResult struct {
	Hold     *domain.Hold
	Reversal domain.EntryGroup
}

// CloseHold applies outcome to an active hold, refunding the group when the
// outcome requires it, and unblocks the group.
func (uc *ReversalUseCase) CloseHold(ctx context.Context, in CloseHoldInput) (*CloseHoldResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	hold, err := uc.holdRepo.GetByIDForUpdate(txCtx, tx, in.HoldID)
	if err != nil {
		return nil, err
	}

	transition, err := hold.Transition(in.Outcome)
	if err != nil {
		return nil, err
	}

	result := &CloseHoldResult{Hold: hold}
	if transition.Refund {
		refund := RefundInput{EntryID: hold.PrimaryEntryID}
		opts := refundOptions{skipBalanceCheck: transition.SkipBalanceCheck, closingHold: true}
		if transition.ChargeDisputeFee {
			opts.disputeFeeAmount = in.FeeAmount
		} else {
			refund.ProcessorFeeAmount = in.FeeAmount
		}

		// Refund while the group is still blocked so the balance check counts its funds.
		result.Reversal, err = uc.refundTx(txCtx, tx, refund, opts)
		if err != nil {
			return nil, err
		}
	}

	if err := uc.markBlocked(txCtx, tx, hold, false); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	hold.Close(in.Outcome, transition, now)
	if err := uc.holdRepo.Update(txCtx, tx, hold); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   hold.ID,
		AggregateType: domain.AggregateTypeHold,
		EventType:     domain.EventTypeHoldClosed,
		Payload: map[string]any{
			"hold_id":  hold.ID,
			"group_id": hold.GroupID,
			"kind":     string(hold.Kind),
			"outcome":  string(hold.Outcome),
			"status":   string(hold.Status),
			"refunded": transition.Refund,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.HoldsClosed.WithLabelValues(string(hold.Kind), string(hold.Outcome)).Inc()
		uc.metrics.HoldDuration.Observe(now.Sub(hold.CreatedAt).Seconds())
	}
	if result.Reversal != nil {
		uc.observeRefund(RefundInput{EntryID: hold.PrimaryEntryID}, result.Reversal)
	}

	return result, nil
}

// PaymentNotification is a processor webhook normalized by the relay.
type PaymentNotification struct {
	ChargeOrTransferID string
	SourceEventID      string
	Outcome            domain.PaymentOutcome
	FeeAmount          int64
}

// PaymentNotificationResult reports what a notification changed.
type PaymentNotificationResult struct {
	Action   string
	Hold     *domain.Hold
	Reversal domain.EntryGroup
}

// Actions reported by HandlePaymentNotification.
const (
	ActionIgnored    = "ignored"
	ActionRefunded   = "refunded"
	ActionHoldOpened = "hold_opened"
	ActionHoldClosed = "hold_closed"
)

// HandlePaymentNotification routes a processor notification to the refund and hold operations.
// Successful charges are recorded by the order executor, not here.
func (uc *ReversalUseCase) HandlePaymentNotification(ctx context.Context, n PaymentNotification) (*PaymentNotificationResult, error) {
	if n.Outcome == domain.PaymentSucceeded {
		return &PaymentNotificationResult{Action: ActionIgnored}, nil
	}

	primary, err := uc.store.FindPrimary(ctx, n.SourceEventID, n.ChargeOrTransferID)
	if err != nil {
		return nil, err
	}

	log := uc.logger.With().
		Str("outcome", string(n.Outcome)).
		Str("entry_id", primary.ID).
		Str("charge_id", n.ChargeOrTransferID).
		Logger()

	switch n.Outcome {
	case domain.PaymentFailed:
		reversal, err := uc.refund(ctx, RefundInput{EntryID: primary.ID}, refundOptions{skipBalanceCheck: true})
		if errors.Is(err, domain.ErrAlreadyRefunded) {
			log.Info().Msg("failed payment already refunded")
			return &PaymentNotificationResult{Action: ActionIgnored}, nil
		}
		if err != nil {
			return nil, err
		}
		return &PaymentNotificationResult{Action: ActionRefunded, Reversal: reversal}, nil

	case domain.PaymentDisputed, domain.PaymentReviewed:
		kind := domain.HoldKindDispute
		if n.Outcome == domain.PaymentReviewed {
			kind = domain.HoldKindReview
		}
		hold, err := uc.openHold(ctx, primary.ID, kind, n.ChargeOrTransferID)
		if err != nil {
			return nil, err
		}
		log.Info().Str("hold_id", hold.ID).Msg("hold opened")
		return &PaymentNotificationResult{Action: ActionHoldOpened, Hold: hold}, nil
	}

	outcome, ok := n.Outcome.HoldOutcome()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidOutcome, n.Outcome)
	}

	hold, err := uc.holdRepo.GetActiveByGroup(ctx, primary.GroupID)
	if err != nil {
		return nil, err
	}

	result, err := uc.CloseHold(ctx, CloseHoldInput{HoldID: hold.ID, Outcome: outcome, FeeAmount: n.FeeAmount})
	if err != nil {
		return nil, err
	}
	log.Info().Str("hold_id", hold.ID).Str("status", string(result.Hold.Status)).Msg("hold closed")

	return &PaymentNotificationResult{Action: ActionHoldClosed, Hold: result.Hold, Reversal: result.Reversal}, nil
}
