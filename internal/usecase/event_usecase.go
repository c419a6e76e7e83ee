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

// EventUseCase records economic events as ledger groups.
type EventUseCase struct {
	txManager   TransactionManager
	store       LedgerStore
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	fx          FxRateProvider
	factory     *EntryFactory
	feePolicy   FeePolicy
	balances    *BalanceUseCase
	retrier     Retrier
	idGen       IDGenerator
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewEventUseCase creates a new EventUseCase. retrier and m may be nil.
func NewEventUseCase(
	txManager TransactionManager,
	store LedgerStore,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	fx FxRateProvider,
	factory *EntryFactory,
	balances *BalanceUseCase,
	retrier Retrier,
	idGen IDGenerator,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *EventUseCase {
	return &EventUseCase{
		txManager:   txManager,
		store:       store,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		fx:          fx,
		factory:     factory,
		balances:    balances,
		retrier:     retrier,
		idGen:       idGen,
		logger:      logger,
		metrics:     m,
	}
}

// Record writes the full row set of event atomically and returns the primary CREDIT row.
func (uc *EventUseCase) Record(ctx context.Context, event domain.EconomicEvent) (*domain.LedgerEntry, error) {
	start := time.Now()

	primary, err := uc.record(ctx, &event)
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.GroupsRecorded.WithLabelValues(string(event.Kind)).Inc()
		uc.metrics.EventAmount.WithLabelValues(event.Currency).Observe(float64(event.GrossAmount))
		uc.metrics.RecordDuration.Observe(time.Since(start).Seconds())
	}

	uc.logger.Info().
		Str("kind", string(event.Kind)).
		Str("source_event_id", event.SourceEventID).
		Str("group_id", primary.GroupID).
		Int64("amount", event.GrossAmount).
		Str("currency", event.Currency).
		Msg("economic event recorded")

	return primary, nil
}

func (uc *EventUseCase) record(ctx context.Context, event *domain.EconomicEvent) (*domain.LedgerEntry, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	accts, err := uc.resolveAccounts(ctx, event)
	if err != nil {
		return nil, err
	}
	if err := checkCurrencies(event, accts); err != nil {
		return nil, err
	}

	host := accts.host
	rate, err := uc.fx.Rate(ctx, event.Currency, host.Currency, domain.FxDateOf(event.OccurredAt))
	if err != nil {
		return nil, err
	}

	fees, err := uc.feePolicy.Decide(event, FeeAccounts{
		Collective: accts.payee,
		Parent:     accts.parent,
		Host:       host,
	})
	if err != nil {
		return nil, err
	}

	if event.Kind == domain.EventKindExpense && accts.payer.IsHostedBy(host.ID) {
		if err := uc.checkSpendable(ctx, event, accts.payer, fees); err != nil {
			return nil, err
		}
	}

	group := uc.factory.Build(BuildInput{
		Event:        event,
		Fees:         fees,
		HostCurrency: host.Currency,
		FxRate:       rate,
		CreatedAt:    time.Now().UTC(),
	})

	write := func() error {
		return uc.write(ctx, event, group)
	}
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, write)
	} else {
		err = write()
	}
	if err != nil {
		return nil, err
	}

	return group.Primary(), nil
}

func (uc *EventUseCase) write(ctx context.Context, event *domain.EconomicEvent, group domain.EntryGroup) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	kind := domain.PrimaryKind(event.Kind)
	exists, err := uc.store.PrimaryExists(txCtx, tx, kind, event.SourceEventID, event.IdempotencyKey)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s %s", domain.ErrDuplicateEvent, kind, event.SourceEventID)
	}

	if err := uc.store.AppendGroup(txCtx, tx, group); err != nil {
		return err
	}

	primary := group.Primary()
	outboxEvent := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   primary.GroupID,
		AggregateType: domain.AggregateTypeGroup,
		EventType:     domain.EventTypeGroupRecorded,
		Payload: map[string]any{
			"group_id":         primary.GroupID,
			"primary_entry_id": primary.ID,
			"kind":             string(event.Kind),
			"source_event_id":  event.SourceEventID,
			"amount":           event.GrossAmount,
			"currency":         event.Currency,
			"rows":             len(group),
		},
		CreatedAt: primary.CreatedAt,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, outboxEvent); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesWritten.Add(float64(len(group)))
	}

	return nil
}

type eventAccounts struct {
	payer  *domain.Account
	payee  *domain.Account
	host   *domain.Account
	parent *domain.Account
}

func (uc *EventUseCase) resolveAccounts(ctx context.Context, event *domain.EconomicEvent) (eventAccounts, error) {
	ids := []string{event.PayerAccountID, event.PayeeAccountID, event.HostAccountID}
	found, err := uc.accountRepo.GetByIDs(ctx, ids)
	if err != nil {
		return eventAccounts{}, err
	}
	for _, id := range ids {
		if found[id] == nil {
			return eventAccounts{}, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
		}
	}

	accts := eventAccounts{
		payer: found[event.PayerAccountID],
		payee: found[event.PayeeAccountID],
		host:  found[event.HostAccountID],
	}

	hosted := accts.payee
	if event.Kind == domain.EventKindExpense {
		hosted = accts.payer
	}
	if !hosted.IsHostedBy(accts.host.ID) {
		return eventAccounts{}, fmt.Errorf("%w: %s is not hosted by %s", domain.ErrInvalidEvent, hosted.ID, accts.host.ID)
	}

	if accts.payee.ParentID != "" {
		parent, err := uc.accountRepo.GetByID(ctx, accts.payee.ParentID)
		if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
			return eventAccounts{}, err
		}
		accts.parent = parent
	}

	return accts, nil
}

// checkCurrencies rejects currency mismatches between the event, the hosted
// parties and the host unless the host opted into cross-currency.
func checkCurrencies(event *domain.EconomicEvent, accts eventAccounts) error {
	host := accts.host
	if host.CrossCurrencyEnabled {
		return nil
	}

	currencies := []string{event.Currency, host.Currency}
	if accts.payee.IsHostedBy(host.ID) {
		currencies = append(currencies, accts.payee.Currency)
	}
	if accts.payer.IsHostedBy(host.ID) {
		currencies = append(currencies, accts.payer.Currency)
	}
	for _, c := range currencies[1:] {
		if c != currencies[0] {
			return fmt.Errorf("%w: %v under host %s", domain.ErrCrossCurrencyNotAllowed, currencies, host.ID)
		}
	}
	return nil
}

// checkSpendable verifies a hosted payer can cover an expense and its fee.
func (uc *EventUseCase) checkSpendable(ctx context.Context, event *domain.EconomicEvent, payer *domain.Account, fees domain.FeeDecision) error {
	balance, err := uc.balances.Balance(ctx, payer.ID, BalanceOptions{})
	if err != nil {
		return err
	}

	required := event.GrossAmount + fees.PaymentProcessorFeeAmount
	if event.Currency != payer.Currency {
		rate, err := uc.fx.Rate(ctx, event.Currency, payer.Currency, domain.FxDateOf(event.OccurredAt))
		if err != nil {
			return err
		}
		required = domain.ConvertAmount(required, rate)
	}

	if balance.Amount < required {
		return fmt.Errorf("%w: %s has %s, needs %d", domain.ErrInsufficientBalance, payer.ID, balance, required)
	}
	return nil
}

func (uc *EventUseCase) recordError(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.RecordErrors.WithLabelValues(errorType(err)).Inc()
}

// errorType buckets an error for metric labels.
func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateEvent):
		return "duplicate"
	case errors.Is(err, domain.ErrCrossCurrencyNotAllowed):
		return "cross_currency"
	case errors.Is(err, domain.ErrFxRateUnavailable):
		return "fx_unavailable"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrInvalidFeeConfiguration):
		return "fee_configuration"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrInvalidEvent), errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_event"
	default:
		return "internal"
	}
}
