package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/infrastructure/metrics"
)

// SettlementUseCase invoices and pays what hosts owe the platform for debts
// the platform could not collect at charge time.
type SettlementUseCase struct {
	txManager      TransactionManager
	store          LedgerStore
	accountRepo    AccountRepository
	settlementRepo SettlementRepository
	outboxRepo     OutboxRepository
	factory        *EntryFactory
	idGen          IDGenerator
	concurrency    int
	logger         zerolog.Logger
	metrics        *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase. concurrency bounds
// how many hosts settle in parallel.
func NewSettlementUseCase(
	txManager TransactionManager,
	store LedgerStore,
	accountRepo AccountRepository,
	settlementRepo SettlementRepository,
	outboxRepo OutboxRepository,
	factory *EntryFactory,
	idGen IDGenerator,
	concurrency int,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *SettlementUseCase {
	if concurrency <= 0 {
		concurrency = DefaultSettlementConcurrency
	}
	return &SettlementUseCase{
		txManager:      txManager,
		store:          store,
		accountRepo:    accountRepo,
		settlementRepo: settlementRepo,
		outboxRepo:     outboxRepo,
		factory:        factory,
		idGen:          idGen,
		concurrency:    concurrency,
		logger:         logger,
		metrics:        m,
	}
}

// HostsToSettle lists hosts with pending debts created before the end of period.
func (uc *SettlementUseCase) HostsToSettle(ctx context.Context, period domain.Period) ([]string, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return uc.store.ListHostsWithPendingDebts(ctx, period.End())
}

// SettlePeriod settles every host with pending debts for period. Hosts are
// settled independently; a failing host does not stop the others.
func (uc *SettlementUseCase) SettlePeriod(ctx context.Context, period domain.Period) ([]*domain.SettlementResult, error) {
	hosts, err := uc.HostsToSettle(ctx, period)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results = make([]*domain.SettlementResult, 0, len(hosts))
		errs    []error
	)

	var g errgroup.Group
	g.SetLimit(uc.concurrency)
	for _, hostID := range hosts {
		g.Go(func() error {
			result, err := uc.SettleHost(ctx, hostID, period)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("settle host %s: %w", hostID, err))
				return nil
			}
			results = append(results, result)
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

// SettleHost invoices the pending debts of one host for period. Running it
// again for the same host and period is a no-op.
func (uc *SettlementUseCase) SettleHost(ctx context.Context, hostID string, period domain.Period) (*domain.SettlementResult, error) {
	start := time.Now()

	result, err := uc.settleHost(ctx, hostID, period)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.SettlementErrors.Inc()
		}
		uc.logger.Error().Err(err).Str("host_id", hostID).Str("period", period.String()).Msg("settlement failed")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementDuration.Observe(time.Since(start).Seconds())
		switch {
		case result.AlreadySettled:
			uc.metrics.SettlementsSkipped.Inc()
		case result.Expense != nil:
			uc.metrics.SettlementsInvoiced.Inc()
		}
	}

	event := uc.logger.Info().
		Str("host_id", hostID).
		Str("period", period.String()).
		Int("entries", result.EntryCount).
		Bool("already_settled", result.AlreadySettled)
	if result.Expense != nil {
		event = event.Str("expense_id", result.Expense.ID).Str("amount", result.Expense.Amount.String())
	}
	event.Msg("host settled")

	return result, nil
}

func (uc *SettlementUseCase) settleHost(ctx context.Context, hostID string, period domain.Period) (*domain.SettlementResult, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	host, err := uc.accountRepo.GetByID(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if !host.IsHost() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotHost, hostID)
	}

	result := &domain.SettlementResult{HostAccountID: hostID, Period: period}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	existing, err := uc.settlementRepo.GetByHostPeriod(txCtx, tx, hostID, period)
	if err != nil && !errors.Is(err, domain.ErrSettlementNotFound) {
		return nil, err
	}
	if existing != nil {
		result.Expense = existing
		result.AlreadySettled = true
		return result, nil
	}

	debts, err := uc.store.ListPendingDebts(txCtx, tx, hostID, period.End())
	if err != nil {
		return nil, err
	}
	if len(debts) == 0 {
		return result, nil
	}
	result.EntryCount = len(debts)

	// Both legs are listed; the host side carries the amount owed to the platform.
	net := domain.NewMoney(0, host.Currency)
	for _, e := range debts {
		if e.PayeeAccountID != hostID {
			continue
		}
		net, err = net.Add(domain.NewMoney(e.AmountInHostCurrency, e.HostCurrency))
		if err != nil {
			return nil, fmt.Errorf("settle %s: debt %s: %w", hostID, e.ID, err)
		}
	}

	ids := debts.IDs()
	now := time.Now().UTC()

	if net.IsZero() {
		if err := uc.store.MarkSettlement(txCtx, tx, ids, domain.SettlementSettled); err != nil {
			return nil, err
		}
		if err := tx.Commit(txCtx); err != nil {
			return nil, err
		}
		return result, nil
	}

	platformID := uc.factory.Policy().PlatformAccountID
	expense := &domain.SettlementExpense{
		ID:             uc.idGen.Generate(),
		HostAccountID:  hostID,
		PayerAccountID: hostID,
		PayeeAccountID: platformID,
		Amount:         net,
		Period:         period,
		Status:         domain.SettlementExpensePending,
		EntryIDs:       ids,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if net.IsNegative() {
		expense.PayerAccountID = platformID
		expense.PayeeAccountID = hostID
		expense.Amount = expense.Amount.Neg()
	}

	inserted, err := uc.settlementRepo.Create(txCtx, tx, expense)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Lost a race with a concurrent run of the same period.
		result.EntryCount = 0
		result.AlreadySettled = true
		return result, nil
	}

	if err := uc.store.MarkSettlement(txCtx, tx, ids, domain.SettlementInvoiced); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   expense.ID,
		AggregateType: domain.AggregateTypeSettlement,
		EventType:     domain.EventTypeSettlementInvoiced,
		Payload: map[string]any{
			"expense_id": expense.ID,
			"host_id":    hostID,
			"payer_id":   expense.PayerAccountID,
			"payee_id":   expense.PayeeAccountID,
			"amount":     expense.Amount.Amount,
			"currency":   expense.Amount.Currency,
			"period":     period.String(),
			"entries":    len(ids),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	result.Expense = expense
	return result, nil
}

// PaySettlementExpense records the payment of an invoiced expense as an
// EXPENSE group and marks the invoiced debts SETTLED.
func (uc *SettlementUseCase) PaySettlementExpense(ctx context.Context, expenseID string) (*domain.SettlementExpense, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	expense, err := uc.settlementRepo.GetByIDForUpdate(txCtx, tx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status == domain.SettlementExpensePaid {
		return nil, fmt.Errorf("%w: %s", domain.ErrSettlementAlreadyPaid, expenseID)
	}

	now := time.Now().UTC()
	event := &domain.EconomicEvent{
		OccurredAt:     now,
		Kind:           domain.EventKindExpense,
		GrossAmount:    expense.Amount.Amount,
		Currency:       expense.Amount.Currency,
		PayerAccountID: expense.PayerAccountID,
		PayeeAccountID: expense.PayeeAccountID,
		HostAccountID:  expense.HostAccountID,
		SourceEventID:  "settlement:" + expense.ID,
		PaymentMethod:  domain.PaymentMethodAccountBalance,
		Description:    "Platform settlement " + expense.Period.String(),
	}
	group := uc.factory.Build(BuildInput{
		Event:        event,
		HostCurrency: expense.Amount.Currency,
		FxRate:       decimal.NewFromInt(1),
		CreatedAt:    now,
	})

	exists, err := uc.store.PrimaryExists(txCtx, tx, domain.KindExpense, event.SourceEventID, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateEvent, event.SourceEventID)
	}

	if err := uc.store.AppendGroup(txCtx, tx, group); err != nil {
		return nil, err
	}
	if err := uc.store.MarkSettlement(txCtx, tx, expense.EntryIDs, domain.SettlementSettled); err != nil {
		return nil, err
	}

	expense.Status = domain.SettlementExpensePaid
	expense.PaidGroupID = group.Primary().GroupID
	expense.PaidAt = &now
	expense.UpdatedAt = now
	if err := uc.settlementRepo.MarkPaid(txCtx, tx, expense); err != nil {
		return nil, err
	}

	outboxEvent := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   expense.ID,
		AggregateType: domain.AggregateTypeSettlement,
		EventType:     domain.EventTypeSettlementPaid,
		Payload: map[string]any{
			"expense_id": expense.ID,
			"host_id":    expense.HostAccountID,
			"group_id":   expense.PaidGroupID,
			"amount":     expense.Amount.Amount,
			"currency":   expense.Amount.Currency,
			"period":     expense.Period.String(),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, outboxEvent); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementsPaid.Inc()
	}
	uc.logger.Info().Str("expense_id", expense.ID).Str("group_id", expense.PaidGroupID).Msg("settlement paid")

	return expense, nil
}

// GetSettlementExpense retrieves a settlement expense by ID.
func (uc *SettlementUseCase) GetSettlementExpense(ctx context.Context, id string) (*domain.SettlementExpense, error) {
	return uc.settlementRepo.GetByID(ctx, id)
}

// ListSettlementExpenses lists the settlement expenses of a host, newest first.
func (uc *SettlementUseCase) ListSettlementExpenses(ctx context.Context, hostID string, limit, offset int) ([]*domain.SettlementExpense, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.settlementRepo.ListByHost(ctx, hostID, limit, offset)
}
