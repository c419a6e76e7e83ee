package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/hostledger/internal/adapter/http/dto"
	"github.com/iho/hostledger/internal/infrastructure/logger"
	"github.com/iho/hostledger/internal/usecase"
)

// PaymentNotifier applies processor notifications to the ledger.
type PaymentNotifier interface {
	HandlePaymentNotification(ctx context.Context, n usecase.PaymentNotification) (*usecase.PaymentNotificationResult, error)
}

// WebhookHandler receives payment notifications. A notification is applied
// at most once per charge and outcome; replays get the stored response.
type WebhookHandler struct {
	notifier PaymentNotifier
	dedup    usecase.IdempotencyStore
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewWebhookHandler creates a WebhookHandler. dedup may be nil.
func NewWebhookHandler(notifier PaymentNotifier, dedup usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *WebhookHandler {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &WebhookHandler{notifier: notifier, dedup: dedup, ttl: ttl, logger: logger}
}

// PaymentNotification handles POST /webhooks/payments.
func (h *WebhookHandler) PaymentNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	var req dto.PaymentWebhookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	notification, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid notification", err)
		return
	}

	key := req.DedupKey()
	if h.dedup != nil {
		seen, stored, err := h.dedup.CheckAndSet(ctx, key, nil, h.ttl)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "webhook de-duplication failed", err.Error())
			return
		}
		if seen {
			if string(stored) == usecase.IdempotencyProcessing {
				writeError(w, http.StatusConflict, "notification is being processed", key)
				return
			}
			log.Info().Str("dedup_key", key).Msg("duplicate payment notification")
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Webhook-Replay", "true")
			w.WriteHeader(http.StatusOK)
			w.Write(stored)
			return
		}
	}

	result, err := h.notifier.HandlePaymentNotification(ctx, notification)
	if err != nil {
		if h.dedup != nil {
			if relErr := h.dedup.Release(context.WithoutCancel(ctx), key); relErr != nil {
				log.Error().Err(relErr).Str("dedup_key", key).Msg("failed to release webhook claim")
			}
		}
		writeDomainError(w, "failed to apply notification", err)
		return
	}

	body, err := json.Marshal(dto.PaymentWebhookFromResult(result))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response", err.Error())
		return
	}
	if h.dedup != nil {
		if err := h.dedup.Update(context.WithoutCancel(ctx), key, body, h.ttl); err != nil {
			log.Error().Err(err).Str("dedup_key", key).Msg("failed to store webhook response")
		}
	}

	log.Info().
		Str("outcome", req.Outcome).
		Str("charge_or_transfer_id", req.ChargeOrTransferID).
		Str("action", result.Action).
		Msg("payment notification applied")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
