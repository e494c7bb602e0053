package worker

import (
	"context"

	"booking-service/internal/broker"
	"booking-service/internal/models"
	"booking-service/internal/reconcile"
	"booking-service/internal/service"
	"booking-service/internal/store"
	"booking-service/internal/util"

	"go.uber.org/zap"
)

// ReconcileWorker consumes payment outcome events and re-drives the
// idempotent settlement path. Events published by this process come
// back through here too; the processed-events table and the settle
// no-op make that harmless.
type ReconcileWorker struct {
	consumer       *broker.Consumer
	eventHandler   *broker.EventHandler
	paymentService *service.PaymentService
	store          *store.Store
	logger         *zap.Logger
}

// NewReconcileWorker creates a new reconcile worker
func NewReconcileWorker(
	consumer *broker.Consumer,
	paymentService *service.PaymentService,
	store *store.Store,
) *ReconcileWorker {
	w := &ReconcileWorker{
		consumer:       consumer,
		paymentService: paymentService,
		store:          store,
		logger:         util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnPaymentSucceeded(func(ctx context.Context, event *models.PaymentOutcomeEvent) error {
		return w.handleOutcome(ctx, event, reconcile.OutcomeSucceeded)
	})
	eventHandler.OnPaymentFailed(func(ctx context.Context, event *models.PaymentOutcomeEvent) error {
		return w.handleOutcome(ctx, event, reconcile.OutcomeFailed)
	})
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *ReconcileWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting reconcile worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ReconcileWorker) Stop() error {
	w.logger.Info("Stopping reconcile worker")
	return w.consumer.Close()
}

func (w *ReconcileWorker) handleOutcome(ctx context.Context, event *models.PaymentOutcomeEvent, outcome reconcile.Outcome) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if processed {
		w.logger.Debug("Event already processed, skipping",
			zap.String("event_id", event.EventID))
		return nil
	}

	result, err := w.paymentService.Settle(ctx, event.PaymentID, outcome, event.ProviderRef, event.Reason)
	if err != nil {
		w.logger.Error("Failed to settle payment from event",
			zap.String("event_id", event.EventID),
			zap.String("payment_id", event.PaymentID),
			zap.Error(err))
		return err
	}

	if result.Applied {
		w.logger.Info("Payment settled from event",
			zap.String("event_id", event.EventID),
			zap.String("payment_id", event.PaymentID),
			zap.String("outcome", string(outcome)))
	}

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}
