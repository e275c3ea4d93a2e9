package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"salon-service/internal/domain/subscription"
	"salon-service/internal/repository"
	apperrors "salon-service/pkg/errors"
)

// Webhook event names Razorpay sends for the subscription entity.
const (
	EventActivated = "subscription.activated"
	EventCharged   = "subscription.charged"
	EventPaused    = "subscription.paused"
	EventResumed   = "subscription.resumed"
	EventCancelled = "subscription.cancelled"
	EventCompleted = "subscription.completed"
)

const (
	errDecodeEventFmt     = "failed to decode webhook event: %w"
	errEventMissingEntity = "webhook event missing subscription entity"
)

// Event is the subset of Razorpay's webhook envelope the reconciler
// reads.
type Event struct {
	Name    string `json:"event"`
	Payload struct {
		Subscription struct {
			Entity struct {
				ID         string `json:"id"`
				PlanID     string `json:"plan_id"`
				Status     string `json:"status"`
				CurrentEnd int64  `json:"current_end"`
			} `json:"entity"`
		} `json:"subscription"`
	} `json:"payload"`
}

// Reconciler applies webhook events to local subscription rows. Events
// are idempotent state assignments: replaying one writes the same row
// it wrote the first time.
type Reconciler struct {
	repo   repository.SubscriptionRepository
	logger *zap.Logger
}

func NewReconciler(repo repository.SubscriptionRepository, logger *zap.Logger) *Reconciler {
	return &Reconciler{repo: repo, logger: logger}
}

// eventStatus maps webhook event names to local statuses. Unlisted
// events are acknowledged and ignored.
var eventStatus = map[string]subscription.Status{
	EventActivated: subscription.StatusActive,
	EventCharged:   subscription.StatusActive,
	EventPaused:    subscription.StatusPaused,
	EventResumed:   subscription.StatusActive,
	EventCancelled: subscription.StatusCancelled,
	EventCompleted: subscription.StatusCompleted,
}

// Apply decodes and applies one webhook body. Unknown subscription IDs
// are logged, not failed: Razorpay retries failures, and a row that was
// never persisted locally will not appear by retrying.
func (r *Reconciler) Apply(ctx context.Context, body []byte) error {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf(errDecodeEventFmt, err)
	}

	status, handled := eventStatus[event.Name]
	if !handled {
		r.logger.Debug("ignoring webhook event", zap.String("event", event.Name))
		return nil
	}

	entity := event.Payload.Subscription.Entity
	if entity.ID == "" {
		return fmt.Errorf(errEventMissingEntity)
	}

	var currentEnd *time.Time
	if entity.CurrentEnd > 0 {
		t := time.Unix(entity.CurrentEnd, 0).UTC()
		currentEnd = &t
	}

	if entity.PlanID != "" {
		if err := r.repo.UpdatePlan(ctx, entity.ID, entity.PlanID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
	}

	err := r.repo.UpdateStatus(ctx, entity.ID, status, currentEnd)
	if errors.Is(err, apperrors.ErrNotFound) {
		r.logger.Warn("webhook for unknown subscription",
			zap.String("event", event.Name),
			zap.String("razorpay_id", entity.ID))
		return nil
	}
	if err != nil {
		return err
	}

	r.logger.Info("subscription reconciled",
		zap.String("event", event.Name),
		zap.String("razorpay_id", entity.ID),
		zap.String("status", string(status)))

	return nil
}
