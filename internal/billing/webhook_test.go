package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"salon-service/internal/domain/subscription"
)

func webhookBody(event, razorpayID, planID string, currentEnd int64) []byte {
	return []byte(fmt.Sprintf(
		`{"event":%q,"payload":{"subscription":{"entity":{"id":%q,"plan_id":%q,"status":"whatever","current_end":%d}}}}`,
		event, razorpayID, planID, currentEnd))
}

func TestReconcilerApply(t *testing.T) {
	tests := []struct {
		name       string
		event      string
		wantStatus subscription.Status
	}{
		{"activated", EventActivated, subscription.StatusActive},
		{"charged", EventCharged, subscription.StatusActive},
		{"paused", EventPaused, subscription.StatusPaused},
		{"resumed", EventResumed, subscription.StatusActive},
		{"cancelled", EventCancelled, subscription.StatusCancelled},
		{"completed", EventCompleted, subscription.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeSubscriptionRepo()
			sub := repo.add(&subscription.Subscription{
				UserID: uuid.New(), RazorpayID: "sub_1", PlanID: "plan_basic_id",
				Status: subscription.StatusCreated,
			})
			reconciler := NewReconciler(repo, zap.NewNop())

			err := reconciler.Apply(context.Background(), webhookBody(tt.event, "sub_1", "plan_basic_id", 0))
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, sub.Status)
		})
	}
}

func TestReconcilerSetsCurrentEnd(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	sub := repo.add(&subscription.Subscription{
		UserID: uuid.New(), RazorpayID: "sub_1", PlanID: "plan_basic_id",
		Status: subscription.StatusCreated,
	})
	reconciler := NewReconciler(repo, zap.NewNop())

	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	err := reconciler.Apply(context.Background(), webhookBody(EventCharged, "sub_1", "", end.Unix()))
	assert.NoError(t, err)
	assert.NotNil(t, sub.CurrentEnd)
	assert.Equal(t, end, *sub.CurrentEnd)
}

func TestReconcilerUpdatesPlan(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	sub := repo.add(&subscription.Subscription{
		UserID: uuid.New(), RazorpayID: "sub_1", PlanID: "plan_basic_id",
		Status: subscription.StatusActive,
	})
	reconciler := NewReconciler(repo, zap.NewNop())

	err := reconciler.Apply(context.Background(), webhookBody(EventCharged, "sub_1", "plan_pro_id", 0))
	assert.NoError(t, err)
	assert.Equal(t, "plan_pro_id", sub.PlanID)
}

func TestReconcilerIgnoresUnknownEvent(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	sub := repo.add(&subscription.Subscription{
		UserID: uuid.New(), RazorpayID: "sub_1", PlanID: "plan_basic_id",
		Status: subscription.StatusActive,
	})
	reconciler := NewReconciler(repo, zap.NewNop())

	err := reconciler.Apply(context.Background(), webhookBody("payment.captured", "sub_1", "", 0))
	assert.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, sub.Status)
}

func TestReconcilerAcksUnknownSubscription(t *testing.T) {
	reconciler := NewReconciler(newFakeSubscriptionRepo(), zap.NewNop())

	// A 2xx ack is required so Razorpay does not retry forever.
	err := reconciler.Apply(context.Background(), webhookBody(EventActivated, "sub_ghost", "", 0))
	assert.NoError(t, err)
}

func TestReconcilerRejectsMalformedBody(t *testing.T) {
	reconciler := NewReconciler(newFakeSubscriptionRepo(), zap.NewNop())

	assert.Error(t, reconciler.Apply(context.Background(), []byte("{not json")))
	assert.Error(t, reconciler.Apply(context.Background(), webhookBody(EventActivated, "", "", 0)))
}

func TestReconcilerIsIdempotent(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	sub := repo.add(&subscription.Subscription{
		UserID: uuid.New(), RazorpayID: "sub_1", PlanID: "plan_basic_id",
		Status: subscription.StatusCreated,
	})
	reconciler := NewReconciler(repo, zap.NewNop())
	body := webhookBody(EventActivated, "sub_1", "plan_basic_id", 0)

	assert.NoError(t, reconciler.Apply(context.Background(), body))
	assert.NoError(t, reconciler.Apply(context.Background(), body))
	assert.Equal(t, subscription.StatusActive, sub.Status)
}
