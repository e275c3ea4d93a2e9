package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salon-service/internal/domain/subscription"
	"salon-service/internal/repository"
	apperrors "salon-service/pkg/errors"
)

// Plan names accepted by the API, mapped onto Razorpay plan IDs from
// configuration.
const (
	PlanBasic = "basic"
	PlanPro   = "pro"
)

const (
	msgUnknownPlan          = "unknown plan"
	msgSubscriptionExists   = "an active subscription already exists"
	msgCannotChangePlan     = "subscription cannot change plan in its current state"
	msgCannotPause          = "subscription cannot be paused in its current state"
	msgCannotResume         = "subscription cannot be resumed in its current state"
	msgCannotCancel         = "subscription cannot be cancelled in its current state"
	msgNotSubscriptionOwner = "subscription does not belong to this user"
)

// Service owns the subscription lifecycle: every state change goes to
// Razorpay first and the local row second; webhooks reconcile whatever
// the two disagree on afterwards.
type Service struct {
	gateway Gateway
	repo    repository.SubscriptionRepository
	plans   map[string]string
	logger  *zap.Logger
}

func NewService(gateway Gateway, repo repository.SubscriptionRepository, basicPlanID, proPlanID string, logger *zap.Logger) *Service {
	return &Service{
		gateway: gateway,
		repo:    repo,
		plans: map[string]string{
			PlanBasic: basicPlanID,
			PlanPro:   proPlanID,
		},
		logger: logger,
	}
}

// ResolvePlan maps a public plan name to its Razorpay plan ID.
func (s *Service) ResolvePlan(plan string) (string, error) {
	planID, ok := s.plans[plan]
	if !ok || planID == "" {
		return "", apperrors.BadRequest(msgUnknownPlan)
	}
	return planID, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, plan string) (*subscription.Subscription, error) {
	planID, err := s.ResolvePlan(plan)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err == nil && existing.Status != subscription.StatusCancelled && existing.Status != subscription.StatusCompleted {
		return nil, apperrors.Conflict(msgSubscriptionExists)
	}

	razorpayID, err := s.gateway.CreateSubscription(planID, map[string]interface{}{
		"user_id": userID.String(),
	})
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, subscription.CreateSubscriptionInput{
		UserID:     userID,
		RazorpayID: razorpayID,
		PlanID:     planID,
		Status:     subscription.StatusCreated,
	})
	if err != nil {
		// The provider-side subscription exists but the local row does not;
		// the activation webhook will recreate visibility of the mismatch.
		s.logger.Error("subscription created at provider but not persisted",
			zap.String("razorpay_id", razorpayID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("subscription created",
		zap.String("razorpay_id", razorpayID),
		zap.String("user_id", userID.String()),
		zap.String("plan", plan))

	return created, nil
}

func (s *Service) ChangePlan(ctx context.Context, userID, subscriptionID uuid.UUID, plan string) error {
	planID, err := s.ResolvePlan(plan)
	if err != nil {
		return err
	}

	sub, err := s.ownedSubscription(ctx, userID, subscriptionID)
	if err != nil {
		return err
	}

	if !sub.CanChangePlan() {
		return apperrors.SubscriptionState(msgCannotChangePlan)
	}

	if err := s.gateway.UpdatePlan(sub.RazorpayID, planID); err != nil {
		return err
	}

	return s.repo.UpdatePlan(ctx, sub.RazorpayID, planID)
}

func (s *Service) Pause(ctx context.Context, userID, subscriptionID uuid.UUID) error {
	sub, err := s.ownedSubscription(ctx, userID, subscriptionID)
	if err != nil {
		return err
	}

	if !sub.CanPause() {
		return apperrors.SubscriptionState(msgCannotPause)
	}

	if err := s.gateway.Pause(sub.RazorpayID); err != nil {
		return err
	}

	return s.repo.UpdateStatus(ctx, sub.RazorpayID, subscription.StatusPaused, nil)
}

func (s *Service) Resume(ctx context.Context, userID, subscriptionID uuid.UUID) error {
	sub, err := s.ownedSubscription(ctx, userID, subscriptionID)
	if err != nil {
		return err
	}

	if !sub.CanResume() {
		return apperrors.SubscriptionState(msgCannotResume)
	}

	if err := s.gateway.Resume(sub.RazorpayID); err != nil {
		return err
	}

	return s.repo.UpdateStatus(ctx, sub.RazorpayID, subscription.StatusActive, nil)
}

func (s *Service) Cancel(ctx context.Context, userID, subscriptionID uuid.UUID, atCycleEnd bool) error {
	sub, err := s.ownedSubscription(ctx, userID, subscriptionID)
	if err != nil {
		return err
	}

	if !sub.CanCancel() {
		return apperrors.SubscriptionState(msgCannotCancel)
	}

	if err := s.gateway.Cancel(sub.RazorpayID, atCycleEnd); err != nil {
		return err
	}

	return s.repo.UpdateStatus(ctx, sub.RazorpayID, subscription.StatusCancelled, nil)
}

func (s *Service) GetForUser(ctx context.Context, userID uuid.UUID) (*subscription.Subscription, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) ownedSubscription(ctx context.Context, userID, subscriptionID uuid.UUID) (*subscription.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	if sub.UserID != userID {
		// Same response as not-found to prevent enumeration.
		return nil, apperrors.NotFound(msgNotSubscriptionOwner)
	}

	return sub, nil
}
