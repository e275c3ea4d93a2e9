package billing

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

const (
	// Razorpay requires a billing-cycle count at creation; twelve monthly
	// cycles, renewed by the webhook on completion.
	defaultTotalCount = 12

	errCreateSubscriptionFmt = "razorpay create subscription: %w"
	errUpdateSubscriptionFmt = "razorpay update subscription %s: %w"
	errPauseSubscriptionFmt  = "razorpay pause subscription %s: %w"
	errResumeSubscriptionFmt = "razorpay resume subscription %s: %w"
	errCancelSubscriptionFmt = "razorpay cancel subscription %s: %w"
	errMissingSubscriptionID = "razorpay response missing subscription id"
)

// Gateway is the slice of the payment provider the billing service
// needs. Tests substitute a stub; production uses razorpayGateway.
type Gateway interface {
	CreateSubscription(planID string, notes map[string]interface{}) (subscriptionID string, err error)
	UpdatePlan(subscriptionID, planID string) error
	Pause(subscriptionID string) error
	Resume(subscriptionID string) error
	Cancel(subscriptionID string, atCycleEnd bool) error
}

type razorpayGateway struct {
	client *razorpay.Client
}

// NewGateway wraps the Razorpay SDK client.
func NewGateway(keyID, keySecret string) Gateway {
	return &razorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *razorpayGateway) CreateSubscription(planID string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"plan_id":         planID,
		"total_count":     defaultTotalCount,
		"customer_notify": 1,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := g.client.Subscription.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf(errCreateSubscriptionFmt, err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf(errMissingSubscriptionID)
	}

	return id, nil
}

func (g *razorpayGateway) UpdatePlan(subscriptionID, planID string) error {
	data := map[string]interface{}{
		"plan_id":            planID,
		"schedule_change_at": "now",
		"customer_notify":    1,
		"remaining_count":    defaultTotalCount,
	}

	if _, err := g.client.Subscription.Update(subscriptionID, data, nil); err != nil {
		return fmt.Errorf(errUpdateSubscriptionFmt, subscriptionID, err)
	}

	return nil
}

func (g *razorpayGateway) Pause(subscriptionID string) error {
	data := map[string]interface{}{"pause_at": "now"}

	if _, err := g.client.Subscription.Pause(subscriptionID, data, nil); err != nil {
		return fmt.Errorf(errPauseSubscriptionFmt, subscriptionID, err)
	}

	return nil
}

func (g *razorpayGateway) Resume(subscriptionID string) error {
	data := map[string]interface{}{"resume_at": "now"}

	if _, err := g.client.Subscription.Resume(subscriptionID, data, nil); err != nil {
		return fmt.Errorf(errResumeSubscriptionFmt, subscriptionID, err)
	}

	return nil
}

func (g *razorpayGateway) Cancel(subscriptionID string, atCycleEnd bool) error {
	data := map[string]interface{}{"cancel_at_cycle_end": 0}
	if atCycleEnd {
		data["cancel_at_cycle_end"] = 1
	}

	if _, err := g.client.Subscription.Cancel(subscriptionID, data, nil); err != nil {
		return fmt.Errorf(errCancelSubscriptionFmt, subscriptionID, err)
	}

	return nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against
// the raw request body.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	return utils.VerifyWebhookSignature(string(body), signature, secret)
}
