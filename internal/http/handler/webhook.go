package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"salon-service/internal/billing"
)

const (
	razorpaySignatureHeader = "X-Razorpay-Signature"
	maxWebhookBodyBytes     = 1 << 20
)

// WebhookHandler receives Razorpay webhook deliveries. Signature
// verification is the only authentication on this route.
type WebhookHandler struct {
	reconciler interface {
		Apply(ctx context.Context, body []byte) error
	}
	webhookSecret string
}

func NewWebhookHandler(reconciler *billing.Reconciler, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, webhookSecret: webhookSecret}
}

func (h *WebhookHandler) Razorpay(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBodyBytes))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgWebhookReadFail)
	}

	signature := c.Request().Header.Get(razorpaySignatureHeader)
	if signature == "" || !billing.VerifyWebhookSignature(body, signature, h.webhookSecret) {
		return respondError(c, http.StatusUnauthorized, msgWebhookBadSignature)
	}

	if err := h.reconciler.Apply(c.Request().Context(), body); err != nil {
		c.Logger().Errorf("webhook reconciliation failed: %v", err)
		return respondError(c, http.StatusBadRequest, msgInvalidRequestBody)
	}

	return respondMessage(c, http.StatusOK, "ok")
}
