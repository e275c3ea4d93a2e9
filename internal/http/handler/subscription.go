package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"salon-service/internal/auth"
	"salon-service/internal/billing"
	"salon-service/internal/domain/subscription"
	apperrors "salon-service/pkg/errors"
)

type SubscriptionHandler struct {
	billing *billing.Service
}

func NewSubscriptionHandler(billingService *billing.Service) *SubscriptionHandler {
	return &SubscriptionHandler{billing: billingService}
}

type CreateSubscriptionRequest struct {
	Plan string `json:"plan"`
}

type ChangePlanRequest struct {
	Plan string `json:"plan"`
}

type CancelSubscriptionRequest struct {
	AtCycleEnd bool `json:"at_cycle_end"`
}

type SubscriptionResponse struct {
	ID         string `json:"id"`
	RazorpayID string `json:"razorpay_id"`
	PlanID     string `json:"plan_id"`
	Status     string `json:"status"`
	CurrentEnd string `json:"current_end,omitempty"`
}

func subscriptionResponse(sub *subscription.Subscription) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:         sub.ID.String(),
		RazorpayID: sub.RazorpayID,
		PlanID:     sub.PlanID,
		Status:     string(sub.Status),
	}
	if sub.CurrentEnd != nil {
		resp.CurrentEnd = sub.CurrentEnd.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

func (h *SubscriptionHandler) Create(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	var req CreateSubscriptionRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	sub, err := h.billing.Create(c.Request().Context(), userID, req.Plan)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusCreated, subscriptionResponse(sub))
}

func (h *SubscriptionHandler) Get(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	sub, err := h.billing.GetForUser(c.Request().Context(), userID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, subscriptionResponse(sub))
}

func (h *SubscriptionHandler) ChangePlan(c echo.Context) error {
	userID, subscriptionID, err := h.requestIdentity(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	var req ChangePlanRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if err := h.billing.ChangePlan(c.Request().Context(), userID, subscriptionID, req.Plan); err != nil {
		return RespondWithMappedError(c, err)
	}

	return respondMessage(c, http.StatusOK, "plan changed")
}

func (h *SubscriptionHandler) Pause(c echo.Context) error {
	userID, subscriptionID, err := h.requestIdentity(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	if err := h.billing.Pause(c.Request().Context(), userID, subscriptionID); err != nil {
		return RespondWithMappedError(c, err)
	}

	return respondMessage(c, http.StatusOK, "subscription paused")
}

func (h *SubscriptionHandler) Resume(c echo.Context) error {
	userID, subscriptionID, err := h.requestIdentity(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	if err := h.billing.Resume(c.Request().Context(), userID, subscriptionID); err != nil {
		return RespondWithMappedError(c, err)
	}

	return respondMessage(c, http.StatusOK, "subscription resumed")
}

func (h *SubscriptionHandler) Cancel(c echo.Context) error {
	userID, subscriptionID, err := h.requestIdentity(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	var req CancelSubscriptionRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if err := h.billing.Cancel(c.Request().Context(), userID, subscriptionID, req.AtCycleEnd); err != nil {
		return RespondWithMappedError(c, err)
	}

	return respondMessage(c, http.StatusOK, "subscription cancelled")
}

func (h *SubscriptionHandler) requestIdentity(c echo.Context) (userID, subscriptionID uuid.UUID, err error) {
	userID, err = auth.GetUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	subscriptionID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperrors.BadRequest(msgInvalidSubscriptionID)
	}

	return userID, subscriptionID, nil
}
