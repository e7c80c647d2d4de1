package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/solmarket/settler/internal/webhook"
	"github.com/solmarket/settler/internal/webhook/store"
)

const minSecretLength = 16

type webhookRequest struct {
	UserID     string   `json:"user_id"`
	URL        string   `json:"url"`
	Secret     string   `json:"secret"`
	EventTypes []string `json:"event_types"`
	Active     *bool    `json:"active"`
}

// webhookResponse never carries the secret, not even encrypted.
type webhookResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	URL             string     `json:"url"`
	EventTypes      []string   `json:"event_types"`
	Active          bool       `json:"active"`
	TotalDeliveries int64      `json:"total_deliveries"`
	TotalFailures   int64      `json:"total_failures"`
	LastSuccessAt   *time.Time `json:"last_success_at,omitempty"`
	LastFailureAt   *time.Time `json:"last_failure_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type deliveryResponse struct {
	ID           string     `json:"id"`
	EventID      string     `json:"event_id"`
	EventType    string     `json:"event_type"`
	Status       string     `json:"status"`
	Attempts     int        `json:"attempts"`
	NextRetryAt  time.Time  `json:"next_retry_at"`
	LastError    *string    `json:"last_error,omitempty"`
	ResponseCode *int       `json:"response_code,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type testSendResponse struct {
	Delivered    bool   `json:"delivered"`
	ResponseCode *int   `json:"response_code,omitempty"`
	Error        string `json:"error,omitempty"`
}

type WebhookHandler struct {
	store   store.WebhookStore
	cipher  *webhook.SecretCipher
	checker *webhook.URLChecker
	sender  *webhook.Sender
}

func NewWebhookHandler(webhookStore store.WebhookStore, cipher *webhook.SecretCipher, checker *webhook.URLChecker, sender *webhook.Sender) *WebhookHandler {
	return &WebhookHandler{
		store:   webhookStore,
		cipher:  cipher,
		checker: checker,
		sender:  sender,
	}
}

func (h *WebhookHandler) Create(c echo.Context) error {
	var req webhookRequest
	err := c.Bind(&req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.UserID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "user_id is required"})
	}
	if len(req.Secret) < minSecretLength {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: webhook.ErrSecretTooShort.Error()})
	}
	err = validateEventTypes(req.EventTypes)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	err = h.checker.Check(c.Request().Context(), req.URL)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	encrypted, err := h.cipher.Encrypt([]byte(req.Secret))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to store webhook secret"})
	}

	record := &store.Webhook{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		URL:             req.URL,
		SecretEncrypted: encrypted,
		EventTypes:      req.EventTypes,
		Active:          true,
	}
	if req.Active != nil {
		record.Active = *req.Active
	}

	err = h.store.CreateWebhook(c.Request().Context(), record)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to create webhook"})
	}

	return c.JSON(http.StatusCreated, toWebhookResponse(record))
}

func (h *WebhookHandler) List(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "user_id is required"})
	}

	webhooks, err := h.store.GetWebhooksByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list webhooks"})
	}

	responses := make([]webhookResponse, len(webhooks))
	for i, record := range webhooks {
		responses[i] = toWebhookResponse(record)
	}

	return c.JSON(http.StatusOK, responses)
}

func (h *WebhookHandler) Get(c echo.Context) error {
	record, err := h.store.GetWebhook(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "webhook not found"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load webhook"})
	}

	return c.JSON(http.StatusOK, toWebhookResponse(record))
}

func (h *WebhookHandler) Update(c echo.Context) error {
	var req webhookRequest
	err := c.Bind(&req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	record, err := h.store.GetWebhook(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "webhook not found"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load webhook"})
	}

	if req.URL != "" {
		err = h.checker.Check(c.Request().Context(), req.URL)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		record.URL = req.URL
	}
	if req.Secret != "" {
		if len(req.Secret) < minSecretLength {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: webhook.ErrSecretTooShort.Error()})
		}
		encrypted, cErr := h.cipher.Encrypt([]byte(req.Secret))
		if cErr != nil {
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to store webhook secret"})
		}
		record.SecretEncrypted = encrypted
	}
	if req.EventTypes != nil {
		err = validateEventTypes(req.EventTypes)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		record.EventTypes = req.EventTypes
	}
	if req.Active != nil {
		record.Active = *req.Active
	}

	err = h.store.UpdateWebhook(c.Request().Context(), record)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to update webhook"})
	}

	return c.JSON(http.StatusOK, toWebhookResponse(record))
}

func (h *WebhookHandler) Delete(c echo.Context) error {
	err := h.store.DeleteWebhook(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "webhook not found"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to delete webhook"})
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *WebhookHandler) Deliveries(c echo.Context) error {
	deliveries, err := h.store.GetDeliveries(c.Request().Context(), c.Param("id"), 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list deliveries"})
	}

	responses := make([]deliveryResponse, len(deliveries))
	for i, d := range deliveries {
		responses[i] = deliveryResponse{
			ID:           d.ID,
			EventID:      d.EventID,
			EventType:    d.EventType,
			Status:       d.Status,
			Attempts:     d.Attempts,
			NextRetryAt:  d.NextRetryAt,
			LastError:    d.LastError,
			ResponseCode: d.ResponseCode,
			DeliveredAt:  d.DeliveredAt,
			CreatedAt:    d.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, responses)
}

// TestSend fires a synthetic event at the webhook endpoint so owners can
// verify their receiver. The SSRF gate runs first; a rejected URL answers
// 400 without any network call.
func (h *WebhookHandler) TestSend(c echo.Context) error {
	ctx := c.Request().Context()

	record, err := h.store.GetWebhook(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "webhook not found"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load webhook"})
	}

	err = h.checker.Check(ctx, record.URL)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	secret, err := h.cipher.Decrypt(record.SecretEncrypted)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to decrypt webhook secret"})
	}

	event, err := webhook.NewEvent(webhook.EventListingEnded, map[string]string{"test": "true", "webhook_id": record.ID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to build test event"})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to build test event"})
	}

	result := h.sender.Send(ctx, record.URL, secret, payload)

	return c.JSON(http.StatusOK, testSendResponse{
		Delivered:    result.Success,
		ResponseCode: result.ResponseCode,
		Error:        result.Error,
	})
}

func validateEventTypes(eventTypes []string) error {
	for _, t := range eventTypes {
		if !webhook.ValidEventType(t) {
			return fmt.Errorf("%w: %s", webhook.ErrUnknownEventType, t)
		}
	}
	return nil
}

func toWebhookResponse(record *store.Webhook) webhookResponse {
	eventTypes := record.EventTypes
	if eventTypes == nil {
		eventTypes = []string{}
	}

	return webhookResponse{
		ID:              record.ID,
		UserID:          record.UserID,
		URL:             record.URL,
		EventTypes:      eventTypes,
		Active:          record.Active,
		TotalDeliveries: record.TotalDeliveries,
		TotalFailures:   record.TotalFailures,
		LastSuccessAt:   record.LastSuccessAt,
		LastFailureAt:   record.LastFailureAt,
		CreatedAt:       record.CreatedAt,
	}
}
