package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"smsinbox/internal/boot"
	"smsinbox/internal/metrics"
	"smsinbox/internal/model"
	"smsinbox/pkg/signature"
)

type MessageInserter interface {
	Insert(message *model.Message) (bool, error)
}

// Webhook handles inbound deliveries. Checks run in a fixed order:
// signature first, so unauthenticated callers learn nothing about
// payload handling; then validation; then the idempotent insert.
// Created and duplicate deliberately share one response so retrying
// senders cannot tell a first attempt from a replay.
func Webhook(config *boot.Config, store MessageInserter) echo.HandlerFunc {
	return func(c echo.Context) error {
		body := c.Request().Body
		defer body.Close()

		raw, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("reading request body: %w", err)
		}

		token := c.Request().Header.Get("X-Signature")
		if !signature.Verify(config.WebhookSecret, raw, token) {
			metrics.CountWebhook(metrics.ResultInvalidSignature)
			c.Logger().Errorj(log.JSON{
				"request_id": requestID(c),
				"message_id": peekMessageID(raw),
				"result":     metrics.ResultInvalidSignature,
			})
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": model.ErrorInvalidSignature.Error()})
		}

		payload := &model.WebhookPayload{}
		if err := json.Unmarshal(raw, payload); err != nil {
			return validationFailed(c, "", []model.FieldError{{Field: "body", Reason: "invalid json"}})
		}

		message, failures := payload.Validate()
		if failures != nil {
			return validationFailed(c, peekMessageID(raw), failures)
		}

		message.ReceivedAt = model.NewUTCTime(time.Now())

		created, err := store.Insert(message)
		if err != nil {
			return fmt.Errorf("storing message: %w", err)
		}

		result := metrics.ResultCreated
		if !created {
			result = metrics.ResultDuplicate
		}
		metrics.CountWebhook(result)
		c.Logger().Infoj(log.JSON{
			"request_id": requestID(c),
			"message_id": message.MessageID,
			"dup":        !created,
			"result":     result,
		})

		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
}

func validationFailed(c echo.Context, messageID string, failures []model.FieldError) error {
	metrics.CountWebhook(metrics.ResultValidationError)
	c.Logger().Warnj(log.JSON{
		"request_id": requestID(c),
		"message_id": messageID,
		"result":     metrics.ResultValidationError,
	})
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{"detail": failures})
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// peekMessageID extracts message_id for log correlation on rejected
// requests, tolerating bodies that never parse.
func peekMessageID(raw []byte) string {
	var probe struct {
		MessageID string `json:"message_id"`
	}
	_ = json.Unmarshal(raw, &probe)
	return probe.MessageID
}
