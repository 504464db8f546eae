// Package paymenttest builds signed Stripe webhook bodies for tests.
package paymenttest

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Event returns a Stripe event body of eventType wrapping a payment
// intent with the given id and metadata.
func Event(eventType, intentID string, metadata map[string]string) []byte {
	body := map[string]any{
		"id":          "evt_" + uuid.NewString(),
		"object":      "event",
		"type":        eventType,
		"api_version": "2020-08-27",
		"created":     time.Now().Unix(),
		"data": map[string]any{
			"object": map[string]any{
				"id":       intentID,
				"object":   "payment_intent",
				"status":   "succeeded",
				"metadata": metadata,
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return payload
}

// Succeeded returns a payment_intent.succeeded body for orderID.
func Succeeded(orderID, intentID string) []byte {
	return Event("payment_intent.succeeded", intentID, map[string]string{"orderId": orderID})
}

// Sign returns the Stripe-Signature header for payload.
func Sign(payload []byte, secret string) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Header
}
