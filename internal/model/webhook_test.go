package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func decodePayload(t *testing.T, body string) *WebhookPayload {
	payload := &WebhookPayload{}
	if err := json.Unmarshal([]byte(body), payload); err != nil {
		t.Fatalf("unmarshalling payload: %+v", err)
	}
	return payload
}

func failureFields(failures []FieldError) []string {
	fields := make([]string, 0, len(failures))
	for _, f := range failures {
		fields = append(fields, f.Field)
	}
	return fields
}

func TestValidatePayload(t *testing.T) {
	assert := assert.New(t)

	valid := `{"message_id":"msg_123","from":"+919999999999","to":"+918888888888","ts":"2026-01-15T09:28:35Z","text":"Hello"}`

	t.Run("valid payload normalizes", func(t *testing.T) {
		message, failures := decodePayload(t, valid).Validate()
		assert.Nil(failures)
		assert.Equal("msg_123", message.MessageID)
		assert.Equal("+919999999999", message.From)
		assert.Equal("+918888888888", message.To)
		assert.Equal("2026-01-15T09:28:35Z", message.TS.String())
		assert.Equal("Hello", message.Text)
	})

	t.Run("sub-second precision truncates", func(t *testing.T) {
		body := strings.Replace(valid, "09:28:35Z", "09:28:35.987654Z", 1)
		message, failures := decodePayload(t, body).Validate()
		assert.Nil(failures)
		assert.Equal("2026-01-15T09:28:35Z", message.TS.String())
	})

	t.Run("missing fields all reported", func(t *testing.T) {
		_, failures := decodePayload(t, `{}`).Validate()
		assert.ElementsMatch([]string{"message_id", "from", "to", "ts", "text"}, failureFields(failures))
	})

	t.Run("empty message_id rejected", func(t *testing.T) {
		body := strings.Replace(valid, "msg_123", "", 1)
		_, failures := decodePayload(t, body).Validate()
		assert.Equal([]string{"message_id"}, failureFields(failures))
	})

	t.Run("ts without UTC designator rejected", func(t *testing.T) {
		body := strings.Replace(valid, "2026-01-15T09:28:35Z", "2026-01-15T09:28:35", 1)
		_, failures := decodePayload(t, body).Validate()
		assert.Equal([]string{"ts"}, failureFields(failures))
	})

	t.Run("ts with non-UTC offset rejected", func(t *testing.T) {
		body := strings.Replace(valid, "2026-01-15T09:28:35Z", "2026-01-15T09:28:35+05:30", 1)
		_, failures := decodePayload(t, body).Validate()
		assert.Equal([]string{"ts"}, failureFields(failures))
	})

	t.Run("ts with explicit zero offset rejected", func(t *testing.T) {
		body := strings.Replace(valid, "2026-01-15T09:28:35Z", "2026-01-15T09:28:35+00:00", 1)
		_, failures := decodePayload(t, body).Validate()
		assert.Equal([]string{"ts"}, failureFields(failures))
	})

	t.Run("from without plus rejected", func(t *testing.T) {
		body := strings.Replace(valid, "+919999999999", "9999999999", 1)
		_, failures := decodePayload(t, body).Validate()
		assert.Equal([]string{"from"}, failureFields(failures))
	})

	t.Run("to with too many digits rejected", func(t *testing.T) {
		body := strings.Replace(valid, "+918888888888", "+9188888888889999", 1)
		_, failures := decodePayload(t, body).Validate()
		assert.Equal([]string{"to"}, failureFields(failures))
	})

	t.Run("oversized text rejected", func(t *testing.T) {
		body := strings.Replace(valid, "Hello", strings.Repeat("a", 4097), 1)
		_, failures := decodePayload(t, body).Validate()
		assert.Equal([]string{"text"}, failureFields(failures))
	})
}

func TestUTCTime(t *testing.T) {
	assert := assert.New(t)

	t.Run("json round trip", func(t *testing.T) {
		ts := NewUTCTime(time.Date(2026, 1, 15, 9, 28, 35, 500, time.UTC))
		data, err := json.Marshal(ts)
		assert.Nil(err)
		assert.Equal(`"2026-01-15T09:28:35Z"`, string(data))

		parsed := UTCTime{}
		assert.Nil(json.Unmarshal(data, &parsed))
		assert.True(parsed.Equal(ts.Time))
	})

	t.Run("database round trip via string", func(t *testing.T) {
		ts := NewUTCTime(time.Date(2026, 1, 15, 9, 28, 35, 0, time.UTC))
		value, err := ts.Value()
		assert.Nil(err)
		assert.Equal("2026-01-15T09:28:35Z", value)

		scanned := UTCTime{}
		assert.Nil(scanned.Scan(value))
		assert.True(scanned.Equal(ts.Time))
	})

	t.Run("parse converts nothing, Z is mandatory", func(t *testing.T) {
		_, err := ParseUTCTime("2026-01-15T09:28:35+00:00")
		assert.ErrorIs(err, ErrorNotUTC)
	})
}
