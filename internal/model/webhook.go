package model

import "regexp"

// E.164: a plus followed by up to 15 digits, nothing else.
var e164Pattern = regexp.MustCompile(`^\+[0-9]{1,15}$`)

const maxTextLength = 4096

// WebhookPayload is the decoded but not yet validated request body.
// Pointer fields distinguish absent from empty.
type WebhookPayload struct {
	MessageID *string `json:"message_id"`
	From      *string `json:"from"`
	To        *string `json:"to"`
	TS        *string `json:"ts"`
	Text      *string `json:"text"`
}

// FieldError describes a single validation failure. The 422 response
// body carries a list of these so senders get per-field diagnostics.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validate checks the payload against the wire contract and returns
// either a normalized Message candidate or the full list of failures.
// It never stops at the first bad field.
func (p *WebhookPayload) Validate() (*Message, []FieldError) {
	var failures []FieldError

	if p.MessageID == nil || *p.MessageID == "" {
		failures = append(failures, FieldError{"message_id", "field required"})
	}

	failures = appendMSISDNFailure(failures, "from", p.From)
	failures = appendMSISDNFailure(failures, "to", p.To)

	var ts UTCTime
	if p.TS == nil {
		failures = append(failures, FieldError{"ts", "field required"})
	} else {
		parsed, err := ParseUTCTime(*p.TS)
		if err != nil {
			failures = append(failures, FieldError{"ts", ErrorNotUTC.Error()})
		} else {
			ts = parsed
		}
	}

	switch {
	case p.Text == nil:
		failures = append(failures, FieldError{"text", "field required"})
	case len(*p.Text) > maxTextLength:
		failures = append(failures, FieldError{"text", "text exceeds 4096 characters"})
	}

	if len(failures) > 0 {
		return nil, failures
	}

	return &Message{
		MessageID: *p.MessageID,
		From:      *p.From,
		To:        *p.To,
		TS:        ts,
		Text:      *p.Text,
	}, nil
}

func appendMSISDNFailure(failures []FieldError, field string, value *string) []FieldError {
	if value == nil || *value == "" {
		return append(failures, FieldError{field, "field required"})
	}
	if !e164Pattern.MatchString(*value) {
		return append(failures, FieldError{field, "must be E.164 (+ followed by up to 15 digits)"})
	}
	return failures
}
