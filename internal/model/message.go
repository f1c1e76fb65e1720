package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// UTCTimeFormat is the canonical wire and storage representation:
// whole seconds, explicit Z designator. Storing timestamps in this
// form keeps lexicographic TEXT comparison chronologically correct.
const UTCTimeFormat = "2006-01-02T15:04:05Z"

// UTCTime wraps time.Time so timestamps round-trip through sqlite and
// JSON in the canonical ...Z form.
type UTCTime struct {
	time.Time
}

func NewUTCTime(t time.Time) UTCTime {
	return UTCTime{t.UTC().Truncate(time.Second)}
}

func (t UTCTime) String() string {
	return t.UTC().Format(UTCTimeFormat)
}

func (t UTCTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *UTCTime) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid timestamp: %s", data)
	}
	parsed, err := ParseUTCTime(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t UTCTime) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *UTCTime) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := time.Parse(UTCTimeFormat, v)
		if err != nil {
			return fmt.Errorf("scanning timestamp: %w", err)
		}
		t.Time = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	case time.Time:
		t.Time = v.UTC().Truncate(time.Second)
		return nil
	default:
		return fmt.Errorf("scanning timestamp: unsupported type %T", src)
	}
}

// ParseUTCTime parses an ISO-8601 timestamp, requiring the explicit Z
// designator. Offsets, even +00:00, are rejected so that senders
// cannot smuggle local-time values past the contract.
func ParseUTCTime(value string) (UTCTime, error) {
	if len(value) == 0 || value[len(value)-1] != 'Z' {
		return UTCTime{}, ErrorNotUTC
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return UTCTime{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	return NewUTCTime(parsed), nil
}

// Message is the unit of persistence: one inbound event, immutable
// once stored. MessageID is the sender-assigned idempotency key and
// is UNIQUE in storage; ID is a server-assigned surrogate row key.
type Message struct {
	ID         string  `db:"ID" json:"-"`
	MessageID  string  `db:"MessageID" json:"message_id"`
	From       string  `db:"FromMSISDN" json:"from"`
	To         string  `db:"ToMSISDN" json:"to"`
	TS         UTCTime `db:"TS" json:"ts"`
	Text       string  `db:"Text" json:"text"`
	ReceivedAt UTCTime `db:"ReceivedAt" json:"received_at"`
}
