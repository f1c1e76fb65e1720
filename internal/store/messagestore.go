package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"smsinbox/internal/boot"
	"smsinbox/internal/model"
)

type messagestore struct {
	db *sqlx.DB
}

func New(config *boot.Config) (*messagestore, error) {
	dsn := "file:" + config.Database.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	datastore := &messagestore{db}
	if err := datastore.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return datastore, nil
}

func (s *messagestore) Close() error {
	return s.db.Close()
}

func (s *messagestore) createTables() error {
	_, err := s.db.Exec(`create table if not exists messages(
		ID         text not null primary key,
		MessageID  text not null unique,
		FromMSISDN text not null,
		ToMSISDN   text not null,
		TS         text not null,
		Text       text not null,
		ReceivedAt text not null
	)`)
	if err != nil {
		return fmt.Errorf("creating messages table: %w", err)
	}

	_, err = s.db.Exec(`create index if not exists IdxMessagesFrom on messages(FromMSISDN)`)
	if err != nil {
		return fmt.Errorf("creating sender index: %w", err)
	}

	_, err = s.db.Exec(`create index if not exists IdxMessagesTS on messages(TS)`)
	if err != nil {
		return fmt.Errorf("creating timestamp index: %w", err)
	}

	return nil
}

// Ready probes the database the same way readiness expects to find
// it: reachable and with the messages table in place.
func (s *messagestore) Ready() error {
	var name string
	err := s.db.Get(&name, `select name from sqlite_master where type = 'table' and name = 'messages'`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrorStoreNotReady
		}
		return fmt.Errorf("probing database: %w", err)
	}
	return nil
}

// Insert records the message if its MessageID has not been seen and
// reports whether this call created the row. The decision rides
// entirely on the UNIQUE constraint: `insert or ignore` either wins
// the row or affects nothing, so concurrent deliveries of the same
// MessageID resolve to exactly one insert with no read-then-write
// race. ID and ReceivedAt are assigned here, once.
func (s *messagestore) Insert(message *model.Message) (bool, error) {
	message.ID = uuid.NewString()

	res, err := s.db.NamedExec(`insert or ignore into messages
		(ID, MessageID, FromMSISDN, ToMSISDN, TS, Text, ReceivedAt)
		values(:ID, :MessageID, :FromMSISDN, :ToMSISDN, :TS, :Text, :ReceivedAt)`, message)
	if err != nil {
		return false, fmt.Errorf("inserting message: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rows == 1, nil
}

type ListParams struct {
	From     string
	Since    *model.UTCTime
	Query    string
	Page     int
	PageSize int
}

// List returns one page of messages plus the total count for the
// same filters. Filters are conjunctive; ordering is ts then
// message_id so pages are stable.
func (s *messagestore) List(params ListParams) ([]model.Message, int, error) {
	where := ""
	args := []any{}
	and := func(clause string, arg any) {
		if where == "" {
			where = " where " + clause
		} else {
			where += " and " + clause
		}
		args = append(args, arg)
	}

	if params.From != "" {
		and("FromMSISDN = ?", params.From)
	}
	if params.Since != nil {
		and("TS >= ?", params.Since.String())
	}
	if params.Query != "" {
		and("lower(Text) like '%' || lower(?) || '%'", params.Query)
	}

	var total int
	err := s.db.Get(&total, "select count(*) from messages"+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("counting messages: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	messages := []model.Message{}
	err = s.db.Select(&messages, `select * from messages`+where+`
		order by TS asc, MessageID asc
		limit ? offset ?`, append(args, params.PageSize, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing messages: %w", err)
	}

	return messages, total, nil
}

// Stats computes the read-side aggregation over stored messages.
func (s *messagestore) Stats() (*model.Stats, error) {
	stats := &model.Stats{
		MessagesPerSender: []model.SenderCount{},
	}

	err := s.db.Get(&stats.TotalMessages, `select count(*) from messages`)
	if err != nil {
		return nil, fmt.Errorf("counting messages: %w", err)
	}

	err = s.db.Get(&stats.SendersCount, `select count(distinct FromMSISDN) from messages`)
	if err != nil {
		return nil, fmt.Errorf("counting senders: %w", err)
	}

	err = s.db.Select(&stats.MessagesPerSender, `select FromMSISDN, count(*) as Count
		from messages
		group by FromMSISDN
		order by Count desc, FromMSISDN asc
		limit 10`)
	if err != nil {
		return nil, fmt.Errorf("counting messages per sender: %w", err)
	}

	var bounds struct {
		MinTS sql.NullString `db:"MinTS"`
		MaxTS sql.NullString `db:"MaxTS"`
	}
	err = s.db.Get(&bounds, `select min(TS) as MinTS, max(TS) as MaxTS from messages`)
	if err != nil {
		return nil, fmt.Errorf("finding timestamp bounds: %w", err)
	}

	if bounds.MinTS.Valid {
		first, err := model.ParseUTCTime(bounds.MinTS.String)
		if err != nil {
			return nil, fmt.Errorf("parsing first timestamp: %w", err)
		}
		stats.FirstMessageTS = &first
	}
	if bounds.MaxTS.Valid {
		last, err := model.ParseUTCTime(bounds.MaxTS.String)
		if err != nil {
			return nil, fmt.Errorf("parsing last timestamp: %w", err)
		}
		stats.LastMessageTS = &last
	}

	return stats, nil
}
