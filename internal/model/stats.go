package model

type SenderCount struct {
	From  string `db:"FromMSISDN" json:"from"`
	Count int    `db:"Count" json:"count"`
}

type Stats struct {
	TotalMessages     int           `json:"total_messages"`
	SendersCount      int           `json:"senders_count"`
	MessagesPerSender []SenderCount `json:"messages_per_sender"`
	FirstMessageTS    *UTCTime      `json:"first_message_ts"`
	LastMessageTS     *UTCTime      `json:"last_message_ts"`
}
