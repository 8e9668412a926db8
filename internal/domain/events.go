package domain

import "time"

// FailedOrder is a request drained from the error queue, together with the
// position it was read from.
type FailedOrder struct {
	Request    OrderRequest `json:"request"`
	RawPayload []byte       `json:"-"`
	Topic      string       `json:"topic"`
	Partition  int          `json:"partition"`
	Offset     int64        `json:"offset"`
	ReceivedAt time.Time    `json:"received_at"`
}
