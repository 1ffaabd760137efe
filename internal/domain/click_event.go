package domain

import "time"

// UnknownHandle is the sentinel stored when the attributed X account cannot
// be determined from the request, the link cache, or the link URL itself.
// It is the only x_username value stored without a leading "@".
const UnknownHandle = "Unknown"

// ClickEvent is one attributed click on a tracked post link.
// At most one event exists per (session_num, post_num, tg_id) triple;
// the storage layer enforces this with a unique index.
type ClickEvent struct {
	SessionNum int64     `json:"session_num"`
	PostNum    int64     `json:"post_num"`
	TgID       int64     `json:"tg_id"`
	TgUsername string    `json:"tg_username"`
	XUsername  string    `json:"x_username"`
	XLink      string    `json:"x_link"`
	ClickedAt  time.Time `json:"clicked_at"`
}
