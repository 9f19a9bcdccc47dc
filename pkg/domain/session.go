package domain

import "time"

// ClientSession is the presence record of one accepted connection.
// It is written on connect and removed on disconnect.
type ClientSession struct {
	ID          string    `json:"id"`
	RemoteAddr  string    `json:"remote_addr"`
	ConnectedAt time.Time `json:"connected_at"`
}
