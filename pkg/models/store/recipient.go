package store

import "time"

type Recipient struct {
	ID      string
	AddedAt time.Time
}
