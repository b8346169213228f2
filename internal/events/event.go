// Package events publishes record change notifications to an external bus.
package events

import (
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event announces one committed change to a record.
type Event struct {
	Entity     string    `json:"entity"`
	Collection string    `json:"collection"`
	Action     Action    `json:"action"`
	ID         int64     `json:"id"`
	At         time.Time `json:"at"`
	RequestID  string    `json:"request_id,omitempty"`
}

func Encode(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

func Decode(raw []byte) (Event, error) {
	var ev Event
	err := json.Unmarshal(raw, &ev)
	return ev, err
}

// Key partitions events so changes to one record stay ordered.
func (e Event) Key() string {
	return e.Collection + ":" + strconv.FormatInt(e.ID, 10)
}
