package connectivity

import "time"

// Event is one connectivity transition.
type Event struct {
	At     time.Time
	Online bool
}

// String returns "became-online" or "became-offline".
func (e Event) String() string {
	if e.Online {
		return "became-online"
	}
	return "became-offline"
}

// Monitor exposes the process-wide reachability flag.
type Monitor interface {
	// Online returns the current state
	Online() bool

	// Subscribe returns a channel receiving every later transition in
	// order, and a function that ends the subscription and closes the channel
	Subscribe() (<-chan Event, func())
}
