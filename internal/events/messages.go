package events

import (
	"encoding/json"
	"time"
)

// Mutation tells remote consumers that one owner's collection of a resource
// changed and any cached listing of it is stale. Consumers key their
// invalidation on Resource plus OwnerID; a wishlist event must never flush a
// budget listing.
type Mutation struct {
	Resource   string    `json:"resource"`
	Action     string    `json:"action"`
	OwnerID    string    `json:"owner_id"`
	ResourceID string    `json:"resource_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewMutation builds an event stamped with the current time.
func NewMutation(resource, action, ownerID, resourceID string) *Mutation {
	return &Mutation{
		Resource:   resource,
		Action:     action,
		OwnerID:    ownerID,
		ResourceID: resourceID,
		Timestamp:  time.Now(),
	}
}

// RoutingKey returns the topic key the event is published under, e.g.
// "trackzy.wishlist.toggle".
func (m *Mutation) RoutingKey() string {
	return "trackzy." + m.Resource + "." + m.Action
}

// ToJSON converts the event to JSON bytes.
func (m *Mutation) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MutationFromJSON parses an event from JSON bytes.
func MutationFromJSON(data []byte) (*Mutation, error) {
	var m Mutation
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
