package models

import (
	"time"

	"github.com/google/uuid"
)

type ClientStatus string

const (
	StatusScheduled ClientStatus = "scheduled"
	StatusAttended  ClientStatus = "attended"
	StatusAbsent    ClientStatus = "absent"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusAttended, StatusAbsent:
		return true
	}
	return false
}

// Client is a person scheduled into a slot.
type Client struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Status ClientStatus `json:"status"`
}

// Slot is a bounded-capacity offering owned by a provider.
// When IsAvailable is false Clients must be empty; the mutation
// engine enforces this by cascade, not by check.
type Slot struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	IsAvailable bool     `json:"is_available"`
	Capacity    int      `json:"capacity"`
	Order       int      `json:"order"`
	Clients     []Client `json:"clients"`
}

// Provider owns an ordered set of slots. Ownership is strict: every slot
// belongs to exactly one provider, every client to exactly one slot.
type Provider struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role,omitempty"`
	IsPresent bool      `json:"is_present"`
	CreatedAt time.Time `json:"created_at"`
	Slots     []Slot    `json:"slots"`
}

// ClientCount is the number of clients across all slots of the provider.
func (p *Provider) ClientCount() int {
	n := 0
	for i := range p.Slots {
		n += len(p.Slots[i].Clients)
	}
	return n
}

// AttendedCount is the number of clients with status attended across
// all slots of the provider.
func (p *Provider) AttendedCount() int {
	n := 0
	for i := range p.Slots {
		for _, c := range p.Slots[i].Clients {
			if c.Status == StatusAttended {
				n++
			}
		}
	}
	return n
}

// SlotIndex returns the index of the slot with the given id, or -1.
func (p *Provider) SlotIndex(slotID string) int {
	for i := range p.Slots {
		if p.Slots[i].ID == slotID {
			return i
		}
	}
	return -1
}

// ClientIndex returns the index of the client with the given id, or -1.
func (s *Slot) ClientIndex(clientID string) int {
	for i := range s.Clients {
		if s.Clients[i].ID == clientID {
			return i
		}
	}
	return -1
}

// ProviderSummary is one row of an archive record.
type ProviderSummary struct {
	ProviderName  string `json:"provider_name"`
	AttendedCount int    `json:"attended_count"`
}

// ArchiveRecord is an immutable attendance snapshot of a closed session.
// TotalAttended always equals the sum of AttendedCount over Summary.
type ArchiveRecord struct {
	ID            string            `json:"id"`
	Date          time.Time         `json:"date"`
	Summary       []ProviderSummary `json:"per_provider_summary"`
	TotalAttended int               `json:"total_attended"`
}

// State is the whole persisted store: the live ownership tree plus the
// append-only archive history. State values handed out by the engine are
// immutable snapshots; mutations always produce a new State.
type State struct {
	Providers []Provider      `json:"providers"`
	Archives  []ArchiveRecord `json:"archives"`
}

func Empty() *State {
	return &State{}
}

// ProviderIndex returns the index of the provider with the given id, or -1.
func (st *State) ProviderIndex(providerID string) int {
	for i := range st.Providers {
		if st.Providers[i].ID == providerID {
			return i
		}
	}
	return -1
}

// NewID mints a process-unique opaque id. IDs are never reused.
func NewID() string {
	return uuid.NewString()
}
