package core

import "gira-service/internal/models"

// Event is an informational notification emitted by a mutation. Events
// are never required for correctness; the notification collaborator may
// drop them freely.
type Event interface {
	EventName() string
}

type ProviderRegisteredEvent struct {
	ProviderID   string `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	SlotCount    int    `json:"slot_count"`
}

func (ProviderRegisteredEvent) EventName() string { return "provider_registered" }

type ProviderRemovedEvent struct {
	ProviderID   string `json:"provider_id"`
	ProviderName string `json:"provider_name"`
}

func (ProviderRemovedEvent) EventName() string { return "provider_removed" }

type ProviderEditedEvent struct {
	ProviderID   string `json:"provider_id"`
	ProviderName string `json:"provider_name"`
}

func (ProviderEditedEvent) EventName() string { return "provider_edited" }

type PresenceToggledEvent struct {
	ProviderID   string `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	IsPresent    bool   `json:"is_present"`
}

func (PresenceToggledEvent) EventName() string { return "presence_toggled" }

type SlotAvailabilityToggledEvent struct {
	ProviderID  string `json:"provider_id"`
	SlotID      string `json:"slot_id"`
	SlotName    string `json:"slot_name"`
	IsAvailable bool   `json:"is_available"`
}

func (SlotAvailabilityToggledEvent) EventName() string { return "slot_availability_toggled" }

// ClientsClearedEvent reports a cascade: SlotName is empty when the
// whole provider was cleared, set when a single slot was.
type ClientsClearedEvent struct {
	ProviderName string `json:"provider_name"`
	SlotName     string `json:"slot_name,omitempty"`
	Count        int    `json:"count"`
}

func (ClientsClearedEvent) EventName() string { return "clients_cleared" }

type ClientAssignedEvent struct {
	ProviderName string `json:"provider_name"`
	SlotName     string `json:"slot_name"`
	ClientID     string `json:"client_id"`
	ClientName   string `json:"client_name"`
}

func (ClientAssignedEvent) EventName() string { return "client_assigned" }

type ClientRemovedEvent struct {
	ProviderName string `json:"provider_name"`
	SlotName     string `json:"slot_name"`
	ClientName   string `json:"client_name"`
}

func (ClientRemovedEvent) EventName() string { return "client_removed" }

type ClientStatusChangedEvent struct {
	ClientID   string              `json:"client_id"`
	ClientName string              `json:"client_name"`
	Status     models.ClientStatus `json:"status"`
}

func (ClientStatusChangedEvent) EventName() string { return "client_status_changed" }

type ClientRenamedEvent struct {
	ClientID string `json:"client_id"`
	OldName  string `json:"old_name"`
	NewName  string `json:"new_name"`
}

func (ClientRenamedEvent) EventName() string { return "client_renamed" }

type SessionArchivedEvent struct {
	ArchiveID     string `json:"archive_id"`
	TotalAttended int    `json:"total_attended"`
}

func (SessionArchivedEvent) EventName() string { return "session_archived" }
