package api

import "time"

type SlotPayload struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"`
	Capacity int    `json:"capacity" validate:"min=0"`
	Order    int    `json:"order"`
}

type ProviderRequest struct {
	Name  string        `json:"name" validate:"required"`
	Role  string        `json:"role"`
	Slots []SlotPayload `json:"slots" validate:"required,min=1,dive"`
}

// ProviderEditRequest is a partial update: nil fields stay unchanged,
// a non-nil slot list replaces the provider's slots (diffed by id).
type ProviderEditRequest struct {
	Name  *string       `json:"name"`
	Role  *string       `json:"role"`
	Slots []SlotPayload `json:"slots" validate:"omitempty,min=1,dive"`
}

type AssignRequest struct {
	Name             string   `json:"name" validate:"required"`
	ActiveCategories []string `json:"active_categories"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type RenameRequest struct {
	Name string `json:"name" validate:"required"`
}

type ClientResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type SlotResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	IsAvailable bool             `json:"is_available"`
	Capacity    int              `json:"capacity"`
	Order       int              `json:"order"`
	Clients     []ClientResponse `json:"clients"`
}

type ProviderResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Role      string         `json:"role,omitempty"`
	IsPresent bool           `json:"is_present"`
	CreatedAt time.Time      `json:"created_at"`
	Slots     []SlotResponse `json:"slots"`
}

type PresenceResponse struct {
	ProviderID     string `json:"provider_id"`
	IsPresent      bool   `json:"is_present"`
	ClearedClients int    `json:"cleared_clients"`
}

type AvailabilityResponse struct {
	SlotID         string `json:"slot_id"`
	IsAvailable    bool   `json:"is_available"`
	ClearedClients int    `json:"cleared_clients"`
}

type ProviderSummaryResponse struct {
	ProviderName  string `json:"provider_name"`
	AttendedCount int    `json:"attended_count"`
}

type ArchiveResponse struct {
	ID            string                    `json:"id"`
	Date          time.Time                 `json:"date"`
	Summary       []ProviderSummaryResponse `json:"per_provider_summary"`
	TotalAttended int                       `json:"total_attended"`
}
