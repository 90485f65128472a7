package service

import (
	"gira-service/api"
	"gira-service/internal/core"
	"gira-service/internal/models"
	"gira-service/internal/rules"
)

func toSlotSpecs(payloads []api.SlotPayload) []core.SlotSpec {
	specs := make([]core.SlotSpec, 0, len(payloads))
	for _, p := range payloads {
		specs = append(specs, core.SlotSpec{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Capacity: p.Capacity,
			Order:    p.Order,
		})
	}
	return specs
}

func clientResponse(c models.Client) *api.ClientResponse {
	return &api.ClientResponse{ID: c.ID, Name: c.Name, Status: string(c.Status)}
}

func slotResponse(s models.Slot) api.SlotResponse {
	out := api.SlotResponse{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		IsAvailable: s.IsAvailable,
		Capacity:    s.Capacity,
		Order:       s.Order,
		Clients:     make([]api.ClientResponse, 0, len(s.Clients)),
	}
	for _, c := range s.Clients {
		out.Clients = append(out.Clients, *clientResponse(c))
	}
	return out
}

func slotResponses(slots []models.Slot) []api.SlotResponse {
	out := make([]api.SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse(s))
	}
	return out
}

// providerResponse renders a provider with its slots in display order.
func providerResponse(tax models.Taxonomy, p models.Provider) *api.ProviderResponse {
	slots := make([]models.Slot, len(p.Slots))
	copy(slots, p.Slots)
	rules.SortSlots(tax, slots)

	return &api.ProviderResponse{
		ID:        p.ID,
		Name:      p.Name,
		Role:      p.Role,
		IsPresent: p.IsPresent,
		CreatedAt: p.CreatedAt,
		Slots:     slotResponses(slots),
	}
}

func providerResponses(tax models.Taxonomy, providers []models.Provider) []api.ProviderResponse {
	out := make([]api.ProviderResponse, 0, len(providers))
	for _, p := range providers {
		out = append(out, *providerResponse(tax, p))
	}
	return out
}

func archiveResponse(rec models.ArchiveRecord) *api.ArchiveResponse {
	out := &api.ArchiveResponse{
		ID:            rec.ID,
		Date:          rec.Date,
		TotalAttended: rec.TotalAttended,
		Summary:       make([]api.ProviderSummaryResponse, 0, len(rec.Summary)),
	}
	for _, row := range rec.Summary {
		out.Summary = append(out.Summary, api.ProviderSummaryResponse{
			ProviderName:  row.ProviderName,
			AttendedCount: row.AttendedCount,
		})
	}
	return out
}
