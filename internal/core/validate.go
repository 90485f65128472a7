package core

import (
	"fmt"

	"gira-service/internal/models"
)

// Repair re-validates a decoded snapshot against the store invariants
// and returns a consistent state plus a description of every violation
// it fixed. Loaded data never reaches normal operation unrepaired: the
// caller surfaces the issues as an ErrDataIntegrity and continues on
// the repaired state.
//
// Repair drops as little as it can: an invalid client or slot is
// removed without taking its provider with it; a provider is dropped
// only when it cannot be represented at all (empty name, reused id).
func (e *Engine) Repair(st *models.State) (*models.State, []string) {
	var issues []string
	out := &models.State{}

	providerIDs := make(map[string]struct{})
	for _, p := range st.Providers {
		if p.Name == "" {
			issues = append(issues, fmt.Sprintf("dropped provider %q: empty name", p.ID))
			continue
		}
		if p.ID == "" {
			issues = append(issues, fmt.Sprintf("provider %q: missing id, minted a new one", p.Name))
			p.ID = models.NewID()
		}
		if _, ok := providerIDs[p.ID]; ok {
			issues = append(issues, fmt.Sprintf("dropped provider %q: id %q reused", p.Name, p.ID))
			continue
		}
		providerIDs[p.ID] = struct{}{}
		if !e.tax.ValidRole(p.Role) {
			issues = append(issues, fmt.Sprintf("provider %q: unknown role %q cleared", p.Name, p.Role))
			p.Role = ""
		}

		slotIDs := make(map[string]struct{}, len(p.Slots))
		slots := make([]models.Slot, 0, len(p.Slots))
		for _, s := range p.Slots {
			if s.Name == "" {
				issues = append(issues, fmt.Sprintf("provider %q: dropped slot %q: empty name", p.Name, s.ID))
				continue
			}
			if !e.tax.ValidCategory(s.Category) {
				issues = append(issues, fmt.Sprintf("provider %q: dropped slot %q: unknown category %q", p.Name, s.Name, s.Category))
				continue
			}
			if s.ID == "" {
				issues = append(issues, fmt.Sprintf("slot %q: missing id, minted a new one", s.Name))
				s.ID = models.NewID()
			}
			if _, ok := slotIDs[s.ID]; ok {
				issues = append(issues, fmt.Sprintf("provider %q: dropped slot %q: id %q reused", p.Name, s.Name, s.ID))
				continue
			}
			slotIDs[s.ID] = struct{}{}
			if s.Capacity < 0 {
				issues = append(issues, fmt.Sprintf("slot %q: negative capacity %d clamped to 0", s.Name, s.Capacity))
				s.Capacity = 0
			}

			s.Clients = e.repairClients(p, s, &issues)
			slots = append(slots, s)
		}
		p.Slots = slots
		out.Providers = append(out.Providers, p)
	}

	for _, rec := range st.Archives {
		sum := 0
		for _, row := range rec.Summary {
			sum += row.AttendedCount
		}
		if rec.TotalAttended != sum {
			issues = append(issues, fmt.Sprintf("archive %q: total %d did not match summary sum %d", rec.ID, rec.TotalAttended, sum))
			rec.TotalAttended = sum
		}
		out.Archives = append(out.Archives, rec)
	}

	return out, issues
}

func (e *Engine) repairClients(p models.Provider, s models.Slot, issues *[]string) []models.Client {
	if len(s.Clients) == 0 {
		return nil
	}
	// Invariants 3 and 4: no clients under an absent provider or an
	// unavailable slot, ever.
	if !p.IsPresent || !s.IsAvailable {
		*issues = append(*issues, fmt.Sprintf("slot %q: cleared %d clients on an inactive slot", s.Name, len(s.Clients)))
		return nil
	}

	clientIDs := make(map[string]struct{}, len(s.Clients))
	clients := make([]models.Client, 0, len(s.Clients))
	for _, c := range s.Clients {
		if c.Name == "" {
			*issues = append(*issues, fmt.Sprintf("slot %q: dropped client %q: empty name", s.Name, c.ID))
			continue
		}
		if c.ID == "" {
			c.ID = models.NewID()
		}
		if _, ok := clientIDs[c.ID]; ok {
			*issues = append(*issues, fmt.Sprintf("slot %q: dropped client %q: id %q reused", s.Name, c.Name, c.ID))
			continue
		}
		clientIDs[c.ID] = struct{}{}
		if !c.Status.Valid() {
			*issues = append(*issues, fmt.Sprintf("client %q: unknown status %q reset to scheduled", c.Name, c.Status))
			c.Status = models.StatusScheduled
		}
		clients = append(clients, c)
	}

	// Invariant 2: occupancy never exceeds capacity; excess tail clients
	// are dropped.
	if len(clients) > s.Capacity {
		*issues = append(*issues, fmt.Sprintf("slot %q: dropped %d clients over capacity %d", s.Name, len(clients)-s.Capacity, s.Capacity))
		clients = clients[:s.Capacity]
	}
	if len(clients) == 0 {
		return nil
	}
	return clients
}
