// Package query holds the read-only projections over a state snapshot.
// Projections never mutate the snapshot and are safe to run
// concurrently with each other; slot and provider lists they return are
// fresh slices over shared immutable data.
package query

import (
	"fmt"
	"strings"

	"gira-service/internal/core"
	"gira-service/internal/models"
	"gira-service/internal/rules"
)

// Roster returns every provider, providers sorted by role rank and each
// provider's slots sorted by category order.
func Roster(tax models.Taxonomy, st *models.State) []models.Provider {
	out := make([]models.Provider, len(st.Providers))
	copy(out, st.Providers)
	for i := range out {
		slots := make([]models.Slot, len(out[i].Slots))
		copy(slots, out[i].Slots)
		rules.SortSlots(tax, slots)
		out[i].Slots = slots
	}
	rules.SortProviders(tax, out)
	return out
}

// AvailableProviders returns the providers a client can currently be
// assigned to: present, with at least one assignable slot under the
// active categories. Each returned provider carries only its assignable
// slots, sorted.
func AvailableProviders(tax models.Taxonomy, st *models.State, activeCategories []string) []models.Provider {
	var out []models.Provider
	for _, p := range st.Providers {
		var slots []models.Slot
		for _, s := range p.Slots {
			if rules.CanAssign(p, s, activeCategories) {
				slots = append(slots, s)
			}
		}
		if len(slots) == 0 {
			continue
		}
		rules.SortSlots(tax, slots)
		p.Slots = slots
		out = append(out, p)
	}
	rules.SortProviders(tax, out)
	return out
}

// AvailableSlots returns the assignable slots of one provider, sorted.
func AvailableSlots(tax models.Taxonomy, st *models.State, providerID string, activeCategories []string) ([]models.Slot, error) {
	pi := st.ProviderIndex(providerID)
	if pi < 0 {
		return nil, fmt.Errorf("query.AvailableSlots: %w: provider %q", core.ErrNotFound, providerID)
	}
	p := st.Providers[pi]
	var out []models.Slot
	for _, s := range p.Slots {
		if rules.CanAssign(p, s, activeCategories) {
			out = append(out, s)
		}
	}
	rules.SortSlots(tax, out)
	return out, nil
}

// SearchProviders filters by case-insensitive substring over provider
// name, slot name, slot category and client name. With active
// categories the search runs over the assignable view; without, over
// the full roster. An empty query returns the unfiltered view.
func SearchProviders(tax models.Taxonomy, st *models.State, q string, activeCategories []string) []models.Provider {
	var base []models.Provider
	if len(activeCategories) > 0 {
		base = AvailableProviders(tax, st, activeCategories)
	} else {
		base = Roster(tax, st)
	}
	if q == "" {
		return base
	}
	needle := strings.ToLower(q)

	var out []models.Provider
	for _, p := range base {
		if matchesProvider(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

func matchesProvider(p models.Provider, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	for _, s := range p.Slots {
		if strings.Contains(strings.ToLower(s.Name), needle) ||
			strings.Contains(strings.ToLower(s.Category), needle) {
			return true
		}
		for _, c := range s.Clients {
			if strings.Contains(strings.ToLower(c.Name), needle) {
				return true
			}
		}
	}
	return false
}
