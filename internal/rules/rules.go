// Package rules holds the pure capacity and availability predicates.
// Every capacity decision in the system goes through AssignBlock; no
// other package re-implements any part of it.
package rules

import (
	"sort"

	"gira-service/internal/models"
)

// Block reasons returned by AssignBlock.
const (
	BlockProviderAbsent   = "provider is not present"
	BlockSlotUnavailable  = "slot is not available"
	BlockZeroCapacity     = "slot capacity is zero"
	BlockSlotFull         = "slot is full"
	BlockCategoryInactive = "slot category is not active in this session"
)

// AssignBlock returns the reason a new client cannot be assigned to the
// slot, or "" when assignment is allowed. activeCategories is the set of
// categories open in the current session, supplied at call time.
func AssignBlock(p models.Provider, s models.Slot, activeCategories []string) string {
	switch {
	case !p.IsPresent:
		return BlockProviderAbsent
	case !s.IsAvailable:
		return BlockSlotUnavailable
	case s.Capacity == 0:
		return BlockZeroCapacity
	case len(s.Clients) >= s.Capacity:
		return BlockSlotFull
	case !CategoryActive(s.Category, activeCategories):
		return BlockCategoryInactive
	}
	return ""
}

// CanAssign reports whether a new client may be assigned to the slot.
func CanAssign(p models.Provider, s models.Slot, activeCategories []string) bool {
	return AssignBlock(p, s, activeCategories) == ""
}

// CategoryActive reports whether cat is among the session's active
// categories.
func CategoryActive(cat string, activeCategories []string) bool {
	for _, c := range activeCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// SortSlots orders slots for display: category taxonomy order, then the
// slot's own Order, then insertion order (stable sort preserves it).
func SortSlots(tax models.Taxonomy, slots []models.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		ri, rj := tax.CategoryRank(slots[i].Category), tax.CategoryRank(slots[j].Category)
		if ri != rj {
			return ri < rj
		}
		return slots[i].Order < slots[j].Order
	})
}

// SortProviders orders providers by role rank; unranked roles sort last
// and ties keep their relative order.
func SortProviders(tax models.Taxonomy, providers []models.Provider) {
	sort.SliceStable(providers, func(i, j int) bool {
		return tax.RoleRank(providers[i].Role) < tax.RoleRank(providers[j].Role)
	})
}
