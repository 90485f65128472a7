package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gira-service/internal/models"
)

var testTax = models.Taxonomy{
	Categories: []string{"Caboclo", "Preto Velho", "Exu"},
	Roles:      []string{"dirigente", "medium"},
}

func TestAssignBlock(t *testing.T) {
	active := []string{"Exu", "Caboclo"}

	base := func() (models.Provider, models.Slot) {
		p := models.Provider{ID: "p1", Name: "P1", IsPresent: true}
		s := models.Slot{ID: "s1", Name: "S1", Category: "Exu", IsAvailable: true, Capacity: 2}
		return p, s
	}

	tests := []struct {
		name  string
		tweak func(p *models.Provider, s *models.Slot)
		want  string
	}{
		{"ok", func(p *models.Provider, s *models.Slot) {}, ""},
		{"provider absent", func(p *models.Provider, s *models.Slot) { p.IsPresent = false }, BlockProviderAbsent},
		{"slot unavailable", func(p *models.Provider, s *models.Slot) { s.IsAvailable = false }, BlockSlotUnavailable},
		{"zero capacity", func(p *models.Provider, s *models.Slot) { s.Capacity = 0 }, BlockZeroCapacity},
		{"slot full", func(p *models.Provider, s *models.Slot) {
			s.Clients = []models.Client{{ID: "c1"}, {ID: "c2"}}
		}, BlockSlotFull},
		{"category inactive", func(p *models.Provider, s *models.Slot) { s.Category = "Preto Velho" }, BlockCategoryInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, s := base()
			tt.tweak(&p, &s)
			require.Equal(t, tt.want, AssignBlock(p, s, active))
			require.Equal(t, tt.want == "", CanAssign(p, s, active))
		})
	}
}

func TestAssignBlock_ZeroCapacityBeatsAvailability(t *testing.T) {
	// capacity 0 blocks even a fully available slot under a present provider
	p := models.Provider{IsPresent: true}
	s := models.Slot{Category: "Exu", IsAvailable: true, Capacity: 0}
	require.Equal(t, BlockZeroCapacity, AssignBlock(p, s, []string{"Exu"}))
}

func TestSortSlots(t *testing.T) {
	slots := []models.Slot{
		{Name: "late exu", Category: "Exu", Order: 2},
		{Name: "caboclo", Category: "Caboclo", Order: 5},
		{Name: "early exu", Category: "Exu", Order: 1},
		{Name: "unknown", Category: "???", Order: 0},
	}

	SortSlots(testTax, slots)

	require.Equal(t, "caboclo", slots[0].Name)
	require.Equal(t, "early exu", slots[1].Name)
	require.Equal(t, "late exu", slots[2].Name)
	require.Equal(t, "unknown", slots[3].Name)
}

func TestSortProviders_StableWithUnrankedLast(t *testing.T) {
	providers := []models.Provider{
		{Name: "a", Role: ""},
		{Name: "b", Role: "medium"},
		{Name: "c", Role: "dirigente"},
		{Name: "d", Role: "medium"},
	}

	SortProviders(testTax, providers)

	require.Equal(t, "c", providers[0].Name)
	require.Equal(t, "b", providers[1].Name)
	require.Equal(t, "d", providers[2].Name) // tie with b keeps order
	require.Equal(t, "a", providers[3].Name)
}
