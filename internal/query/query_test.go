package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gira-service/internal/core"
	"gira-service/internal/models"
)

var testTax = models.Taxonomy{
	Categories: []string{"Caboclo", "Preto Velho", "Exu"},
	Roles:      []string{"dirigente", "medium"},
}

var activeAll = []string{"Caboclo", "Preto Velho", "Exu"}

// Two providers, one absent; the present one carries a mix of
// assignable and blocked slots.
func testState() *models.State {
	return &models.State{Providers: []models.Provider{
		{
			ID: "p2", Name: "Maria", Role: "medium", IsPresent: true,
			Slots: []models.Slot{
				{ID: "s4", Name: "Tranca Rua", Category: "Exu", IsAvailable: true, Capacity: 2,
					Clients: []models.Client{{ID: "c1", Name: "Ana", Status: models.StatusScheduled}}},
				{ID: "s3", Name: "Pena Branca", Category: "Caboclo", IsAvailable: true, Capacity: 1,
					Clients: []models.Client{{ID: "c2", Name: "Bruno", Status: models.StatusScheduled}}},
				{ID: "s5", Name: "Vovo Catarina", Category: "Preto Velho", IsAvailable: false, Capacity: 2},
			},
		},
		{
			ID: "p1", Name: "Joao", Role: "dirigente", IsPresent: false,
			Slots: []models.Slot{
				{ID: "s1", Name: "Sete Flechas", Category: "Caboclo", IsAvailable: true, Capacity: 3},
			},
		},
	}}
}

func TestRoster_SortedIncludesEveryone(t *testing.T) {
	st := testState()
	got := Roster(testTax, st)

	require.Len(t, got, 2)
	require.Equal(t, "Joao", got[0].Name, "dirigente ranks before medium even when absent")
	require.Equal(t, "Maria", got[1].Name)

	// Maria's slots come back in category order
	names := []string{got[1].Slots[0].Name, got[1].Slots[1].Name, got[1].Slots[2].Name}
	require.Equal(t, []string{"Pena Branca", "Vovo Catarina", "Tranca Rua"}, names)

	// sorting the projection leaves the snapshot alone
	require.Equal(t, "s4", st.Providers[0].Slots[0].ID)
}

func TestAvailableProviders_FiltersBlockedSlots(t *testing.T) {
	st := testState()
	got := AvailableProviders(testTax, st, activeAll)

	require.Len(t, got, 1, "absent provider is excluded entirely")
	require.Equal(t, "Maria", got[0].Name)

	var names []string
	for _, s := range got[0].Slots {
		names = append(names, s.Name)
	}
	// Pena Branca is full (1/1) and Vovo Catarina unavailable
	require.Equal(t, []string{"Tranca Rua"}, names)
}

func TestAvailableProviders_CategoryGate(t *testing.T) {
	st := testState()

	got := AvailableProviders(testTax, st, []string{"Caboclo"})
	require.Empty(t, got, "Maria's only open slot is Exu")

	got = AvailableProviders(testTax, st, nil)
	require.Empty(t, got, "no active categories means nothing is assignable")
}

func TestAvailableSlots(t *testing.T) {
	st := testState()

	slots, err := AvailableSlots(testTax, st, "p2", activeAll)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.Equal(t, "Tranca Rua", slots[0].Name)

	slots, err = AvailableSlots(testTax, st, "p1", activeAll)
	require.NoError(t, err)
	require.Empty(t, slots, "an absent provider has no assignable slots")

	_, err = AvailableSlots(testTax, st, "nope", activeAll)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestSearchProviders(t *testing.T) {
	st := testState()

	tests := []struct {
		name   string
		q      string
		active []string
		want   []string
	}{
		{"empty query is the roster", "", nil, []string{"Joao", "Maria"}},
		{"provider name", "mar", nil, []string{"Maria"}},
		{"slot name", "flechas", nil, []string{"Joao"}},
		{"category", "exu", nil, []string{"Maria"}},
		{"client name", "ana", nil, []string{"Maria"}},
		{"case insensitive", "TRANCA", nil, []string{"Maria"}},
		{"no match", "zumbi", nil, nil},
		{"active categories narrow the base", "flechas", activeAll, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchProviders(testTax, st, tt.q, tt.active)
			var names []string
			for _, p := range got {
				names = append(names, p.Name)
			}
			require.Equal(t, tt.want, names)
		})
	}
}
