package core

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"gira-service/internal/models"
)

// Random walk over the mutation surface: after every accepted operation
// the ownership tree must still satisfy the store invariants. Fixed seed
// keeps failures reproducible.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	e := testEngine()
	rng := rand.New(rand.NewSource(20250613))
	st := models.Empty()

	categories := []string{"Caboclo", "Preto Velho", "Exu"}
	statuses := []models.ClientStatus{models.StatusScheduled, models.StatusAttended, models.StatusAbsent}

	pick := func(n int) int { return rng.Intn(n) }

	randomProvider := func() (models.Provider, bool) {
		if len(st.Providers) == 0 {
			return models.Provider{}, false
		}
		return st.Providers[pick(len(st.Providers))], true
	}
	randomSlot := func() (models.Provider, models.Slot, bool) {
		p, ok := randomProvider()
		if !ok || len(p.Slots) == 0 {
			return models.Provider{}, models.Slot{}, false
		}
		return p, p.Slots[pick(len(p.Slots))], true
	}
	randomClient := func() (models.Provider, models.Slot, models.Client, bool) {
		p, s, ok := randomSlot()
		if !ok || len(s.Clients) == 0 {
			return models.Provider{}, models.Slot{}, models.Client{}, false
		}
		return p, s, s.Clients[pick(len(s.Clients))], true
	}

	for step := 0; step < 2000; step++ {
		var (
			next *models.State
			err  error
		)

		switch pick(10) {
		case 0: // register
			specs := make([]SlotSpec, 1+pick(3))
			for i := range specs {
				specs[i] = SlotSpec{
					Name:     fmt.Sprintf("slot-%d-%d", step, i),
					Category: categories[pick(len(categories))],
					Capacity: pick(4),
					Order:    pick(5),
				}
			}
			next, _, _, err = e.RegisterProvider(st, fmt.Sprintf("provider-%d", step), "", specs)
		case 1: // remove provider
			if p, ok := randomProvider(); ok && pick(4) == 0 {
				next, _, err = e.RemoveProvider(st, p.ID)
			}
		case 2: // toggle presence
			if p, ok := randomProvider(); ok {
				next, _, _, err = e.TogglePresence(st, p.ID)
			}
		case 3: // toggle availability
			if p, s, ok := randomSlot(); ok {
				next, _, _, err = e.ToggleSlotAvailability(st, p.ID, s.ID)
			}
		case 4, 5, 6: // assign, weighted up to stress capacity
			if p, s, ok := randomSlot(); ok {
				next, _, _, err = e.AssignClient(st, p.ID, s.ID, fmt.Sprintf("client-%d", step), categories)
			}
		case 7: // remove client
			if p, s, c, ok := randomClient(); ok {
				next, _, err = e.RemoveClient(st, p.ID, s.ID, c.ID)
			}
		case 8: // set status
			if p, s, c, ok := randomClient(); ok {
				next, _, _, err = e.SetClientStatus(st, p.ID, s.ID, c.ID, statuses[pick(len(statuses))])
			}
		case 9: // close session occasionally
			if pick(20) == 0 {
				rec := e.ArchiveSession(st)
				next, _ = e.AppendArchive(st, rec)
				next, _ = e.ResetSession(next)
			}
		}

		if err != nil {
			require.Nil(t, next, "step %d: error with a state produced", step)
			continue
		}
		if next != nil {
			st = next
		}
		requireInvariants(t, e, st, step)
	}
}

func requireInvariants(t *testing.T, e *Engine, st *models.State, step int) {
	t.Helper()

	providerIDs := make(map[string]struct{}, len(st.Providers))
	for _, p := range st.Providers {
		_, dup := providerIDs[p.ID]
		require.False(t, dup, "step %d: provider id %q reused", step, p.ID)
		providerIDs[p.ID] = struct{}{}

		slotIDs := make(map[string]struct{}, len(p.Slots))
		for _, s := range p.Slots {
			_, dup := slotIDs[s.ID]
			require.False(t, dup, "step %d: slot id %q reused", step, s.ID)
			slotIDs[s.ID] = struct{}{}

			require.LessOrEqual(t, len(s.Clients), s.Capacity,
				"step %d: slot %q over capacity", step, s.Name)
			if !p.IsPresent {
				require.Empty(t, s.Clients, "step %d: clients under absent provider %q", step, p.Name)
			}
			if !s.IsAvailable {
				require.Empty(t, s.Clients, "step %d: clients on unavailable slot %q", step, s.Name)
			}
			for _, c := range s.Clients {
				require.True(t, c.Status.Valid(), "step %d: client %q has status %q", step, c.Name, c.Status)
			}
		}
	}

	for _, rec := range st.Archives {
		sum := 0
		for _, row := range rec.Summary {
			require.Positive(t, row.AttendedCount, "step %d: zero-attendance row in archive", step)
			sum += row.AttendedCount
		}
		require.Equal(t, sum, rec.TotalAttended, "step %d: archive total out of sync", step)
	}

	// repair on a live state must be a no-op
	_, issues := e.Repair(st)
	require.Empty(t, issues, "step %d: live state needed repair", step)
}
