package core

import "gira-service/internal/models"

// Copy-on-write helpers. A mutation copies only the path it touches:
// the providers slice header, the changed provider, that provider's
// slots slice, and the changed slot's clients slice. Untouched siblings
// and the archive history are shared with the previous snapshot, so
// readers holding an old snapshot never observe a torn store.

// withProvider returns a new state with the provider at index i replaced.
func withProvider(st *models.State, i int, p models.Provider) *models.State {
	providers := make([]models.Provider, len(st.Providers))
	copy(providers, st.Providers)
	providers[i] = p
	return &models.State{Providers: providers, Archives: st.Archives}
}

// withoutProvider returns a new state with the provider at index i removed.
func withoutProvider(st *models.State, i int) *models.State {
	providers := make([]models.Provider, 0, len(st.Providers)-1)
	providers = append(providers, st.Providers[:i]...)
	providers = append(providers, st.Providers[i+1:]...)
	return &models.State{Providers: providers, Archives: st.Archives}
}

// withNewProvider returns a new state with p appended.
func withNewProvider(st *models.State, p models.Provider) *models.State {
	providers := make([]models.Provider, len(st.Providers), len(st.Providers)+1)
	copy(providers, st.Providers)
	providers = append(providers, p)
	return &models.State{Providers: providers, Archives: st.Archives}
}

// withArchive returns a new state with rec appended to the history.
func withArchive(st *models.State, rec models.ArchiveRecord) *models.State {
	archives := make([]models.ArchiveRecord, len(st.Archives), len(st.Archives)+1)
	copy(archives, st.Archives)
	archives = append(archives, rec)
	return &models.State{Providers: st.Providers, Archives: archives}
}

// withSlot returns a copy of p with the slot at index i replaced. The
// slots slice is copied; sibling slots are shared.
func withSlot(p models.Provider, i int, s models.Slot) models.Provider {
	slots := make([]models.Slot, len(p.Slots))
	copy(slots, p.Slots)
	slots[i] = s
	p.Slots = slots
	return p
}

// withClients returns a copy of s with the clients replaced.
func withClients(s models.Slot, clients []models.Client) models.Slot {
	s.Clients = clients
	return s
}

// appendClient returns a fresh clients slice with c appended; the
// original backing array is never touched.
func appendClient(clients []models.Client, c models.Client) []models.Client {
	next := make([]models.Client, len(clients), len(clients)+1)
	copy(next, clients)
	return append(next, c)
}

// removeClientAt returns a fresh clients slice without the client at i.
func removeClientAt(clients []models.Client, i int) []models.Client {
	next := make([]models.Client, 0, len(clients)-1)
	next = append(next, clients[:i]...)
	next = append(next, clients[i+1:]...)
	return next
}

// setClientAt returns a fresh clients slice with the client at i replaced.
func setClientAt(clients []models.Client, i int, c models.Client) []models.Client {
	next := make([]models.Client, len(clients))
	copy(next, clients)
	next[i] = c
	return next
}

// clearedSlots returns a fresh slots slice with every slot's clients
// emptied. Slots that were already empty are shared as-is.
func clearedSlots(slots []models.Slot) []models.Slot {
	next := make([]models.Slot, len(slots))
	copy(next, slots)
	for i := range next {
		if len(next[i].Clients) > 0 {
			next[i].Clients = nil
		}
	}
	return next
}
