// Package core implements the mutation engine over the provider/slot/
// client ownership tree. Every operation is pure: it takes a state
// snapshot and returns a new snapshot plus emitted events, or an error
// with no state produced. Cascades (clearing clients when presence or
// availability drops) happen inside the same operation, never as
// deferred cleanup.
package core

import (
	"fmt"
	"time"

	"gira-service/internal/models"
	"gira-service/internal/rules"
)

type Engine struct {
	tax models.Taxonomy
	now func() time.Time
}

func New(tax models.Taxonomy) *Engine {
	return &Engine{tax: tax, now: time.Now}
}

// SlotSpec describes one slot in a register or edit request. ID is
// empty for new slots; on edit a non-empty ID addresses an existing slot.
type SlotSpec struct {
	ID       string
	Name     string
	Category string
	Capacity int
	Order    int
}

// ProviderEdit carries the changes of an EditProvider call. Nil fields
// are left unchanged; a non-nil Slots is the full new slot list, diffed
// against the current one by slot id.
type ProviderEdit struct {
	Name  *string
	Role  *string
	Slots []SlotSpec
}

func (e *Engine) validateSlotSpecs(specs []SlotSpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("%w: at least one slot is required", ErrValidation)
	}
	seen := make(map[string]struct{}, len(specs))
	for _, sp := range specs {
		if sp.Name == "" {
			return fmt.Errorf("%w: slot name is empty", ErrValidation)
		}
		if sp.Capacity < 0 {
			return fmt.Errorf("%w: slot %q has negative capacity", ErrValidation, sp.Name)
		}
		if !e.tax.ValidCategory(sp.Category) {
			return fmt.Errorf("%w: slot %q has unknown category %q", ErrValidation, sp.Name, sp.Category)
		}
		if _, ok := seen[sp.Name]; ok {
			return fmt.Errorf("%w: slot name %q appears twice", ErrDuplicate, sp.Name)
		}
		seen[sp.Name] = struct{}{}
	}
	return nil
}

// RegisterProvider creates a provider with IsPresent true and every
// slot available.
func (e *Engine) RegisterProvider(st *models.State, name, role string, specs []SlotSpec) (*models.State, *models.Provider, []Event, error) {
	if name == "" {
		return nil, nil, nil, fmt.Errorf("%w: provider name is empty", ErrValidation)
	}
	if !e.tax.ValidRole(role) {
		return nil, nil, nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if err := e.validateSlotSpecs(specs); err != nil {
		return nil, nil, nil, err
	}

	p := models.Provider{
		ID:        models.NewID(),
		Name:      name,
		Role:      role,
		IsPresent: true,
		CreatedAt: e.now(),
		Slots:     make([]models.Slot, 0, len(specs)),
	}
	for _, sp := range specs {
		p.Slots = append(p.Slots, models.Slot{
			ID:          models.NewID(),
			Name:        sp.Name,
			Category:    sp.Category,
			IsAvailable: true,
			Capacity:    sp.Capacity,
			Order:       sp.Order,
		})
	}

	next := withNewProvider(st, p)
	events := []Event{ProviderRegisteredEvent{ProviderID: p.ID, ProviderName: p.Name, SlotCount: len(p.Slots)}}
	return next, &p, events, nil
}

// RemoveProvider deletes the provider and everything it owns. Any
// confirmation flow belongs to the caller.
func (e *Engine) RemoveProvider(st *models.State, providerID string) (*models.State, []Event, error) {
	pi := st.ProviderIndex(providerID)
	if pi < 0 {
		return nil, nil, fmt.Errorf("%w: provider %q", ErrNotFound, providerID)
	}
	p := st.Providers[pi]
	next := withoutProvider(st, pi)
	events := []Event{ProviderRemovedEvent{ProviderID: p.ID, ProviderName: p.Name}}
	return next, events, nil
}

// EditProvider applies a partial update. Slots are diffed by id: known
// ids are updated in place (clients and availability kept), ids absent
// from the request are removed, specs without an id create new slots.
// Removing a slot that still has clients is a conflict; shrinking a
// slot's capacity below its occupancy is a capacity error.
func (e *Engine) EditProvider(st *models.State, providerID string, edit ProviderEdit) (*models.State, *models.Provider, []Event, error) {
	pi := st.ProviderIndex(providerID)
	if pi < 0 {
		return nil, nil, nil, fmt.Errorf("%w: provider %q", ErrNotFound, providerID)
	}
	p := st.Providers[pi]

	if edit.Name != nil {
		if *edit.Name == "" {
			return nil, nil, nil, fmt.Errorf("%w: provider name is empty", ErrValidation)
		}
		p.Name = *edit.Name
	}
	if edit.Role != nil {
		if !e.tax.ValidRole(*edit.Role) {
			return nil, nil, nil, fmt.Errorf("%w: unknown role %q", ErrValidation, *edit.Role)
		}
		p.Role = *edit.Role
	}

	if edit.Slots != nil {
		if err := e.validateSlotSpecs(edit.Slots); err != nil {
			return nil, nil, nil, err
		}

		kept := make(map[string]struct{}, len(edit.Slots))
		slots := make([]models.Slot, 0, len(edit.Slots))
		for _, sp := range edit.Slots {
			if sp.ID == "" {
				slots = append(slots, models.Slot{
					ID:          models.NewID(),
					Name:        sp.Name,
					Category:    sp.Category,
					IsAvailable: true,
					Capacity:    sp.Capacity,
					Order:       sp.Order,
				})
				continue
			}
			si := p.SlotIndex(sp.ID)
			if si < 0 {
				return nil, nil, nil, fmt.Errorf("%w: slot %q", ErrNotFound, sp.ID)
			}
			old := p.Slots[si]
			if sp.Capacity < len(old.Clients) {
				return nil, nil, nil, fmt.Errorf("%w: slot %q capacity %d is below its %d clients",
					ErrCapacity, old.Name, sp.Capacity, len(old.Clients))
			}
			old.Name = sp.Name
			old.Category = sp.Category
			old.Capacity = sp.Capacity
			old.Order = sp.Order
			slots = append(slots, old)
			kept[sp.ID] = struct{}{}
		}
		for i := range p.Slots {
			if _, ok := kept[p.Slots[i].ID]; ok {
				continue
			}
			if len(p.Slots[i].Clients) > 0 {
				return nil, nil, nil, fmt.Errorf("%w: cannot remove slot %q with %d active clients",
					ErrConflict, p.Slots[i].Name, len(p.Slots[i].Clients))
			}
		}
		p.Slots = slots
	}

	next := withProvider(st, pi, p)
	events := []Event{ProviderEditedEvent{ProviderID: p.ID, ProviderName: p.Name}}
	return next, &p, events, nil
}

// TogglePresence flips the provider's presence. Dropping to absent
// clears every slot's clients in the same operation; coming back never
// restores them.
func (e *Engine) TogglePresence(st *models.State, providerID string) (*models.State, bool, []Event, error) {
	pi := st.ProviderIndex(providerID)
	if pi < 0 {
		return nil, false, nil, fmt.Errorf("%w: provider %q", ErrNotFound, providerID)
	}
	p := st.Providers[pi]
	p.IsPresent = !p.IsPresent

	var events []Event
	if !p.IsPresent {
		cleared := p.ClientCount()
		p.Slots = clearedSlots(p.Slots)
		if cleared > 0 {
			events = append(events, ClientsClearedEvent{ProviderName: p.Name, Count: cleared})
		}
	}
	events = append(events, PresenceToggledEvent{ProviderID: p.ID, ProviderName: p.Name, IsPresent: p.IsPresent})
	return withProvider(st, pi, p), p.IsPresent, events, nil
}

// ToggleSlotAvailability flips one slot's availability, clearing its
// clients when it goes unavailable.
func (e *Engine) ToggleSlotAvailability(st *models.State, providerID, slotID string) (*models.State, bool, []Event, error) {
	pi := st.ProviderIndex(providerID)
	if pi < 0 {
		return nil, false, nil, fmt.Errorf("%w: provider %q", ErrNotFound, providerID)
	}
	p := st.Providers[pi]
	si := p.SlotIndex(slotID)
	if si < 0 {
		return nil, false, nil, fmt.Errorf("%w: slot %q", ErrNotFound, slotID)
	}
	s := p.Slots[si]
	s.IsAvailable = !s.IsAvailable

	var events []Event
	if !s.IsAvailable {
		if n := len(s.Clients); n > 0 {
			events = append(events, ClientsClearedEvent{ProviderName: p.Name, SlotName: s.Name, Count: n})
		}
		s.Clients = nil
	}
	events = append(events, SlotAvailabilityToggledEvent{ProviderID: p.ID, SlotID: s.ID, SlotName: s.Name, IsAvailable: s.IsAvailable})
	return withProvider(st, pi, withSlot(p, si, s)), s.IsAvailable, events, nil
}

// AssignClient appends a new scheduled client, gated by the capacity
// and availability rules.
func (e *Engine) AssignClient(st *models.State, providerID, slotID, clientName string, activeCategories []string) (*models.State, *models.Client, []Event, error) {
	if clientName == "" {
		return nil, nil, nil, fmt.Errorf("%w: client name is empty", ErrValidation)
	}
	pi := st.ProviderIndex(providerID)
	if pi < 0 {
		return nil, nil, nil, fmt.Errorf("%w: provider %q", ErrNotFound, providerID)
	}
	p := st.Providers[pi]
	si := p.SlotIndex(slotID)
	if si < 0 {
		return nil, nil, nil, fmt.Errorf("%w: slot %q", ErrNotFound, slotID)
	}
	s := p.Slots[si]

	if reason := rules.AssignBlock(p, s, activeCategories); reason != "" {
		return nil, nil, nil, fmt.Errorf("%w: slot %q: %s", ErrCapacity, s.Name, reason)
	}

	c := models.Client{ID: models.NewID(), Name: clientName, Status: models.StatusScheduled}
	s = withClients(s, appendClient(s.Clients, c))
	next := withProvider(st, pi, withSlot(p, si, s))
	events := []Event{ClientAssignedEvent{ProviderName: p.Name, SlotName: s.Name, ClientID: c.ID, ClientName: c.Name}}
	return next, &c, events, nil
}

// RemoveClient removes the client unconditionally.
func (e *Engine) RemoveClient(st *models.State, providerID, slotID, clientID string) (*models.State, []Event, error) {
	pi := st.ProviderIndex(providerID)
	if pi < 0 {
		return nil, nil, fmt.Errorf("%w: provider %q", ErrNotFound, providerID)
	}
	p := st.Providers[pi]
	si := p.SlotIndex(slotID)
	if si < 0 {
		return nil, nil, fmt.Errorf("%w: slot %q", ErrNotFound, slotID)
	}
	s := p.Slots[si]
	ci := s.ClientIndex(clientID)
	if ci < 0 {
		return nil, nil, fmt.Errorf("%w: client %q", ErrNotFound, clientID)
	}
	removed := s.Clients[ci]
	s = withClients(s, removeClientAt(s.Clients, ci))
	next := withProvider(st, pi, withSlot(p, si, s))
	events := []Event{ClientRemovedEvent{ProviderName: p.Name, SlotName: s.Name, ClientName: removed.Name}}
	return next, events, nil
}

// SetClientStatus sets the client's status. Setting the status the
// client already has resets it to scheduled: marking an attended client
// attended again un-marks it.
func (e *Engine) SetClientStatus(st *models.State, providerID, slotID, clientID string, status models.ClientStatus) (*models.State, models.ClientStatus, []Event, error) {
	if !status.Valid() {
		return nil, "", nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	pi := st.ProviderIndex(providerID)
	if pi < 0 {
		return nil, "", nil, fmt.Errorf("%w: provider %q", ErrNotFound, providerID)
	}
	p := st.Providers[pi]
	si := p.SlotIndex(slotID)
	if si < 0 {
		return nil, "", nil, fmt.Errorf("%w: slot %q", ErrNotFound, slotID)
	}
	s := p.Slots[si]
	ci := s.ClientIndex(clientID)
	if ci < 0 {
		return nil, "", nil, fmt.Errorf("%w: client %q", ErrNotFound, clientID)
	}

	c := s.Clients[ci]
	if c.Status == status {
		c.Status = models.StatusScheduled
	} else {
		c.Status = status
	}
	s = withClients(s, setClientAt(s.Clients, ci, c))
	next := withProvider(st, pi, withSlot(p, si, s))
	events := []Event{ClientStatusChangedEvent{ClientID: c.ID, ClientName: c.Name, Status: c.Status}}
	return next, c.Status, events, nil
}

// RenameClient updates the client's name; renaming to the current name
// is a no-op that still succeeds.
func (e *Engine) RenameClient(st *models.State, providerID, slotID, clientID, newName string) (*models.State, []Event, error) {
	if newName == "" {
		return nil, nil, fmt.Errorf("%w: client name is empty", ErrValidation)
	}
	pi := st.ProviderIndex(providerID)
	if pi < 0 {
		return nil, nil, fmt.Errorf("%w: provider %q", ErrNotFound, providerID)
	}
	p := st.Providers[pi]
	si := p.SlotIndex(slotID)
	if si < 0 {
		return nil, nil, fmt.Errorf("%w: slot %q", ErrNotFound, slotID)
	}
	s := p.Slots[si]
	ci := s.ClientIndex(clientID)
	if ci < 0 {
		return nil, nil, fmt.Errorf("%w: client %q", ErrNotFound, clientID)
	}

	c := s.Clients[ci]
	if c.Name == newName {
		return st, nil, nil
	}
	oldName := c.Name
	c.Name = newName
	s = withClients(s, setClientAt(s.Clients, ci, c))
	next := withProvider(st, pi, withSlot(p, si, s))
	events := []Event{ClientRenamedEvent{ClientID: c.ID, OldName: oldName, NewName: newName}}
	return next, events, nil
}

// ResetSession clears every client of every provider, leaving presence
// and availability flags untouched. Used by the close-session flow
// after archival.
func (e *Engine) ResetSession(st *models.State) (*models.State, []Event) {
	var events []Event
	providers := make([]models.Provider, len(st.Providers))
	copy(providers, st.Providers)
	for i := range providers {
		cleared := providers[i].ClientCount()
		if cleared == 0 {
			continue
		}
		providers[i].Slots = clearedSlots(providers[i].Slots)
		events = append(events, ClientsClearedEvent{ProviderName: providers[i].Name, Count: cleared})
	}
	return &models.State{Providers: providers, Archives: st.Archives}, events
}
