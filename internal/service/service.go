// Package service owns the single authoritative state instance. All
// mutations are serialized through one mutex so capacity checks and
// cascades observe a consistent snapshot; readers get immutable
// snapshots through an atomic pointer and are never blocked by writers.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"gira-service/api"
	"gira-service/internal/core"
	"gira-service/internal/models"
	"gira-service/internal/query"
	"gira-service/pkg/sl"
)

// Persister is the external persistence collaborator. LoadState falls
// back to an empty state when nothing usable is stored; SaveState
// failures are logged here, never retried.
type Persister interface {
	LoadState(ctx context.Context) (*models.State, error)
	SaveState(ctx context.Context, st *models.State) error
}

// Notifier consumes domain events. Informational only.
type Notifier interface {
	Notify(ctx context.Context, ev core.Event)
}

type Service struct {
	log      *slog.Logger
	eng      *core.Engine
	tax      models.Taxonomy
	store    Persister
	notifier Notifier

	mu    sync.Mutex
	state atomic.Pointer[models.State]
}

// New loads the persisted state, re-validates it against the store
// invariants and starts from the repaired snapshot. Integrity
// violations are reported, not fatal.
func New(log *slog.Logger, tax models.Taxonomy, store Persister, notifier Notifier) (*Service, error) {
	const op = "service.New"

	s := &Service{
		log:      log,
		eng:      core.New(tax),
		tax:      tax,
		store:    store,
		notifier: notifier,
	}

	st, err := store.LoadState(context.Background())
	if err != nil {
		log.Warn("Stored state unusable, starting empty", sl.Err(err))
		st = models.Empty()
	}

	repaired, issues := s.eng.Repair(st)
	if len(issues) > 0 {
		err := fmt.Errorf("%s: %w: %s", op, core.ErrDataIntegrity, strings.Join(issues, "; "))
		log.Error("Loaded state violated invariants, repaired", sl.Err(err))
	}
	s.state.Store(repaired)

	return s, nil
}

// Snapshot returns the current immutable state. Callers must not
// mutate it.
func (s *Service) Snapshot() *models.State {
	return s.state.Load()
}

// commit publishes the new snapshot, saves it and hands events to the
// notifier. Called with the mutation mutex held. A save failure does
// not fail the mutation.
func (s *Service) commit(ctx context.Context, next *models.State, events []core.Event) {
	s.state.Store(next)
	if err := s.store.SaveState(ctx, next); err != nil {
		s.log.Error("Failed to save state", sl.Err(err))
	}
	for _, ev := range events {
		s.notifier.Notify(ctx, ev)
	}
}

func clearedCount(events []core.Event) int {
	n := 0
	for _, ev := range events {
		if c, ok := ev.(core.ClientsClearedEvent); ok {
			n += c.Count
		}
	}
	return n
}

// #### Mutations ####

func (s *Service) RegisterProvider(ctx context.Context, req *api.ProviderRequest) (*api.ProviderResponse, error) {
	const op = "service.RegisterProvider"

	s.mu.Lock()
	defer s.mu.Unlock()

	next, p, events, err := s.eng.RegisterProvider(s.state.Load(), req.Name, req.Role, toSlotSpecs(req.Slots))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.commit(ctx, next, events)
	return providerResponse(s.tax, *p), nil
}

func (s *Service) EditProvider(ctx context.Context, providerID string, req *api.ProviderEditRequest) (*api.ProviderResponse, error) {
	const op = "service.EditProvider"

	s.mu.Lock()
	defer s.mu.Unlock()

	edit := core.ProviderEdit{Name: req.Name, Role: req.Role}
	if req.Slots != nil {
		edit.Slots = toSlotSpecs(req.Slots)
	}

	next, p, events, err := s.eng.EditProvider(s.state.Load(), providerID, edit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.commit(ctx, next, events)
	return providerResponse(s.tax, *p), nil
}

func (s *Service) RemoveProvider(ctx context.Context, providerID string) error {
	const op = "service.RemoveProvider"

	s.mu.Lock()
	defer s.mu.Unlock()

	next, events, err := s.eng.RemoveProvider(s.state.Load(), providerID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.commit(ctx, next, events)
	return nil
}

func (s *Service) TogglePresence(ctx context.Context, providerID string) (*api.PresenceResponse, error) {
	const op = "service.TogglePresence"

	s.mu.Lock()
	defer s.mu.Unlock()

	next, isPresent, events, err := s.eng.TogglePresence(s.state.Load(), providerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.commit(ctx, next, events)
	return &api.PresenceResponse{
		ProviderID:     providerID,
		IsPresent:      isPresent,
		ClearedClients: clearedCount(events),
	}, nil
}

func (s *Service) ToggleSlotAvailability(ctx context.Context, providerID, slotID string) (*api.AvailabilityResponse, error) {
	const op = "service.ToggleSlotAvailability"

	s.mu.Lock()
	defer s.mu.Unlock()

	next, isAvailable, events, err := s.eng.ToggleSlotAvailability(s.state.Load(), providerID, slotID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.commit(ctx, next, events)
	return &api.AvailabilityResponse{
		SlotID:         slotID,
		IsAvailable:    isAvailable,
		ClearedClients: clearedCount(events),
	}, nil
}

func (s *Service) AssignClient(ctx context.Context, providerID, slotID string, req *api.AssignRequest) (*api.ClientResponse, error) {
	const op = "service.AssignClient"

	s.mu.Lock()
	defer s.mu.Unlock()

	next, c, events, err := s.eng.AssignClient(s.state.Load(), providerID, slotID, req.Name, req.ActiveCategories)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.commit(ctx, next, events)
	return clientResponse(*c), nil
}

func (s *Service) RemoveClient(ctx context.Context, providerID, slotID, clientID string) error {
	const op = "service.RemoveClient"

	s.mu.Lock()
	defer s.mu.Unlock()

	next, events, err := s.eng.RemoveClient(s.state.Load(), providerID, slotID, clientID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.commit(ctx, next, events)
	return nil
}

func (s *Service) SetClientStatus(ctx context.Context, providerID, slotID, clientID string, status string) (*api.ClientResponse, error) {
	const op = "service.SetClientStatus"

	s.mu.Lock()
	defer s.mu.Unlock()

	next, newStatus, events, err := s.eng.SetClientStatus(s.state.Load(), providerID, slotID, clientID, models.ClientStatus(status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.commit(ctx, next, events)
	return &api.ClientResponse{ID: clientID, Status: string(newStatus)}, nil
}

func (s *Service) RenameClient(ctx context.Context, providerID, slotID, clientID string, req *api.RenameRequest) error {
	const op = "service.RenameClient"

	s.mu.Lock()
	defer s.mu.Unlock()

	next, events, err := s.eng.RenameClient(s.state.Load(), providerID, slotID, clientID, req.Name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.commit(ctx, next, events)
	return nil
}

// CloseSession archives attendance, appends the record to the history
// and resets the live session in one serialized step.
func (s *Service) CloseSession(ctx context.Context) (*api.ArchiveResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state.Load()
	rec := s.eng.ArchiveSession(st)
	next, events := s.eng.AppendArchive(st, rec)
	next, resetEvents := s.eng.ResetSession(next)

	s.commit(ctx, next, append(events, resetEvents...))
	return archiveResponse(rec), nil
}

// #### Queries ####

func (s *Service) Roster() []api.ProviderResponse {
	return providerResponses(s.tax, query.Roster(s.tax, s.state.Load()))
}

func (s *Service) AvailableProviders(activeCategories []string) []api.ProviderResponse {
	return providerResponses(s.tax, query.AvailableProviders(s.tax, s.state.Load(), activeCategories))
}

func (s *Service) AvailableSlots(providerID string, activeCategories []string) ([]api.SlotResponse, error) {
	const op = "service.AvailableSlots"

	slots, err := query.AvailableSlots(s.tax, s.state.Load(), providerID, activeCategories)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return slotResponses(slots), nil
}

func (s *Service) SearchProviders(q string, activeCategories []string) []api.ProviderResponse {
	return providerResponses(s.tax, query.SearchProviders(s.tax, s.state.Load(), q, activeCategories))
}

func (s *Service) History() []api.ArchiveResponse {
	st := s.state.Load()
	out := make([]api.ArchiveResponse, 0, len(st.Archives))
	for i := range st.Archives {
		out = append(out, *archiveResponse(st.Archives[i]))
	}
	return out
}
