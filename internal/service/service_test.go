package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"gira-service/api"
	"gira-service/internal/core"
	"gira-service/internal/models"
)

var testTax = models.Taxonomy{
	Categories: []string{"Caboclo", "Preto Velho", "Exu"},
	Roles:      []string{"dirigente", "medium"},
}

var activeAll = []string{"Caboclo", "Preto Velho", "Exu"}

type memStore struct {
	mu      sync.Mutex
	state   *models.State
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) LoadState(ctx context.Context) (*models.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return models.Empty(), m.loadErr
	}
	if m.state == nil {
		return models.Empty(), nil
	}
	return m.state, nil
}

func (m *memStore) SaveState(ctx context.Context, st *models.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.state = st
	return nil
}

type memNotifier struct {
	mu     sync.Mutex
	events []core.Event
}

func (m *memNotifier) Notify(ctx context.Context, ev core.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

func (m *memNotifier) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, ev := range m.events {
		out[i] = ev.EventName()
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, store *memStore) (*Service, *memNotifier) {
	t.Helper()
	notifier := &memNotifier{}
	s, err := New(discardLogger(), testTax, store, notifier)
	require.NoError(t, err)
	return s, notifier
}

func registerProvider(t *testing.T, s *Service, name string, capacity int) *api.ProviderResponse {
	t.Helper()
	p, err := s.RegisterProvider(context.Background(), &api.ProviderRequest{
		Name:  name,
		Slots: []api.SlotPayload{{Name: "S1", Category: "Exu", Capacity: capacity}},
	})
	require.NoError(t, err)
	return p
}

func TestNew_StartsEmptyOnLoadError(t *testing.T) {
	store := &memStore{loadErr: errors.New("disk on fire")}
	s, _ := newTestService(t, store)

	require.Empty(t, s.Roster())
}

func TestNew_RepairsLoadedState(t *testing.T) {
	store := &memStore{state: &models.State{Providers: []models.Provider{
		{ID: "p1", Name: "ok", IsPresent: true},
		{ID: "p2", Name: ""}, // unrepresentable, dropped on load
	}}}
	s, _ := newTestService(t, store)

	roster := s.Roster()
	require.Len(t, roster, 1)
	require.Equal(t, "ok", roster[0].Name)
}

func TestMutationSavesAndNotifies(t *testing.T) {
	store := &memStore{}
	s, notifier := newTestService(t, store)

	p := registerProvider(t, s, "P1", 2)
	require.Equal(t, 1, store.saves)
	require.Equal(t, []string{"provider_registered"}, notifier.names())

	_, err := s.AssignClient(context.Background(), p.ID, p.Slots[0].ID, &api.AssignRequest{
		Name: "A", ActiveCategories: activeAll,
	})
	require.NoError(t, err)
	require.Equal(t, 2, store.saves)
	require.Equal(t, []string{"provider_registered", "client_assigned"}, notifier.names())

	// persisted snapshot matches the live one
	require.Same(t, s.Snapshot(), store.state)
}

func TestSaveFailureDoesNotFailMutation(t *testing.T) {
	store := &memStore{saveErr: errors.New("broken pipe")}
	s, _ := newTestService(t, store)

	p := registerProvider(t, s, "P1", 2)
	require.NotEmpty(t, p.ID)
	require.Len(t, s.Roster(), 1)
}

func TestFailedMutationChangesNothing(t *testing.T) {
	store := &memStore{}
	s, notifier := newTestService(t, store)
	registerProvider(t, s, "P1", 2)

	before := s.Snapshot()
	savesBefore := store.saves

	_, err := s.AssignClient(context.Background(), "nope", "nope", &api.AssignRequest{Name: "A", ActiveCategories: activeAll})
	require.ErrorIs(t, err, core.ErrNotFound)
	require.Same(t, before, s.Snapshot())
	require.Equal(t, savesBefore, store.saves)
	require.Equal(t, []string{"provider_registered"}, notifier.names())
}

func TestTogglePresence_ReportsClearedClients(t *testing.T) {
	store := &memStore{}
	s, _ := newTestService(t, store)
	p := registerProvider(t, s, "P1", 3)

	for _, name := range []string{"A", "B"} {
		_, err := s.AssignClient(context.Background(), p.ID, p.Slots[0].ID, &api.AssignRequest{Name: name, ActiveCategories: activeAll})
		require.NoError(t, err)
	}

	resp, err := s.TogglePresence(context.Background(), p.ID)
	require.NoError(t, err)
	require.False(t, resp.IsPresent)
	require.Equal(t, 2, resp.ClearedClients)

	resp, err = s.TogglePresence(context.Background(), p.ID)
	require.NoError(t, err)
	require.True(t, resp.IsPresent)
	require.Zero(t, resp.ClearedClients)
}

// Ten writers race for three seats; the mutex must let exactly three in.
func TestConcurrentAssignsRespectCapacity(t *testing.T) {
	store := &memStore{}
	s, _ := newTestService(t, store)
	p := registerProvider(t, s, "P1", 3)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.AssignClient(context.Background(), p.ID, p.Slots[0].ID, &api.AssignRequest{
				Name: "client", ActiveCategories: activeAll,
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			require.ErrorIs(t, err, core.ErrCapacity)
		}
	}
	require.Equal(t, 3, ok)

	st := s.Snapshot()
	require.Len(t, st.Providers[0].Slots[0].Clients, 3)
}

func TestCloseSession(t *testing.T) {
	store := &memStore{}
	s, notifier := newTestService(t, store)
	p := registerProvider(t, s, "P1", 3)

	c, err := s.AssignClient(context.Background(), p.ID, p.Slots[0].ID, &api.AssignRequest{Name: "A", ActiveCategories: activeAll})
	require.NoError(t, err)
	_, err = s.SetClientStatus(context.Background(), p.ID, p.Slots[0].ID, c.ID, "attended")
	require.NoError(t, err)

	archive, err := s.CloseSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, archive.TotalAttended)
	require.Equal(t, []api.ProviderSummaryResponse{{ProviderName: "P1", AttendedCount: 1}}, archive.Summary)

	history := s.History()
	require.Len(t, history, 1)
	require.Equal(t, archive.ID, history[0].ID)

	// the live session is empty again
	st := s.Snapshot()
	require.Zero(t, st.Providers[0].ClientCount())

	names := notifier.names()
	require.Contains(t, names, "session_archived")
	require.Contains(t, names, "clients_cleared")
}

func TestStatusToggleThroughService(t *testing.T) {
	store := &memStore{}
	s, _ := newTestService(t, store)
	p := registerProvider(t, s, "P1", 2)

	c, err := s.AssignClient(context.Background(), p.ID, p.Slots[0].ID, &api.AssignRequest{Name: "A", ActiveCategories: activeAll})
	require.NoError(t, err)

	resp, err := s.SetClientStatus(context.Background(), p.ID, p.Slots[0].ID, c.ID, "absent")
	require.NoError(t, err)
	require.Equal(t, "absent", resp.Status)

	resp, err = s.SetClientStatus(context.Background(), p.ID, p.Slots[0].ID, c.ID, "absent")
	require.NoError(t, err)
	require.Equal(t, "scheduled", resp.Status)

	_, err = s.SetClientStatus(context.Background(), p.ID, p.Slots[0].ID, c.ID, "vanished")
	require.ErrorIs(t, err, core.ErrValidation)
}

func TestQueriesSeeCommittedState(t *testing.T) {
	store := &memStore{}
	s, _ := newTestService(t, store)
	p := registerProvider(t, s, "P1", 2)

	available := s.AvailableProviders(activeAll)
	require.Len(t, available, 1)

	slots, err := s.AvailableSlots(p.ID, activeAll)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	_, err = s.AvailableSlots("nope", activeAll)
	require.ErrorIs(t, err, core.ErrNotFound)

	found := s.SearchProviders("p1", nil)
	require.Len(t, found, 1)
}
