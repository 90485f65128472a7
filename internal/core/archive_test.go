package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gira-service/internal/models"
)

func TestArchiveSession(t *testing.T) {
	e := testEngine()
	fixed := time.Date(2025, 6, 13, 20, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	st, p1 := mustRegister(t, e, models.Empty(), "P1", SlotSpec{Name: "S1", Category: "Exu", Capacity: 3})
	st, p2 := mustRegister(t, e, st, "P2", SlotSpec{Name: "S1", Category: "Caboclo", Capacity: 3})
	st, p3 := mustRegister(t, e, st, "P3", SlotSpec{Name: "S1", Category: "Exu", Capacity: 3})

	st, a := mustAssign(t, e, st, p1.ID, p1.Slots[0].ID, "A")
	st, b := mustAssign(t, e, st, p1.ID, p1.Slots[0].ID, "B")
	st, _ = mustAssign(t, e, st, p1.ID, p1.Slots[0].ID, "C")
	st, d := mustAssign(t, e, st, p2.ID, p2.Slots[0].ID, "D")
	st, _ = mustAssign(t, e, st, p3.ID, p3.Slots[0].ID, "E")

	for _, mark := range []struct{ pid, sid, cid string }{
		{p1.ID, p1.Slots[0].ID, a.ID},
		{p1.ID, p1.Slots[0].ID, b.ID},
		{p2.ID, p2.Slots[0].ID, d.ID},
	} {
		var err error
		st, _, _, err = e.SetClientStatus(st, mark.pid, mark.sid, mark.cid, models.StatusAttended)
		require.NoError(t, err)
	}

	rec := e.ArchiveSession(st)

	require.NotEmpty(t, rec.ID)
	require.Equal(t, fixed, rec.Date)
	require.Equal(t, 3, rec.TotalAttended)
	// P3 had a client but nobody attended, so it is not in the summary
	require.Equal(t, []models.ProviderSummary{
		{ProviderName: "P1", AttendedCount: 2},
		{ProviderName: "P2", AttendedCount: 1},
	}, rec.Summary)

	// summarizing does not touch the live state
	require.Equal(t, 3, st.Providers[0].ClientCount())
}

func TestArchiveSession_NothingAttended(t *testing.T) {
	e := testEngine()
	st, p := mustRegister(t, e, models.Empty(), "P1", SlotSpec{Name: "S1", Category: "Exu", Capacity: 2})
	st, _ = mustAssign(t, e, st, p.ID, p.Slots[0].ID, "A")

	rec := e.ArchiveSession(st)
	require.Zero(t, rec.TotalAttended)
	require.Empty(t, rec.Summary)
}

func TestAppendArchiveThenReset(t *testing.T) {
	e := testEngine()
	st, p := mustRegister(t, e, models.Empty(), "P1", SlotSpec{Name: "S1", Category: "Exu", Capacity: 2})
	st, c := mustAssign(t, e, st, p.ID, p.Slots[0].ID, "A")
	st, _, _, err := e.SetClientStatus(st, p.ID, p.Slots[0].ID, c.ID, models.StatusAttended)
	require.NoError(t, err)

	rec := e.ArchiveSession(st)
	st, evs := e.AppendArchive(st, rec)
	require.Len(t, st.Archives, 1)
	require.Equal(t, SessionArchivedEvent{ArchiveID: rec.ID, TotalAttended: 1}, evs[0])

	st, _ = e.ResetSession(st)
	require.Empty(t, st.Providers[0].Slots[0].Clients)
	require.Len(t, st.Archives, 1, "reset keeps the history")

	// a second close archives an empty session on top of the first
	rec2 := e.ArchiveSession(st)
	st, _ = e.AppendArchive(st, rec2)
	require.Len(t, st.Archives, 2)
	require.Zero(t, st.Archives[1].TotalAttended)
}
