package core

import "gira-service/internal/models"

// ArchiveSession summarizes attendance per provider without mutating
// the live state. Providers with zero attended clients are omitted from
// the summary, so TotalAttended is always the plain sum of the rows.
func (e *Engine) ArchiveSession(st *models.State) models.ArchiveRecord {
	rec := models.ArchiveRecord{
		ID:   models.NewID(),
		Date: e.now(),
	}
	for i := range st.Providers {
		n := st.Providers[i].AttendedCount()
		if n == 0 {
			continue
		}
		rec.Summary = append(rec.Summary, models.ProviderSummary{
			ProviderName:  st.Providers[i].Name,
			AttendedCount: n,
		})
		rec.TotalAttended += n
	}
	return rec
}

// AppendArchive adds rec to the append-only history. Records are never
// mutated after this point.
func (e *Engine) AppendArchive(st *models.State, rec models.ArchiveRecord) (*models.State, []Event) {
	next := withArchive(st, rec)
	events := []Event{SessionArchivedEvent{ArchiveID: rec.ID, TotalAttended: rec.TotalAttended}}
	return next, events
}
