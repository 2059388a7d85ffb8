package memory

import (
	"context"
	"testing"
	"time"

	"healthcare-portal/internal/domain/appointments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentRepo_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepo()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// fechas desordenadas: el repo no ordena por fecha
	ids := []string{"appt-3", "appt-1", "appt-2"}
	for i, id := range ids {
		require.NoError(t, repo.Create(ctx, appointments.Appointment{
			ID:        id,
			PatientID: "p1",
			DoctorID:  "d1",
			Date:      base.Add(time.Duration(len(ids)-i) * time.Hour),
			Status:    appointments.StatusPending,
		}))
	}
	require.NoError(t, repo.Update(ctx, appointments.Appointment{
		ID:        "appt-3",
		PatientID: "p1",
		DoctorID:  "d1",
		Date:      base,
		Status:    appointments.StatusApproved,
	}))

	items, err := repo.List(ctx, appointments.ListFilter{})
	require.NoError(t, err)
	got := make([]string, 0, len(items))
	for _, a := range items {
		got = append(got, a.ID)
	}
	assert.Equal(t, ids, got)

	approved, err := repo.List(ctx, appointments.ListFilter{Statuses: []appointments.Status{appointments.StatusApproved}})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "appt-3", approved[0].ID)

	assert.Error(t, repo.Create(ctx, appointments.Appointment{ID: "appt-1"}))
	assert.ErrorIs(t, repo.Update(ctx, appointments.Appointment{ID: "missing"}), appointments.ErrNotFound)
}

func TestAppointmentRepo_SuggestedDateIsCopied(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepo()

	suggested := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	in := appointments.Appointment{
		ID:            "appt-1",
		PatientID:     "p1",
		DoctorID:      "d1",
		Date:          time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
		Status:        appointments.StatusRescheduled,
		SuggestedDate: &suggested,
	}
	require.NoError(t, repo.Create(ctx, in))

	// mutar el valor del llamador no toca el repo
	*in.SuggestedDate = suggested.Add(24 * time.Hour)

	got, err := repo.GetByID(ctx, "appt-1")
	require.NoError(t, err)
	require.NotNil(t, got.SuggestedDate)
	assert.Equal(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), *got.SuggestedDate)

	// ni mutar lo devuelto por GetByID o List
	*got.SuggestedDate = time.Time{}
	items, err := repo.List(ctx, appointments.ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), *items[0].SuggestedDate)

	*items[0].SuggestedDate = time.Time{}
	again, err := repo.GetByID(ctx, "appt-1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), *again.SuggestedDate)
}
