package medicalrecords_test

import (
	"context"
	"testing"

	"healthcare-portal/internal/adapters/storage/memory"
	"healthcare-portal/internal/domain/medicalrecords"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	svc := medicalrecords.NewService(memory.NewMedicalRecordRepo(), nil)

	_, err := svc.Get(ctx, "patient-1")
	assert.ErrorIs(t, err, medicalrecords.ErrNotFound)

	rec, err := svc.Upsert(ctx, "patient-1", medicalrecords.UpsertInput{
		Diagnoses:   []string{" Hypertension ", "", "Type 2 Diabetes"},
		Medications: []string{"Lisinopril"},
		BloodGroup:  medicalrecords.BloodOPos,
		HeightCM:    180,
		WeightKG:    85,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hypertension", "Type 2 Diabetes"}, rec.Diagnoses)
	assert.Empty(t, rec.Allergies)

	got, err := svc.Get(ctx, "patient-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// reemplazo completo
	_, err = svc.Upsert(ctx, "patient-1", medicalrecords.UpsertInput{Allergies: []string{"Penicillin"}})
	require.NoError(t, err)
	got, err = svc.Get(ctx, "patient-1")
	require.NoError(t, err)
	assert.Empty(t, got.Diagnoses)
	assert.Equal(t, []string{"Penicillin"}, got.Allergies)
	assert.Equal(t, medicalrecords.BloodGroup(""), got.BloodGroup)
}

func TestUpsert_Validation(t *testing.T) {
	ctx := context.Background()
	svc := medicalrecords.NewService(memory.NewMedicalRecordRepo(), nil)

	_, err := svc.Upsert(ctx, "patient-1", medicalrecords.UpsertInput{BloodGroup: "C+"})
	assert.ErrorIs(t, err, medicalrecords.ErrInvalidInput)

	_, err = svc.Upsert(ctx, "patient-1", medicalrecords.UpsertInput{HeightCM: -1})
	assert.ErrorIs(t, err, medicalrecords.ErrInvalidInput)

	_, err = svc.Upsert(ctx, " ", medicalrecords.UpsertInput{})
	assert.ErrorIs(t, err, medicalrecords.ErrInvalidInput)
}

func TestRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	svc := medicalrecords.NewService(memory.NewMedicalRecordRepo(), nil)

	_, err := svc.Upsert(ctx, "patient-2", medicalrecords.UpsertInput{Allergies: []string{"Pollen"}})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "patient-2")
	require.NoError(t, err)
	got.Allergies[0] = "changed"

	again, err := svc.Get(ctx, "patient-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pollen"}, again.Allergies)
}
