package users_test

import (
	"context"
	"testing"

	"healthcare-portal/internal/adapters/storage/memory"
	"healthcare-portal/internal/domain/users"
	"healthcare-portal/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *users.Service {
	t.Helper()
	return users.NewService(memory.NewUserRepo(), nil)
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	u, temp, err := svc.Create(ctx, users.CreateInput{
		Name:  "Dr. Sarah Smith",
		Email: "  Sarah@Clinic.com ",
		Role:  auth.RoleDoctor,
	})
	require.NoError(t, err)
	assert.Len(t, temp, 8)
	assert.Equal(t, "sarah@clinic.com", u.Email)
	assert.True(t, u.MustChangePassword)
	require.NotNil(t, u.Doctor)
	assert.Nil(t, u.Patient)

	got, err := svc.Authenticate(ctx, "SARAH@clinic.com", temp)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "sarah@clinic.com", "wrong-password")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@clinic.com", temp)
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, _, err := svc.Create(ctx, users.CreateInput{Name: "A", Email: "a@b.com", Role: auth.RolePatient})
	assert.ErrorIs(t, err, users.ErrInvalidInput)

	_, _, err = svc.Create(ctx, users.CreateInput{Name: "Alice", Email: "not-an-email", Role: auth.RolePatient})
	assert.ErrorIs(t, err, users.ErrInvalidInput)

	_, _, err = svc.Create(ctx, users.CreateInput{Name: "Alice", Email: "a@b.com", Role: "nurse"})
	assert.ErrorIs(t, err, users.ErrInvalidInput)

	_, _, err = svc.Create(ctx, users.CreateInput{Name: "Alice", Email: "a@b.com", Role: auth.RolePatient})
	require.NoError(t, err)

	_, _, err = svc.Create(ctx, users.CreateInput{Name: "Alice Two", Email: "A@B.com", Role: auth.RolePatient})
	assert.ErrorIs(t, err, users.ErrConflict)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	u, temp, err := svc.Create(ctx, users.CreateInput{Name: "Alice", Email: "alice@example.com", Role: auth.RolePatient})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, u.ID, "", "short"), users.ErrInvalidInput)

	// forzado: no pide la actual
	require.NoError(t, svc.ChangePassword(ctx, u.ID, "", "new-secret-1"))

	got, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.MustChangePassword)

	_, err = svc.Authenticate(ctx, "alice@example.com", temp)
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)

	assert.ErrorIs(t, svc.ChangePassword(ctx, u.ID, "bad-current", "new-secret-2"), users.ErrInvalidCredentials)
	require.NoError(t, svc.ChangePassword(ctx, u.ID, "new-secret-1", "new-secret-2"))

	_, err = svc.Authenticate(ctx, "alice@example.com", "new-secret-2")
	assert.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	u, _, err := svc.Create(ctx, users.CreateInput{Name: "Alice", Email: "alice@example.com", Role: auth.RolePatient})
	require.NoError(t, err)
	require.NoError(t, svc.ChangePassword(ctx, u.ID, "", "new-secret-1"))

	temp, err := svc.ResetPassword(ctx, u.ID)
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "alice@example.com", temp)
	require.NoError(t, err)
	assert.True(t, got.MustChangePassword)

	_, err = svc.ResetPassword(ctx, "missing")
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	p, _, err := svc.Create(ctx, users.CreateInput{Name: "Alice", Email: "alice@example.com", Role: auth.RolePatient})
	require.NoError(t, err)

	name := "Alice Johnson"
	got, err := svc.UpdateProfile(ctx, p.ID, users.UpdateProfileInput{
		Name:    &name,
		Patient: &users.PatientProfile{Phone: "555-0101", Gender: users.GenderFemale},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", got.Name)
	assert.Equal(t, "555-0101", got.Patient.Phone)

	_, err = svc.UpdateProfile(ctx, p.ID, users.UpdateProfileInput{Doctor: &users.DoctorProfile{Specialty: "x"}})
	assert.ErrorIs(t, err, users.ErrInvalidInput)

	_, err = svc.UpdateProfile(ctx, p.ID, users.UpdateProfileInput{Patient: &users.PatientProfile{Gender: "Unknown"}})
	assert.ErrorIs(t, err, users.ErrInvalidInput)

	blank := " "
	_, err = svc.UpdateProfile(ctx, p.ID, users.UpdateProfileInput{Name: &blank})
	assert.ErrorIs(t, err, users.ErrInvalidInput)
}

func TestNameOfAndListByRole(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	d, _, err := svc.Create(ctx, users.CreateInput{Name: "Dr. Who", Email: "who@example.com", Role: auth.RoleDoctor})
	require.NoError(t, err)
	p, _, err := svc.Create(ctx, users.CreateInput{Name: "Alice", Email: "alice@example.com", Role: auth.RolePatient})
	require.NoError(t, err)

	name, err := svc.NameOf(ctx, d.ID, string(auth.RoleDoctor))
	require.NoError(t, err)
	assert.Equal(t, "Dr. Who", name)

	_, err = svc.NameOf(ctx, p.ID, string(auth.RoleDoctor))
	assert.ErrorIs(t, err, users.ErrNotFound)

	role, err := svc.RoleOf(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.RolePatient, role)

	docs, err := svc.ListByRole(ctx, auth.RoleDoctor)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, d.ID, docs[0].ID)

	all, err := svc.ListByRole(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListByRole(ctx, "nurse")
	assert.ErrorIs(t, err, users.ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	u, _, err := svc.Create(ctx, users.CreateInput{Name: "Alice", Email: "alice@example.com", Role: auth.RolePatient})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	_, err = svc.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, users.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), users.ErrNotFound)
}
