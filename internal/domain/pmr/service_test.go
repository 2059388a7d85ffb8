package pmr

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byPatient map[string]PMR
	failGet   error
}

func newTestRepo() *testRepo {
	return &testRepo{byPatient: map[string]PMR{}}
}

func (r *testRepo) Get(ctx context.Context, patientID string) (PMR, error) {
	if r.failGet != nil {
		return PMR{}, r.failGet
	}
	p, ok := r.byPatient[patientID]
	if !ok {
		return PMR{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Save(ctx context.Context, p PMR) error {
	r.byPatient[p.PatientID] = p
	return nil
}

var now = time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestGenerateCode(t *testing.T) {
	repo := newTestRepo()
	repo.byPatient["patient-1"] = PMR{
		PatientID: "patient-1",
		Files:     []File{{ID: "file-1", Name: "Blood_Test_Results.pdf", Type: FileTypePDF}},
	}
	svc := newTestService(repo)

	ac, err := svc.GenerateCode(context.Background(), "patient-1", 1, 2)
	require.NoError(t, err)
	assert.Len(t, ac.Code, CodeLength)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, ac.Code)
	assert.Equal(t, now.Add(26*time.Hour), ac.ExpiresAt)

	stored := repo.byPatient["patient-1"]
	require.NotNil(t, stored.AccessCode)
	assert.Equal(t, ac, *stored.AccessCode)
	assert.Len(t, stored.Files, 1)
}

func TestGenerateCode_InvalidDuration(t *testing.T) {
	svc := newTestService(newTestRepo())

	_, err := svc.GenerateCode(context.Background(), "patient-1", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.GenerateCode(context.Background(), "patient-1", -1, 30)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateCode_CreatesPMRWhenMissing(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	_, err := svc.GenerateCode(context.Background(), "patient-9", 0, 1)
	require.NoError(t, err)

	p, ok := repo.byPatient["patient-9"]
	require.True(t, ok)
	assert.Empty(t, p.Files)
}

func TestGenerateCode_RepoError(t *testing.T) {
	repo := newTestRepo()
	repo.failGet = errors.New("db down")
	svc := newTestService(repo)

	_, err := svc.GenerateCode(context.Background(), "patient-1", 0, 1)
	assert.EqualError(t, err, "db down")
}

func TestActiveCode(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.ActiveCode(ctx, "patient-1")
	assert.ErrorIs(t, err, ErrNotFound)

	ac, err := svc.GenerateCode(ctx, "patient-1", 0, 1)
	require.NoError(t, err)

	got, err := svc.ActiveCode(ctx, "patient-1")
	require.NoError(t, err)
	assert.Equal(t, ac, got)

	svc.now = func() time.Time { return now.Add(time.Hour) }
	_, err = svc.ActiveCode(ctx, "patient-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnlock(t *testing.T) {
	repo := newTestRepo()
	files := []File{
		{ID: "file-1", Name: "Blood_Test_Results.pdf", Type: FileTypePDF, URL: "/files/1.pdf"},
		{ID: "file-2", Name: "X-Ray_Chest.jpg", Type: FileTypeImage, URL: "/files/2.jpg"},
	}
	repo.byPatient["patient-1"] = PMR{PatientID: "patient-1", Files: files}
	svc := newTestService(repo)
	ctx := context.Background()

	ac, err := svc.GenerateCode(ctx, "patient-1", 0, 2)
	require.NoError(t, err)

	got, exp, err := svc.Unlock(ctx, "patient-1", ac.Code)
	require.NoError(t, err)
	assert.Equal(t, files, got)
	assert.Equal(t, ac.ExpiresAt, exp)

	// case-insensitive + espacios
	_, _, err = svc.Unlock(ctx, "patient-1", "  "+strings.ToLower(ac.Code)+" ")
	assert.NoError(t, err)

	_, _, err = svc.Unlock(ctx, "patient-1", "ZZZZZZ")
	if ac.Code != "ZZZZZZ" {
		assert.ErrorIs(t, err, ErrInvalidCode)
	}

	_, _, err = svc.Unlock(ctx, "patient-2", ac.Code)
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, _, err = svc.Unlock(ctx, "patient-1", "")
	assert.ErrorIs(t, err, ErrInvalidCode)

	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, _, err = svc.Unlock(ctx, "patient-1", ac.Code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestUnlock_NewCodeReplacesOld(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.GenerateCode(ctx, "patient-1", 0, 1)
	require.NoError(t, err)
	second, err := svc.GenerateCode(ctx, "patient-1", 1, 0)
	require.NoError(t, err)

	if first.Code != second.Code {
		_, _, err = svc.Unlock(ctx, "patient-1", first.Code)
		assert.ErrorIs(t, err, ErrInvalidCode)
	}
	_, _, err = svc.Unlock(ctx, "patient-1", second.Code)
	assert.NoError(t, err)
}

func TestListFiles(t *testing.T) {
	repo := newTestRepo()
	repo.byPatient["patient-1"] = PMR{PatientID: "patient-1", Files: []File{{ID: "file-1"}}}
	svc := newTestService(repo)

	files, err := svc.ListFiles(context.Background(), "patient-1")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	files, err = svc.ListFiles(context.Background(), "patient-2")
	require.NoError(t, err)
	assert.Empty(t, files)
}
