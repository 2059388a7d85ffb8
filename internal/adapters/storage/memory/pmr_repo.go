package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"healthcare-portal/internal/domain/pmr"
)

type pmrRepo struct {
	mu        sync.RWMutex
	byPatient map[string]pmr.PMR
}

func NewPMRRepo() pmr.Repository {
	return &pmrRepo{
		byPatient: make(map[string]pmr.PMR),
	}
}

func (r *pmrRepo) Get(ctx context.Context, patientID string) (pmr.PMR, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byPatient[patientID]
	if !ok {
		return pmr.PMR{}, pmr.ErrNotFound
	}
	return clonePMR(p), nil
}

func (r *pmrRepo) Save(ctx context.Context, p pmr.PMR) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.PatientID) == "" {
		return errors.New("patient id required")
	}
	r.byPatient[p.PatientID] = clonePMR(p)
	return nil
}

func clonePMR(p pmr.PMR) pmr.PMR {
	p.Files = slices.Clone(p.Files)
	if p.AccessCode != nil {
		ac := *p.AccessCode
		p.AccessCode = &ac
	}
	return p
}
