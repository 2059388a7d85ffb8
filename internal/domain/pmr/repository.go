package pmr

import "context"

type Repository interface {
	Get(ctx context.Context, patientID string) (PMR, error)
	Save(ctx context.Context, p PMR) error
}
