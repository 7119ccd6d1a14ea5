package memory

import (
	"context"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/repository"
)

type JobRepository struct {
	s *Store
}

func (r *JobRepository) Create(_ context.Context, job *domain.Job) (*domain.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j := cloneJob(job)
	j.ID = newID()
	now := r.s.now()
	j.CreatedAt, j.UpdatedAt = now, now
	r.s.jobs[j.ID] = j
	r.s.jobOrder = append(r.s.jobOrder, j.ID)
	return cloneJob(j), nil
}

func (r *JobRepository) GetByID(_ context.Context, id string) (*domain.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return cloneJob(j), nil
}

// List returns newest first.
func (r *JobRepository) List(_ context.Context, input repository.ListJobsInput) ([]*domain.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.Job
	for i := len(r.s.jobOrder) - 1; i >= 0; i-- {
		j := r.s.jobs[r.s.jobOrder[i]]
		if input.CustomerID != "" && j.CustomerID != input.CustomerID {
			continue
		}
		if input.OpenOnly && !j.OpenForBids() {
			continue
		}
		out = append(out, cloneJob(j))
		if input.Limit > 0 && len(out) == input.Limit {
			break
		}
	}
	return out, nil
}

func (r *JobRepository) Cancel(_ context.Context, id string) (*domain.Job, []*domain.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.jobs[id]
	if !ok {
		return nil, nil, domain.ErrJobNotFound
	}
	if !j.Cancellable() {
		return nil, nil, domain.ErrJobNotCancellable
	}
	now := r.s.now()
	j.Status = domain.JobCancelled
	j.UpdatedAt = now
	rejected := r.s.rejectPendingLocked(id, "", now)
	return cloneJob(j), rejected, nil
}

func (r *JobRepository) Advance(_ context.Context, id string, from, to domain.JobStatus) (*domain.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	if j.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	j.Status = to
	j.UpdatedAt = r.s.now()

	if to == domain.JobCompleted && j.PrinterID != nil {
		if p, ok := r.s.printers[*j.PrinterID]; ok {
			p.CompletedJobs++
		}
	}
	return cloneJob(j), nil
}
