package object

import "github.com/motefs/mote/internal/util"

// Status is the result of checking one object.
type Status int

const (
	StatusOK Status = iota
	StatusDamaged
)

// Check is the verification result of one object.
type Check struct {
	Hash   string
	Status Status
	Err    error
}

// Verify reads every stored object and recomputes its hash, using up to
// workers goroutines. Reads are side-effect free, so this is safe to run
// concurrently with nothing else writing the store.
func (s *Store) Verify(workers int) ([]Check, error) {
	hashes, err := s.List()
	if err != nil {
		return nil, err
	}

	checks := make([]Check, len(hashes))
	type job struct {
		i    int
		hash string
	}
	jobs := make([]job, len(hashes))
	for i, h := range hashes {
		jobs[i] = job{i: i, hash: h}
	}

	err = util.Parallel(jobs, workers, func(j job) error {
		check := Check{Hash: j.hash, Status: StatusOK}
		if _, err := s.Read(j.hash); err != nil {
			check.Status = StatusDamaged
			check.Err = err
		}
		checks[j.i] = check
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checks, nil
}
