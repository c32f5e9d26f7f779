package store

type Store interface {
	Job() Job
	Close() error
}

// DataStore holds the process-wide registries. Job records live only in
// memory for the lifetime of the process; there is no durable backend.
type DataStore struct {
	job Job
}

func NewStore() Store {
	return &DataStore{
		job: NewJobStore(),
	}
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) Close() error {
	return nil
}
