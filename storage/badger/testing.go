package badger

// NewMemoryRepository creates a RecordRepository backed by an in-memory
// BadgerDB instance. Intended for tests.
func NewMemoryRepository() (*RecordRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	repo, err := NewRecordRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return repo, backend, nil
}
