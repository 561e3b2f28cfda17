// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package voxnote assembles the voice note archive from its storage
// backends.
package voxnote

import (
	"fmt"
	"log/slog"

	"github.com/poiesic/voxnote/storage"
	"github.com/poiesic/voxnote/storage/badger"
	"github.com/poiesic/voxnote/storage/sqlite"
)

// Backend names accepted by NewArchive.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Archive is the opened record store, independent of which backend
// holds it.
type Archive struct {
	records storage.RecordRepository
	backend *badger.Backend
	logger  *slog.Logger
}

// NewArchive opens the record store at filePath using the named
// backend.
func NewArchive(backendName, filePath string) (*Archive, error) {
	switch backendName {
	case BackendBadger:
		backend, err := badger.OpenBackend(filePath, false)
		if err != nil {
			return nil, err
		}
		records, err := badger.NewRecordRepository(backend)
		if err != nil {
			backend.Close()
			return nil, err
		}
		return &Archive{
			records: records,
			backend: backend,
			logger:  slog.Default(),
		}, nil

	case BackendSQLite:
		store, err := sqlite.Open(filePath)
		if err != nil {
			return nil, err
		}
		return &Archive{
			records: store,
			logger:  slog.Default(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", backendName)
	}
}

// Records returns the record repository.
func (a *Archive) Records() storage.RecordRepository {
	return a.records
}

func (a *Archive) Close() error {
	if err := a.records.Close(); err != nil {
		a.logger.Error("error closing record repository", "err", err)
		return err
	}
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}
