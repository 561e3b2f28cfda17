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


package storage

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/voxnote/core"
)

// Records are stored in the MUS format. Field order is fixed; changing it is
// a breaking change for existing databases. Timestamps are encoded with
// microsecond precision.

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	return core.ID(v), err
}

// MarshalVoiceRecord serializes a VoiceRecord to bytes.
func MarshalVoiceRecord(record *core.VoiceRecord) []byte {
	buf := make([]byte, sizeVoiceRecord(record))
	n := varint.Uint64.Marshal(uint64(record.Id), buf)
	n += ord.String.Marshal(record.ExternalRef, buf[n:])
	n += ord.String.Marshal(record.Transcript, buf[n:])
	n += ord.String.Marshal(record.Summary, buf[n:])
	n += ord.String.Marshal(record.Note, buf[n:])
	n += raw.TimeUnixMicro.Marshal(record.Timestamp, buf[n:])
	n += varint.Int64.Marshal(record.AuthorID, buf[n:])
	ord.String.Marshal(record.AuthorName, buf[n:])
	return buf
}

// UnmarshalVoiceRecord deserializes a VoiceRecord from bytes.
func UnmarshalVoiceRecord(data []byte) (*core.VoiceRecord, error) {
	var record core.VoiceRecord
	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	record.Id = core.ID(id)

	var m int
	if record.ExternalRef, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if record.Transcript, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if record.Summary, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if record.Note, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if record.Timestamp, m, err = raw.TimeUnixMicro.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	record.Timestamp = record.Timestamp.UTC()
	n += m
	if record.AuthorID, m, err = varint.Int64.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if record.AuthorName, _, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	return &record, nil
}

func sizeVoiceRecord(record *core.VoiceRecord) int {
	return varint.Uint64.Size(uint64(record.Id)) +
		ord.String.Size(record.ExternalRef) +
		ord.String.Size(record.Transcript) +
		ord.String.Size(record.Summary) +
		ord.String.Size(record.Note) +
		raw.TimeUnixMicro.Size(record.Timestamp) +
		varint.Int64.Size(record.AuthorID) +
		ord.String.Size(record.AuthorName)
}
