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


package resolve

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/voxnote/core"
	"github.com/poiesic/voxnote/storage"
)

// ErrUnresolvable indicates the message matched none of the resolution
// strategies.
var ErrUnresolvable = errors.New("resolve: no record designated by message")

var (
	trailingIDPattern = regexp.MustCompile(`#?(\d+)$`)
	replyIDPattern    = regexp.MustCompile(`^#(\d+)`)
)

// Message carries the parts of an incoming message that can designate a
// record.
type Message struct {
	// Text is the command text itself.
	Text string

	// ReplyVoiceRef is the external ref of the voice attachment of the
	// replied-to message, when the user replied to a voice note.
	ReplyVoiceRef string

	// ReplyText is the text of the replied-to message, when the user
	// replied to a text message.
	ReplyText string
}

// Resolver resolves messages to existing record IDs.
type Resolver struct {
	records storage.RecordRepository
}

// NewResolver creates a Resolver backed by the given repository.
func NewResolver(records storage.RecordRepository) *Resolver {
	return &Resolver{records: records}
}

// Resolve determines which stored record the message designates.
// Strategies are tried in priority order; the first one that matches
// decides the outcome, even if the record it names is absent.
func (r *Resolver) Resolve(ctx context.Context, msg Message) (core.ID, error) {
	if m := trailingIDPattern.FindStringSubmatch(strings.TrimSpace(msg.Text)); m != nil {
		return r.verifyID(ctx, m[1])
	}

	if msg.ReplyVoiceRef != "" {
		record, err := r.records.GetRecordByExternalRef(ctx, msg.ReplyVoiceRef)
		if err != nil {
			return 0, err
		}
		return record.Id, nil
	}

	if m := replyIDPattern.FindStringSubmatch(msg.ReplyText); m != nil {
		return r.verifyID(ctx, m[1])
	}

	return 0, ErrUnresolvable
}

func (r *Resolver) verifyID(ctx context.Context, digits string) (core.ID, error) {
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, storage.ErrNotFound
	}

	record, err := r.records.GetRecord(ctx, core.ID(n))
	if err != nil {
		return 0, err
	}
	return record.Id, nil
}
