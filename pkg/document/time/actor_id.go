/*
 * Copyright 2019 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package time

import (
	"bytes"
	"encoding/hex"

	"github.com/google/uuid"
)

// ActorIDSize is the size of bytes that make up an ActorID.
const ActorIDSize = 12

var (
	// InitialActorID is the initial value of ActorID, used only for
	// the initial ticket and comparisons against it.
	InitialActorID = ActorID{}

	// MaxActorID is the maximum value of ActorID. It is used to
	// compare with other actor IDs without considering the actor
	// itself, e.g. for the special MaxTicket.
	MaxActorID = ActorID{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	}
)

// ActorID represents a replica of the document, such as an individual
// client or the server. It is a truncated UUID, matching the wire-format
// width the source SDKs use for actor identifiers.
type ActorID [ActorIDSize]byte

// NewActorID creates a new instance of ActorID backed by a fresh UUID.
func NewActorID() (*ActorID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	var actorID ActorID
	copy(actorID[:], id[:ActorIDSize])
	return &actorID, nil
}

// ActorIDFromHex creates an instance of ActorID from the given hex string.
func ActorIDFromHex(hex string) (*ActorID, error) {
	decoded, err := decodeHex(hex)
	if err != nil {
		return nil, err
	}

	var actorID ActorID
	copy(actorID[:], decoded)
	return &actorID, nil
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// Bytes returns the bytes of this ActorID.
func (id *ActorID) Bytes() []byte {
	if id == nil {
		return nil
	}
	return id[:]
}

// String returns the hex encoding of this ActorID.
func (id *ActorID) String() string {
	if id == nil {
		return ""
	}
	return hex.EncodeToString(id[:])
}

// Compare compares the given two IDs lexicographically.
func (id *ActorID) Compare(other *ActorID) int {
	if id == nil && other == nil {
		return 0
	}
	if id == nil {
		return -1
	}
	if other == nil {
		return 1
	}
	return bytes.Compare(id[:], other[:])
}

// Equal returns whether the given actor ID equals to this ActorID or not.
func (id *ActorID) Equal(other *ActorID) bool {
	return id.Compare(other) == 0
}
