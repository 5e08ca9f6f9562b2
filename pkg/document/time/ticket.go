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

// Package time implements logical clocks: the Lamport timestamp based
// TimeTicket that totally orders every operation and node the document
// core creates.
package time

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
)

// Lamport is the type of the Lamport clock value.
type Lamport = int64

const (
	// InitialLamport is the initial value of Lamport timestamp.
	InitialLamport = 0

	// MaxLamport is the maximum value of Lamport timestamp.
	MaxLamport = math.MaxInt64
)

var (
	// InitialTicket is the initial ticket of the document. It is used
	// as the very first identifier before any operation is applied.
	InitialTicket = NewTicket(InitialLamport, 0, &InitialActorID)

	// MaxTicket is the largest possible ticket. It is used to compare
	// with other tickets to find the max value, e.g. as an unbounded
	// maxCreatedAtMapByActor entry for local edits.
	MaxTicket = NewTicket(MaxLamport, math.MaxUint32, &MaxActorID)
)

// Ticket is a timestamp of the logical clock. Ticket is totally ordered
// by (lamport, actor, delimiter), with lamport being the most
// significant component.
type Ticket struct {
	lamport   int64
	delimiter uint32
	actorID   *ActorID
}

// NewTicket creates an instance of Ticket.
func NewTicket(lamport int64, delimiter uint32, actorID *ActorID) *Ticket {
	return &Ticket{
		lamport:   lamport,
		delimiter: delimiter,
		actorID:   actorID,
	}
}

// ticketWire is the exported shadow gob encodes Ticket through, since
// gob silently drops unexported struct fields.
type ticketWire struct {
	Lamport   int64
	Delimiter uint32
	ActorID   *ActorID
}

// GobEncode implements gob.GobEncoder.
func (t *Ticket) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(ticketWire{
		Lamport: t.lamport, Delimiter: t.delimiter, ActorID: t.actorID,
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (t *Ticket) GobDecode(data []byte) error {
	var w ticketWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	t.lamport = w.Lamport
	t.delimiter = w.Delimiter
	t.actorID = w.ActorID
	return nil
}

// Lamport returns the lamport value of this ticket.
func (t *Ticket) Lamport() int64 {
	return t.lamport
}

// Delimiter returns the delimiter of this ticket.
func (t *Ticket) Delimiter() uint32 {
	return t.delimiter
}

// ActorID returns the actor ID of this ticket.
func (t *Ticket) ActorID() *ActorID {
	return t.actorID
}

// ActorIDHex returns the hex encoding of the actor ID of this ticket, used
// as a map key when grouping by actor (e.g. maxCreatedAtMapByActor).
func (t *Ticket) ActorIDHex() string {
	return t.actorID.String()
}

// Key returns the key string of this ticket, used for debugging and as a
// map key in places where string keys are more convenient than structs.
func (t *Ticket) Key() string {
	return fmt.Sprintf("%d:%s:%d", t.lamport, t.actorID.String(), t.delimiter)
}

// AnnotatedString returns a string containing the metadata of the ticket
// for debugging purpose.
func (t *Ticket) AnnotatedString() string {
	return t.Key()
}

// Compare returns an integer comparing two Tickets. The result will be 0 if
// t == other, -1 if t < other, and +1 if t > other. The lamport is most
// significant, then the actor, then the delimiter.
func (t *Ticket) Compare(other *Ticket) int {
	if t == nil && other == nil {
		return 0
	}

	compare := compareInt64(t.lamport, other.lamport)
	if compare != 0 {
		return compare
	}

	compare = t.actorID.Compare(other.actorID)
	if compare != 0 {
		return compare
	}

	return compareUint32(t.delimiter, other.delimiter)
}

func compareInt64(a, b int64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

func compareUint32(a, b uint32) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// Equal returns whether the given ticket equals to this ticket or not.
func (t *Ticket) Equal(other *Ticket) bool {
	return t.Compare(other) == 0
}

// After returns whether the given ticket was created later than this
// ticket.
func (t *Ticket) After(other *Ticket) bool {
	return t.Compare(other) > 0
}
