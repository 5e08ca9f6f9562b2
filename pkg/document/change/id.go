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

// Package change implements the change/checkpoint/change-pack layer
// that sits above pkg/document/crdt: ChangeID is the local logical
// clock, Change bundles the operations produced by one update closure,
// and ChangePack is the push/pull wire envelope.
package change

import (
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// InitialClientSeq is the client sequence of a freshly attached
// document, before any local change has been made.
const InitialClientSeq = 0

// ID is the unique identifier of a Change: a per-actor sequence plus the
// Lamport value it was issued at.
type ID struct {
	clientSeq uint32
	lamport   int64
	actor     *time.ActorID
}

// InitialID is used to create the first change of a document.
var InitialID = NewID(InitialClientSeq, time.InitialLamport, nil)

// NewID creates a new instance of ID.
func NewID(clientSeq uint32, lamport int64, actor *time.ActorID) ID {
	return ID{clientSeq: clientSeq, lamport: lamport, actor: actor}
}

// Next creates a next ID of this ID, incrementing both the client
// sequence and the Lamport timestamp.
func (id ID) Next() ID {
	return ID{
		clientSeq: id.clientSeq + 1,
		lamport:   id.lamport + 1,
		actor:     id.actor,
	}
}

// SyncLamport syncs the Lamport timestamp with the given lamport, used
// after applying a remote change: the ID keeps its own lamport when that
// is already greater, otherwise it moves to one past the given lamport,
// so a subsequent local tick is strictly after it.
func (id ID) SyncLamport(otherLamport int64) ID {
	lamport := otherLamport
	if id.lamport > otherLamport {
		lamport = id.lamport
	} else {
		lamport = otherLamport + 1
	}

	return ID{
		clientSeq: id.clientSeq,
		lamport:   lamport,
		actor:     id.actor,
	}
}

// NewTimeTicket creates a time ticket from the given delimiter, sharing
// this ID's lamport and actor.
func (id ID) NewTimeTicket(delimiter uint32) *time.Ticket {
	return time.NewTicket(id.lamport, delimiter, id.actor)
}

// ClientSeq returns the client sequence of this ID.
func (id ID) ClientSeq() uint32 {
	return id.clientSeq
}

// Lamport returns the Lamport timestamp of this ID.
func (id ID) Lamport() int64 {
	return id.lamport
}

// Actor returns the actor of this ID.
func (id ID) Actor() *time.ActorID {
	return id.actor
}

// SetActor sets the given actor, filling in the client-generated actor
// id once the document is attached to a real session.
func (id ID) SetActor(actor *time.ActorID) ID {
	return ID{clientSeq: id.clientSeq, lamport: id.lamport, actor: actor}
}
