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

// Package document implements the document core: a Document owns a
// CRDTRoot, a local logical clock, a buffer of changes not yet pushed,
// and a presence map, and exposes Update/ApplyChangePack/Subscribe as
// the surface every host SDK builds on.
package document

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yorkie-team/yorkie/pkg/document/change"
	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/json"
	"github.com/yorkie-team/yorkie/pkg/document/operation"
	"github.com/yorkie-team/yorkie/pkg/document/time"
	"github.com/yorkie-team/yorkie/pkg/log"
)

// ErrDocumentRemoved is returned by Update once a document has been
// marked removed.
var ErrDocumentRemoved = errors.New("document is removed")

// StatusType represents the lifecycle state of a Document.
type StatusType int

const (
	// StatusAttached means the document is attached to the client.
	StatusAttached StatusType = iota
	// StatusDetached means the document is detached from the client.
	StatusDetached
	// StatusRemoved means the document has been removed.
	StatusRemoved
)

// EventType represents the kind of a DocEvent delivered to subscribers.
type EventType int

const (
	// SnapshotEvent is fired when the root is replaced wholesale by a
	// snapshot received from the server.
	SnapshotEvent EventType = iota
	// LocalChangeEvent is fired after a local Update call commits.
	LocalChangeEvent
	// RemoteChangeEvent is fired once per remote change applied from a
	// ChangePack.
	RemoteChangeEvent
	// PeersChangedEvent is fired when the set of peers sharing this
	// document changes, carried by the host's presence/watch layer.
	PeersChangedEvent
)

// DocEvent is a notification delivered to Subscribe's channel.
type DocEvent struct {
	Type    EventType
	OpInfos []*operation.OpInfo
}

// Document is a CRDT-backed JSON-like document: the in-memory CRDTRoot
// plus everything needed to build and exchange changes against it.
type Document struct {
	mu sync.Mutex

	key    string
	status StatusType

	root *crdt.CRDTRoot

	changeID   change.ID
	checkpoint change.Checkpoint

	localChanges []*change.Change

	subscribers []chan DocEvent
}

// New creates a new, detached Document with the given key.
func New(key string) *Document {
	root := crdt.NewCRDTRoot(crdt.NewObject(crdt.NewRHTPQMap(), time.InitialTicket))
	return &Document{
		key:        key,
		status:     StatusDetached,
		root:       root,
		changeID:   change.InitialID,
		checkpoint: change.InitialCheckpoint,
	}
}

// Key returns this document's key.
func (d *Document) Key() string {
	return d.key
}

// Status returns this document's lifecycle status.
func (d *Document) Status() StatusType {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// SetActor assigns the given actor id to this document's local clock,
// called once the document is attached to a real client session.
func (d *Document) SetActor(actor *time.ActorID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.changeID = d.changeID.SetActor(actor)
}

// RootObject returns a read-only snapshot of the root Object, for
// inspection outside an Update closure.
func (d *Document) RootObject() *crdt.Object {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.root.Object()
}

// Marshal returns the JSON encoding of the current root.
func (d *Document) Marshal() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.root.Object().Marshal()
}

// Update runs updater against a clone of the current root, building a
// single Change out of whatever operations the closure's proxy calls
// produce. If updater returns an error, the clone (and whatever
// operations it had already pushed into the context) is discarded and
// the document's real root is left untouched. Otherwise the clone
// becomes the new root, a fresh ChangeID is minted, and the resulting
// Change is appended to the local buffer and emitted as a
// LocalChangeEvent.
func (d *Document) Update(updater func(root *json.Object) error, message string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.status == StatusRemoved {
		return ErrDocumentRemoved
	}

	clone := d.root.DeepCopy()
	ctx := change.NewContext(d.changeID.Next(), clone, message)

	if err := updater(json.ToJSON(ctx, clone.Object())); err != nil {
		return fmt.Errorf("update document %s: %w", d.key, err)
	}

	if !ctx.HasOperations() {
		return nil
	}

	c := ctx.ToChange()
	d.changeID = c.ID()
	d.root = clone
	d.localChanges = append(d.localChanges, c)

	// The proxy layer already applied every operation directly to clone
	// as it built them, so there is no second Execute pass here (unlike
	// ApplyChangePack, which only ever sees operations secondhand).
	d.publish(DocEvent{Type: LocalChangeEvent})
	return nil
}

// ApplyChangePack applies a pack received from the server: replaces the
// root from a snapshot if one is carried, executes every remote change
// in order, advances the checkpoint, discards acknowledged local
// changes, and runs garbage collection down to the pack's
// minSyncedTicket.
func (d *Document) ApplyChangePack(pack *change.Pack) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(pack.Snapshot) > 0 {
		root, lamport, err := change.DecodeSnapshot(pack.Snapshot)
		if err != nil {
			return fmt.Errorf("apply snapshot to document %s: %w", d.key, err)
		}
		d.root = root
		d.changeID = d.changeID.SyncLamport(lamport)
		d.publish(DocEvent{Type: SnapshotEvent})
	}

	for _, c := range pack.Changes {
		d.changeID = d.changeID.SyncLamport(c.ID().Lamport())

		opInfos, err := c.Execute(d.root)
		if err != nil {
			log.Logger.Errorf("apply remote change to document %s: %v", d.key, err)
			return err
		}
		d.publish(DocEvent{Type: RemoteChangeEvent, OpInfos: opInfos})
	}

	d.checkpoint = d.checkpoint.Forward(pack.Checkpoint)
	d.purgeAcknowledgedChanges(pack.Checkpoint.ClientSeq())

	if pack.MinSyncedTicket != nil {
		if _, err := d.root.GarbageCollect(pack.MinSyncedTicket); err != nil {
			return fmt.Errorf("garbage collect document %s: %w", d.key, err)
		}
	}

	return nil
}

func (d *Document) purgeAcknowledgedChanges(clientSeq uint32) {
	var remaining []*change.Change
	for _, c := range d.localChanges {
		if c.ID().ClientSeq() > clientSeq {
			remaining = append(remaining, c)
		}
	}
	d.localChanges = remaining
}

// CreateChangePack builds the pack of local changes not yet pushed,
// ready to be sent to the server.
func (d *Document) CreateChangePack() *change.Pack {
	d.mu.Lock()
	defer d.mu.Unlock()

	changes := make([]*change.Change, len(d.localChanges))
	copy(changes, d.localChanges)
	return change.NewPack(d.key, d.checkpoint, changes, nil, nil)
}

// Subscribe registers a channel that receives every DocEvent this
// document emits from here on. The returned function unsubscribes it.
func (d *Document) Subscribe() (<-chan DocEvent, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch := make(chan DocEvent, 32)
	d.subscribers = append(d.subscribers, ch)

	return ch, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, sub := range d.subscribers {
			if sub == ch {
				d.subscribers = append(d.subscribers[:i], d.subscribers[i+1:]...)
				close(ch)
				return
			}
		}
	}
}

func (d *Document) publish(event DocEvent) {
	for _, ch := range d.subscribers {
		select {
		case ch <- event:
		default:
			log.Logger.Warnf("dropping event for document %s: subscriber channel full", d.key)
		}
	}
}
