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

// Package crdt implements the CRDT data types that make up a document:
// primitives, the LWW object, the RGA array, the counter, the RGA
// tree-split Text, and the position-addressed Tree. It also implements
// the root registry (CRDTRoot) that every operation executes against.
package crdt

import (
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// Element represents the value of the document in the CRDT perspective.
// All elements are registered at creation into the root's element map and
// stay addressable by createdAt even after being moved or removed.
type Element interface {
	// Marshal returns the JSON encoding of this element.
	Marshal() string

	// DeepCopy copies itself deeply. Copies do not share identity with
	// the original: the createdAt is preserved, but no internal pointer
	// is shared.
	DeepCopy() Element

	// CreatedAt returns the creation time of this element.
	CreatedAt() *time.Ticket

	// RemovedAt returns the removal time of this element, nil if it is
	// still live.
	RemovedAt() *time.Ticket

	// MovedAt returns the last time this element was moved or
	// reassigned, nil if it never was.
	MovedAt() *time.Ticket

	// SetMovedAt sets the move time of this element.
	SetMovedAt(movedAt *time.Ticket)

	// Remove removes this element and returns whether it actually
	// tombstoned it (a remove is only effective if removedAt is later
	// than both createdAt and any previous removedAt).
	Remove(removedAt *time.Ticket) bool
}

// Container is an Element that contains other Elements, such as Object
// and Array. Containers participate in garbage collection: they can be
// asked to purge a garbage-collected child element.
type Container interface {
	Element

	// Purge physically removes the given child element from its
	// internal structure once it has been garbage collected.
	Purge(elem Element) error
}

// TextElement is the common contract of sequence-backed CRDTs (Text)
// which hold internal tombstones needing separate GC accounting.
type TextElement interface {
	Element

	// RemovedNodesLen returns the number of removed nodes still held
	// internally, so the root can decide whether this element needs to
	// be visited during GC.
	RemovedNodesLen() int

	// PurgeRemovedNodesBefore purges tombstoned nodes whose removedAt is
	// before the given ticket, and returns how many nodes were purged.
	PurgeRemovedNodesBefore(ticket *time.Ticket) (int, error)
}
