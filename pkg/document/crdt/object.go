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

package crdt

import (
	"fmt"
	"strings"

	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// Object represents an object in the document, the LWW-register map keyed
// by string that backs JSON object values.
type Object struct {
	memberNodes *RHTPQMap
	createdAt   *time.Ticket
	movedAt     *time.Ticket
	removedAt   *time.Ticket
}

// NewObject creates a new instance of Object.
func NewObject(memberNodes *RHTPQMap, createdAt *time.Ticket) *Object {
	return &Object{
		memberNodes: memberNodes,
		createdAt:   createdAt,
	}
}

// Set sets the given Element of the given key. The previous winner, if
// any, is returned tombstoned so the caller can still traverse it for GC.
func (o *Object) Set(key string, value Element) Element {
	return o.memberNodes.Set(key, value)
}

// Get returns the value of the given key. It returns nil if the key does
// not exist, mirroring RHT's NotFound semantics without forcing callers to
// handle an error for a read that is routinely absent.
func (o *Object) Get(key string) Element {
	return o.memberNodes.Get(key)
}

// Has returns whether the element exists for the given key or not.
func (o *Object) Has(key string) bool {
	return o.memberNodes.Has(key)
}

// Delete removes the element of the given key, tombstoning it at
// removedAt.
func (o *Object) Delete(key string, removedAt *time.Ticket) bool {
	elem := o.memberNodes.Get(key)
	if elem == nil {
		return false
	}
	return elem.Remove(removedAt)
}

// DeleteByCreatedAt removes the element matching createdAt, used when a
// remote RemoveOperation targets a specific value rather than a key (e.g.
// once that value has already been superseded by a concurrent Set).
func (o *Object) DeleteByCreatedAt(createdAt *time.Ticket, removedAt *time.Ticket) Element {
	for _, elem := range o.memberNodes.AllNodes() {
		if elem.CreatedAt().Compare(createdAt) == 0 {
			elem.Remove(removedAt)
			return elem
		}
	}
	return nil
}

// Members returns the live member elements in the order their keys were
// first set.
func (o *Object) Members() []KeyedElement {
	return o.memberNodes.Members()
}

// AllMembers returns every (key, element) pair this object has ever
// held, including tombstoned LWW alternates, used by the snapshot codec
// to round-trip the full member history rather than just the live view.
func (o *Object) AllMembers() []KeyedElement {
	return o.memberNodes.AllKeyedNodes()
}

// RestoreMember inserts elem under key without contesting the current
// winner for that key, used when rebuilding an Object from a
// snapshot that already encodes each entry's final tombstone state.
func (o *Object) RestoreMember(key string, elem Element) {
	o.memberNodes.Restore(key, elem)
}

// RHT returns the underlying priority-queue map, exposed for purge and
// deep-copy callers.
func (o *Object) RHT() *RHTPQMap {
	return o.memberNodes
}

// Purge physically purges the given child element.
func (o *Object) Purge(elem Element) error {
	return o.memberNodes.Purge(elem)
}

// Marshal returns the JSON encoding of this Object.
func (o *Object) Marshal() string {
	members := o.memberNodes.Members()

	sb := strings.Builder{}
	sb.WriteString("{")
	for i, pair := range members {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(fmt.Sprintf("%q:%s", pair.Key, pair.Elem.Marshal()))
	}
	sb.WriteString("}")
	return sb.String()
}

// DeepCopy copies itself deeply.
func (o *Object) DeepCopy() Element {
	copied := NewRHTPQMap()
	for _, pair := range o.memberNodes.AllKeyedNodes() {
		copied.setInternal(pair.Key, pair.Elem.DeepCopy())
	}

	obj := NewObject(copied, o.createdAt)
	obj.movedAt = o.movedAt
	obj.removedAt = o.removedAt
	return obj
}

// CreatedAt returns the creation time of this Object.
func (o *Object) CreatedAt() *time.Ticket {
	return o.createdAt
}

// RemovedAt returns the removal time of this Object.
func (o *Object) RemovedAt() *time.Ticket {
	return o.removedAt
}

// MovedAt returns the move time of this Object.
func (o *Object) MovedAt() *time.Ticket {
	return o.movedAt
}

// SetMovedAt sets the move time of this Object.
func (o *Object) SetMovedAt(movedAt *time.Ticket) {
	o.movedAt = movedAt
}

// Remove removes this Object.
func (o *Object) Remove(removedAt *time.Ticket) bool {
	if removedAt != nil && removedAt.After(o.createdAt) &&
		(o.removedAt == nil || removedAt.After(o.removedAt)) {
		o.removedAt = removedAt
		return true
	}
	return false
}
