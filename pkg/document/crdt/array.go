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
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// Array represents an array in the document, an RGA-ordered sequence of
// elements backed by an RGATreeList.
type Array struct {
	elements  *RGATreeList
	createdAt *time.Ticket
	movedAt   *time.Ticket
	removedAt *time.Ticket
}

// NewArray creates a new instance of Array.
func NewArray(elements *RGATreeList, createdAt *time.Ticket) *Array {
	return &Array{
		elements:  elements,
		createdAt: createdAt,
	}
}

// Add adds the given element at the last.
func (a *Array) Add(elem Element) *Array {
	a.elements.Add(elem)
	return a
}

// InsertAfter inserts the given element after the given previous element.
func (a *Array) InsertAfter(prevCreatedAt *time.Ticket, elem Element) {
	a.elements.InsertAfter(prevCreatedAt, elem)
}

// MoveAfter moves the given element after the given previous element.
func (a *Array) MoveAfter(prevCreatedAt, createdAt, executedAt *time.Ticket) error {
	return a.elements.MoveAfter(prevCreatedAt, createdAt, executedAt)
}

// Get returns the element of the given index.
func (a *Array) Get(idx int) (Element, error) {
	node, err := a.elements.Get(idx)
	if err != nil {
		return nil, err
	}
	return node.Element(), nil
}

// Delete deletes the element of the given index.
func (a *Array) Delete(idx int, deletedAt *time.Ticket) (Element, error) {
	node, err := a.elements.Delete(idx, deletedAt)
	if err != nil {
		return nil, err
	}
	return node.Element(), nil
}

// DeleteByCreatedAt deletes the element of the given creation time.
func (a *Array) DeleteByCreatedAt(createdAt *time.Ticket, deletedAt *time.Ticket) (Element, error) {
	node, err := a.elements.DeleteByCreatedAt(createdAt, deletedAt)
	if err != nil {
		return nil, err
	}
	return node.Element(), nil
}

// Elements returns an array of elements contained in this array.
func (a *Array) Elements() []Element {
	var elements []Element
	for _, node := range a.elements.Nodes() {
		elements = append(elements, node.Element())
	}
	return elements
}

// Len returns the number of live elements in this array.
func (a *Array) Len() int {
	return a.elements.Len()
}

// LastCreatedAt returns the creation time of the last element.
func (a *Array) LastCreatedAt() *time.Ticket {
	return a.elements.LastCreatedAt()
}

// FindPrevCreatedAt returns the creation time of the previous element of
// the given createdAt.
func (a *Array) FindPrevCreatedAt(createdAt *time.Ticket) (*time.Ticket, error) {
	return a.elements.FindPrevCreatedAt(createdAt)
}

// Purge physically purges the given child element.
func (a *Array) Purge(elem Element) error {
	return a.elements.Purge(elem)
}

// AnnotatedString returns a string containing the metadata of the index
// tree, for debugging purpose.
func (a *Array) AnnotatedString() string {
	return a.elements.AnnotatedString()
}

// Marshal returns the JSON encoding of this Array.
func (a *Array) Marshal() string {
	return a.elements.Marshal()
}

// DeepCopy copies itself deeply.
func (a *Array) DeepCopy() Element {
	elements := NewRGATreeList()
	for _, node := range a.elements.Nodes() {
		elements.Add(node.Element().DeepCopy())
	}

	array := NewArray(elements, a.createdAt)
	array.movedAt = a.movedAt
	array.removedAt = a.removedAt
	return array
}

// CreatedAt returns the creation time of this Array.
func (a *Array) CreatedAt() *time.Ticket {
	return a.createdAt
}

// RemovedAt returns the removal time of this Array.
func (a *Array) RemovedAt() *time.Ticket {
	return a.removedAt
}

// MovedAt returns the move time of this Array.
func (a *Array) MovedAt() *time.Ticket {
	return a.movedAt
}

// SetMovedAt sets the move time of this Array.
func (a *Array) SetMovedAt(movedAt *time.Ticket) {
	a.movedAt = movedAt
}

// Remove removes this Array.
func (a *Array) Remove(removedAt *time.Ticket) bool {
	if removedAt != nil && removedAt.After(a.createdAt) &&
		(a.removedAt == nil || removedAt.After(a.removedAt)) {
		a.removedAt = removedAt
		return true
	}
	return false
}
