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

package operation

import (
	"fmt"

	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// Set represents an operation setting a key of an Object to a value.
type Set struct {
	parentCreatedAt *time.Ticket
	key             string
	value           crdt.Element
	executedAt      *time.Ticket
}

// NewSet creates a new instance of Set.
func NewSet(parentCreatedAt *time.Ticket, key string, value crdt.Element, executedAt *time.Ticket) *Set {
	return &Set{parentCreatedAt: parentCreatedAt, key: key, value: value, executedAt: executedAt}
}

// Execute applies this operation to the given root.
func (o *Set) Execute(root *crdt.CRDTRoot) (*OpInfo, error) {
	elem, err := targetContainer(root, o.parentCreatedAt)
	if err != nil {
		return nil, err
	}

	obj, ok := elem.(*crdt.Object)
	if !ok {
		return nil, fmt.Errorf("%w: not an object", crdt.ErrTypeMismatch)
	}

	removed := obj.Set(o.key, o.value)
	root.RegisterElement(o.value, obj)
	if removed != nil {
		root.RegisterRemovedElement(removed)
	}

	return &OpInfo{Type: "set", ParentCreatedAt: o.parentCreatedAt, Key: o.key}, nil
}

// ExecutedAt returns the time this operation was issued.
func (o *Set) ExecutedAt() *time.Ticket {
	return o.executedAt
}

// ParentCreatedAt returns the creation time of the target Object.
func (o *Set) ParentCreatedAt() *time.Ticket {
	return o.parentCreatedAt
}

// Key returns the key this operation targets.
func (o *Set) Key() string {
	return o.key
}

// Value returns the value this operation sets.
func (o *Set) Value() crdt.Element {
	return o.value
}
