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

// Remove represents an operation removing an element, identified by its
// own createdAt, from its parent container (Object or Array).
type Remove struct {
	parentCreatedAt *time.Ticket
	createdAt       *time.Ticket
	executedAt      *time.Ticket
}

// NewRemove creates a new instance of Remove.
func NewRemove(parentCreatedAt, createdAt, executedAt *time.Ticket) *Remove {
	return &Remove{parentCreatedAt: parentCreatedAt, createdAt: createdAt, executedAt: executedAt}
}

// Execute applies this operation to the given root.
func (o *Remove) Execute(root *crdt.CRDTRoot) (*OpInfo, error) {
	elem, err := targetContainer(root, o.parentCreatedAt)
	if err != nil {
		return nil, err
	}

	var removed crdt.Element
	switch container := elem.(type) {
	case *crdt.Object:
		removed = container.DeleteByCreatedAt(o.createdAt, o.executedAt)
	case *crdt.Array:
		removed, err = container.DeleteByCreatedAt(o.createdAt, o.executedAt)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: not a container", crdt.ErrTypeMismatch)
	}

	if removed != nil {
		root.RegisterRemovedElement(removed)
	}

	return &OpInfo{Type: "remove", ParentCreatedAt: o.parentCreatedAt}, nil
}

// ExecutedAt returns the time this operation was issued.
func (o *Remove) ExecutedAt() *time.Ticket {
	return o.executedAt
}

// ParentCreatedAt returns the creation time of the target container.
func (o *Remove) ParentCreatedAt() *time.Ticket {
	return o.parentCreatedAt
}

// CreatedAt returns the creation time of the element to remove.
func (o *Remove) CreatedAt() *time.Ticket {
	return o.createdAt
}
