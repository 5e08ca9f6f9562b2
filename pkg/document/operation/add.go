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

// Add represents an operation appending a value to an Array, immediately
// to the right of prevCreatedAt, following the RGA insert-to-right rule.
type Add struct {
	parentCreatedAt *time.Ticket
	prevCreatedAt   *time.Ticket
	value           crdt.Element
	executedAt      *time.Ticket
}

// NewAdd creates a new instance of Add.
func NewAdd(parentCreatedAt, prevCreatedAt *time.Ticket, value crdt.Element, executedAt *time.Ticket) *Add {
	return &Add{
		parentCreatedAt: parentCreatedAt,
		prevCreatedAt:   prevCreatedAt,
		value:           value,
		executedAt:      executedAt,
	}
}

// Execute applies this operation to the given root.
func (o *Add) Execute(root *crdt.CRDTRoot) (*OpInfo, error) {
	elem, err := targetContainer(root, o.parentCreatedAt)
	if err != nil {
		return nil, err
	}

	arr, ok := elem.(*crdt.Array)
	if !ok {
		return nil, fmt.Errorf("%w: not an array", crdt.ErrTypeMismatch)
	}

	arr.InsertAfter(o.prevCreatedAt, o.value)
	root.RegisterElement(o.value, arr)

	return &OpInfo{Type: "add", ParentCreatedAt: o.parentCreatedAt}, nil
}

// ExecutedAt returns the time this operation was issued.
func (o *Add) ExecutedAt() *time.Ticket {
	return o.executedAt
}

// ParentCreatedAt returns the creation time of the target Array.
func (o *Add) ParentCreatedAt() *time.Ticket {
	return o.parentCreatedAt
}

// PrevCreatedAt returns the creation time of the element to insert
// after.
func (o *Add) PrevCreatedAt() *time.Ticket {
	return o.prevCreatedAt
}

// Value returns the value this operation inserts.
func (o *Add) Value() crdt.Element {
	return o.value
}
