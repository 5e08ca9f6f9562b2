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

// Move represents an operation moving an existing Array element to
// immediately right of prevCreatedAt, following the same RGA
// insert-to-right tie-break as Add.
type Move struct {
	parentCreatedAt *time.Ticket
	prevCreatedAt   *time.Ticket
	createdAt       *time.Ticket
	executedAt      *time.Ticket
}

// NewMove creates a new instance of Move.
func NewMove(parentCreatedAt, prevCreatedAt, createdAt, executedAt *time.Ticket) *Move {
	return &Move{
		parentCreatedAt: parentCreatedAt,
		prevCreatedAt:   prevCreatedAt,
		createdAt:       createdAt,
		executedAt:      executedAt,
	}
}

// Execute applies this operation to the given root.
func (o *Move) Execute(root *crdt.CRDTRoot) (*OpInfo, error) {
	elem, err := targetContainer(root, o.parentCreatedAt)
	if err != nil {
		return nil, err
	}

	arr, ok := elem.(*crdt.Array)
	if !ok {
		return nil, fmt.Errorf("%w: not an array", crdt.ErrTypeMismatch)
	}

	if err := arr.MoveAfter(o.prevCreatedAt, o.createdAt, o.executedAt); err != nil {
		return nil, err
	}

	return &OpInfo{Type: "move", ParentCreatedAt: o.parentCreatedAt}, nil
}

// ExecutedAt returns the time this operation was issued.
func (o *Move) ExecutedAt() *time.Ticket {
	return o.executedAt
}

// ParentCreatedAt returns the creation time of the target Array.
func (o *Move) ParentCreatedAt() *time.Ticket {
	return o.parentCreatedAt
}

// PrevCreatedAt returns the creation time of the element to move after.
func (o *Move) PrevCreatedAt() *time.Ticket {
	return o.prevCreatedAt
}

// CreatedAt returns the creation time of the element being moved.
func (o *Move) CreatedAt() *time.Ticket {
	return o.createdAt
}
