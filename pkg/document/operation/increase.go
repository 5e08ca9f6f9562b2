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

// Increase represents an operation adding a delta to a Counter. Counter
// increases commute regardless of delivery order, so no gating map is
// needed unlike Edit/Remove.
type Increase struct {
	parentCreatedAt *time.Ticket
	value           *crdt.Primitive
	executedAt      *time.Ticket
}

// NewIncrease creates a new instance of Increase.
func NewIncrease(parentCreatedAt *time.Ticket, value *crdt.Primitive, executedAt *time.Ticket) *Increase {
	return &Increase{parentCreatedAt: parentCreatedAt, value: value, executedAt: executedAt}
}

// Execute applies this operation to the given root.
func (o *Increase) Execute(root *crdt.CRDTRoot) (*OpInfo, error) {
	elem, err := targetContainer(root, o.parentCreatedAt)
	if err != nil {
		return nil, err
	}

	counter, ok := elem.(*crdt.Counter)
	if !ok {
		return nil, fmt.Errorf("%w: not a counter", crdt.ErrTypeMismatch)
	}

	if _, err := counter.Increase(o.value); err != nil {
		return nil, err
	}

	return &OpInfo{Type: "increase", ParentCreatedAt: o.parentCreatedAt}, nil
}

// ExecutedAt returns the time this operation was issued.
func (o *Increase) ExecutedAt() *time.Ticket {
	return o.executedAt
}

// ParentCreatedAt returns the creation time of the target Counter.
func (o *Increase) ParentCreatedAt() *time.Ticket {
	return o.parentCreatedAt
}

// Value returns the delta primitive this operation adds.
func (o *Increase) Value() *crdt.Primitive {
	return o.value
}
