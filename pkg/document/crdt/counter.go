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
	"strconv"

	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// CounterType represents the type of Counter.
type CounterType int

const (
	// IntegerCnt represents 32-bit integer type counter.
	IntegerCnt CounterType = iota
	// LongCnt represents 64-bit integer type counter.
	LongCnt
)

// Counter represents a numeric accumulator, commutative across concurrent
// Increase operations regardless of delivery order.
type Counter struct {
	valueType CounterType
	value     int64
	createdAt *time.Ticket
	movedAt   *time.Ticket
	removedAt *time.Ticket
}

// NewCounter creates a new instance of Counter.
func NewCounter(valueType CounterType, value int64, createdAt *time.Ticket) *Counter {
	return &Counter{
		valueType: valueType,
		value:     value,
		createdAt: createdAt,
	}
}

// ValueType returns the type of this Counter's value.
func (c *Counter) ValueType() CounterType {
	return c.valueType
}

// Value returns the current accumulated value.
func (c *Counter) Value() int64 {
	return c.value
}

// Increase adds the given primitive's numeric value to this counter. A
// Double increment is truncated toward zero before it is added. It
// returns the given increment primitive unchanged.
func (c *Counter) Increase(value *Primitive) (*Primitive, error) {
	var delta int64
	switch value.ValueType() {
	case Integer:
		delta = int64(value.Value().(int32))
	case Long:
		delta = value.Value().(int64)
	case Double:
		delta = int64(value.Value().(float64))
	default:
		return nil, fmt.Errorf("%w: unsupported counter increment type", ErrTypeMismatch)
	}

	c.value += delta
	return value, nil
}

// Marshal returns the JSON encoding of this Counter.
func (c *Counter) Marshal() string {
	return strconv.FormatInt(c.value, 10)
}

// DeepCopy copies itself deeply.
func (c *Counter) DeepCopy() Element {
	counter := *c
	return &counter
}

// CreatedAt returns the creation time of this Counter.
func (c *Counter) CreatedAt() *time.Ticket {
	return c.createdAt
}

// RemovedAt returns the removal time of this Counter.
func (c *Counter) RemovedAt() *time.Ticket {
	return c.removedAt
}

// MovedAt returns the move time of this Counter.
func (c *Counter) MovedAt() *time.Ticket {
	return c.movedAt
}

// SetMovedAt sets the move time of this Counter.
func (c *Counter) SetMovedAt(movedAt *time.Ticket) {
	c.movedAt = movedAt
}

// Remove removes this Counter.
func (c *Counter) Remove(removedAt *time.Ticket) bool {
	if removedAt != nil && removedAt.After(c.createdAt) &&
		(c.removedAt == nil || removedAt.After(c.removedAt)) {
		c.removedAt = removedAt
		return true
	}
	return false
}
