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

package json

import (
	"github.com/yorkie-team/yorkie/pkg/document/change"
	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/operation"
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// Array is the proxy representing a CRDT Array in an update closure.
type Array struct {
	*crdt.Array
	context *change.Context
}

// NewArray creates a new instance of Array.
func NewArray(ctx *change.Context, elements *crdt.Array) *Array {
	return &Array{Array: elements, context: ctx}
}

// AddNewObject appends a new empty Object and returns its proxy.
func (p *Array) AddNewObject() *Object {
	obj := crdt.NewObject(crdt.NewRHTPQMap(), p.context.IssueTimeTicket())
	p.addInternal(obj)
	return NewObject(p.context, obj)
}

// AddNewArray appends a new empty Array and returns its proxy.
func (p *Array) AddNewArray() *Array {
	arr := crdt.NewArray(crdt.NewRGATreeList(), p.context.IssueTimeTicket())
	p.addInternal(arr)
	return NewArray(p.context, arr)
}

// AddNewText appends a new empty Text and returns its proxy.
func (p *Array) AddNewText() *Text {
	text := crdt.NewText(crdt.NewRGATreeSplit(crdt.InitialTextNode()), p.context.IssueTimeTicket())
	p.addInternal(text)
	return NewText(p.context, text)
}

// AddNewCounter appends a new Counter and returns its proxy.
func (p *Array) AddNewCounter(valueType crdt.CounterType, value int64) *Counter {
	counter := crdt.NewCounter(valueType, value, p.context.IssueTimeTicket())
	p.addInternal(counter)
	return NewCounter(p.context, counter)
}

// AddBool appends a bool value.
func (p *Array) AddBool(value bool) *Array {
	return p.addPrimitive(value)
}

// AddInteger appends an int32 value.
func (p *Array) AddInteger(value int32) *Array {
	return p.addPrimitive(value)
}

// AddLong appends an int64 value.
func (p *Array) AddLong(value int64) *Array {
	return p.addPrimitive(value)
}

// AddDouble appends a float64 value.
func (p *Array) AddDouble(value float64) *Array {
	return p.addPrimitive(value)
}

// AddString appends a string value.
func (p *Array) AddString(value string) *Array {
	return p.addPrimitive(value)
}

// AddBytes appends a byte-slice value.
func (p *Array) AddBytes(value []byte) *Array {
	return p.addPrimitive(value)
}

func (p *Array) addPrimitive(value interface{}) *Array {
	primitive := crdt.NewPrimitive(value, p.context.IssueTimeTicket())
	p.addInternal(primitive)
	return p
}

func (p *Array) addInternal(value crdt.Element) {
	prevCreatedAt := p.Array.LastCreatedAt()
	ticket := value.CreatedAt()

	p.Array.InsertAfter(prevCreatedAt, value)
	p.context.Push(operation.NewAdd(p.Array.CreatedAt(), prevCreatedAt, value, ticket))
	p.context.Root().RegisterElement(value, p.Array)
}

// MoveAfter moves the element identified by createdAt to immediately
// after the element identified by prevCreatedAt.
func (p *Array) MoveAfter(prevCreatedAt, createdAt *time.Ticket) error {
	ticket := p.context.IssueTimeTicket()

	if err := p.Array.MoveAfter(prevCreatedAt, createdAt, ticket); err != nil {
		return err
	}
	p.context.Push(operation.NewMove(p.Array.CreatedAt(), prevCreatedAt, createdAt, ticket))
	return nil
}

// Delete removes the element at the given index.
func (p *Array) Delete(idx int) (crdt.Element, error) {
	ticket := p.context.IssueTimeTicket()

	elem, err := p.Array.Delete(idx, ticket)
	if err != nil {
		return nil, err
	}

	p.context.Push(operation.NewRemove(p.Array.CreatedAt(), elem.CreatedAt(), ticket))
	p.context.Root().RegisterRemovedElement(elem)
	return elem, nil
}
