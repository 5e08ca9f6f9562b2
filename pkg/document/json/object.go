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

// Package json implements the Proxy layer: the user-facing builder API
// an update closure calls (SetString, AddNewObject, Edit, Increase, ...),
// translating each call into the matching operation.Operation, pushing
// it onto the change.Context, and applying it to the underlying crdt
// element so that reads inside the same closure see the effect
// immediately.
package json

import (
	"github.com/yorkie-team/yorkie/pkg/document/change"
	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/operation"
)

// Object is the proxy representing a CRDT Object in an update closure.
type Object struct {
	*crdt.Object
	context *change.Context
}

// NewObject creates a new instance of Object.
func NewObject(ctx *change.Context, root *crdt.Object) *Object {
	return &Object{Object: root, context: ctx}
}

// SetNewObject sets a new empty Object at the given key and returns its
// proxy so the caller can keep building into it.
func (p *Object) SetNewObject(key string) *Object {
	obj := crdt.NewObject(crdt.NewRHTPQMap(), p.context.IssueTimeTicket())
	p.setInternal(key, obj)
	return NewObject(p.context, obj)
}

// SetNewArray sets a new empty Array at the given key and returns its
// proxy.
func (p *Object) SetNewArray(key string) *Array {
	arr := crdt.NewArray(crdt.NewRGATreeList(), p.context.IssueTimeTicket())
	p.setInternal(key, arr)
	return NewArray(p.context, arr)
}

// SetNewText sets a new empty Text at the given key and returns its
// proxy.
func (p *Object) SetNewText(key string) *Text {
	text := crdt.NewText(crdt.NewRGATreeSplit(crdt.InitialTextNode()), p.context.IssueTimeTicket())
	p.setInternal(key, text)
	return NewText(p.context, text)
}

// SetNewCounter sets a new Counter at the given key and returns its
// proxy.
func (p *Object) SetNewCounter(key string, valueType crdt.CounterType, value int64) *Counter {
	counter := crdt.NewCounter(valueType, value, p.context.IssueTimeTicket())
	p.setInternal(key, counter)
	return NewCounter(p.context, counter)
}

// SetNewTree sets a new empty Tree at the given key, rooted with a bare
// "root" node, and returns its proxy.
func (p *Object) SetNewTree(key string) *Tree {
	createdAt := p.context.IssueTimeTicket()
	root := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(createdAt, 0), crdt.TreeNodeType, "")
	tree := crdt.NewTree(root, createdAt)
	p.setInternal(key, tree)
	return NewTree(p.context, tree)
}

// SetBool sets a bool value at the given key.
func (p *Object) SetBool(key string, value bool) *Object {
	return p.setPrimitive(key, value)
}

// SetInteger sets an int32 value at the given key.
func (p *Object) SetInteger(key string, value int32) *Object {
	return p.setPrimitive(key, value)
}

// SetLong sets an int64 value at the given key.
func (p *Object) SetLong(key string, value int64) *Object {
	return p.setPrimitive(key, value)
}

// SetDouble sets a float64 value at the given key.
func (p *Object) SetDouble(key string, value float64) *Object {
	return p.setPrimitive(key, value)
}

// SetString sets a string value at the given key.
func (p *Object) SetString(key string, value string) *Object {
	return p.setPrimitive(key, value)
}

// SetBytes sets a byte-slice value at the given key.
func (p *Object) SetBytes(key string, value []byte) *Object {
	return p.setPrimitive(key, value)
}

func (p *Object) setPrimitive(key string, value interface{}) *Object {
	primitive := crdt.NewPrimitive(value, p.context.IssueTimeTicket())
	p.setInternal(key, primitive)
	return p
}

func (p *Object) setInternal(key string, value crdt.Element) {
	ticket := value.CreatedAt()
	removed := p.Object.Set(key, value)

	p.context.Push(operation.NewSet(p.Object.CreatedAt(), key, value, ticket))
	p.context.Root().RegisterElement(value, p.Object)
	if removed != nil {
		p.context.Root().RegisterRemovedElement(removed)
	}
}

// Delete removes the value at the given key.
func (p *Object) Delete(key string) {
	elem := p.Object.Get(key)
	if elem == nil {
		return
	}

	ticket := p.context.IssueTimeTicket()
	removed := p.Object.Delete(key, ticket)
	if !removed {
		return
	}

	p.context.Push(operation.NewRemove(p.Object.CreatedAt(), elem.CreatedAt(), ticket))
	p.context.Root().RegisterRemovedElement(elem)
}

// GetObject returns the Object proxy at the given key.
func (p *Object) GetObject(key string) *Object {
	elem, ok := p.Object.Get(key).(*crdt.Object)
	if !ok {
		return nil
	}
	return NewObject(p.context, elem)
}

// GetArray returns the Array proxy at the given key.
func (p *Object) GetArray(key string) *Array {
	elem, ok := p.Object.Get(key).(*crdt.Array)
	if !ok {
		return nil
	}
	return NewArray(p.context, elem)
}

// GetText returns the Text proxy at the given key.
func (p *Object) GetText(key string) *Text {
	elem, ok := p.Object.Get(key).(*crdt.Text)
	if !ok {
		return nil
	}
	return NewText(p.context, elem)
}

// GetCounter returns the Counter proxy at the given key.
func (p *Object) GetCounter(key string) *Counter {
	elem, ok := p.Object.Get(key).(*crdt.Counter)
	if !ok {
		return nil
	}
	return NewCounter(p.context, elem)
}

// GetTree returns the Tree proxy at the given key.
func (p *Object) GetTree(key string) *Tree {
	elem, ok := p.Object.Get(key).(*crdt.Tree)
	if !ok {
		return nil
	}
	return NewTree(p.context, elem)
}
