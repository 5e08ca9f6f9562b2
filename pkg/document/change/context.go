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

package change

import (
	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/operation"
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// Context is the environment an update closure runs in: it collects the
// operations the closure's proxy calls produce and issues the tickets
// they need, all sharing one ID's lamport/actor but with a strictly
// increasing delimiter.
type Context struct {
	id         ID
	root       *crdt.CRDTRoot
	operations []operation.Operation
	message    string
	delimiter  uint32
}

// NewContext creates a new instance of Context.
func NewContext(id ID, root *crdt.CRDTRoot, message string) *Context {
	return &Context{id: id, root: root, message: message}
}

// Root returns the root this context is mutating.
func (c *Context) Root() *crdt.CRDTRoot {
	return c.root
}

// IssueTimeTicket creates a time ticket to be used to create a new
// operation or element, incrementing this context's delimiter.
func (c *Context) IssueTimeTicket() *time.Ticket {
	c.delimiter++
	return c.id.NewTimeTicket(c.delimiter)
}

// Push adds the given operation to this context's pending list.
func (c *Context) Push(op operation.Operation) {
	c.operations = append(c.operations, op)
}

// HasOperations returns whether this context has any pending operation.
func (c *Context) HasOperations() bool {
	return len(c.operations) > 0
}

// ToChange creates a new instance of Change from this context's
// accumulated operations, used once the update closure returns without
// error.
func (c *Context) ToChange() *Change {
	return New(c.id, c.message, c.operations, nil)
}
