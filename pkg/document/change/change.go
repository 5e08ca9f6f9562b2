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
)

// PresenceChangeType represents the kind of a PresenceChange: a merging
// set of keys, or a clear of the whole presence map. Kept as a distinct
// marker rather than a set-with-sentinel-value so that "absent key"
// and "explicitly cleared" cannot be confused.
type PresenceChangeType int

const (
	// PresenceChangeTypePut merges the carried data into the existing
	// presence map, leaving keys it does not mention untouched.
	PresenceChangeTypePut PresenceChangeType = iota
	// PresenceChangeTypeClear removes every key from the presence map.
	PresenceChangeTypeClear
)

// PresenceChange represents a change of a client's presence data.
type PresenceChange struct {
	ChangeType PresenceChangeType
	Presence   map[string]string
}

// Change represents a unit of changes applied to a Document by a single
// update closure: an ID, a human-readable message, the operations it
// produced, and an optional presence change.
type Change struct {
	id             ID
	message        string
	operations     []operation.Operation
	presenceChange *PresenceChange
}

// New creates a new instance of Change.
func New(id ID, message string, operations []operation.Operation, presenceChange *PresenceChange) *Change {
	return &Change{
		id:             id,
		message:        message,
		operations:     operations,
		presenceChange: presenceChange,
	}
}

// ID returns the ID of this change.
func (c *Change) ID() ID {
	return c.id
}

// Message returns the message of this change.
func (c *Change) Message() string {
	return c.message
}

// Operations returns the operations of this change.
func (c *Change) Operations() []operation.Operation {
	return c.operations
}

// PresenceChange returns the presence change carried by this change, if
// any.
func (c *Change) PresenceChange() *PresenceChange {
	return c.presenceChange
}

// SetActor sets the given actor to this change's ID, used once a change
// built before attach is finally assigned a real actor id.
func (c *Change) SetActor(actor ID) {
	c.id = c.id.SetActor(actor.Actor())
}

// Execute applies this change's operations to the given root in order,
// returning the OpInfo list describing every effect, for event
// emission.
func (c *Change) Execute(root *crdt.CRDTRoot) ([]*operation.OpInfo, error) {
	var infos []*operation.OpInfo
	for _, op := range c.operations {
		info, err := op.Execute(root)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}
