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

// Package operation implements the operation variants that mutate a
// CRDTRoot: set, add, move, remove, edit, style, increase and tree-edit.
// Each variant is a plain struct implementing the Operation interface;
// there is no runtime type switch inside Execute, only at the call site
// that decides which variant to construct.
package operation

import (
	"errors"

	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// ErrMoveUnsupported is reserved for moving nodes within a Tree. No
// operation in this package returns it; Move applies only to Array
// elements and TreeEdit does not move nodes.
var ErrMoveUnsupported = errors.New("move is not supported yet")

// ErrTargetNotFound is returned when an operation's parentCreatedAt does
// not resolve to any element in the root.
var ErrTargetNotFound = errors.New("fail to find the target element of the given operation")

// OpInfo describes the observable effect of an executed operation, for
// the Document layer to fan out as a change event without needing to
// know each operation's concrete type.
type OpInfo struct {
	Type            string
	ParentCreatedAt *time.Ticket
	Key             string
	Path            string
}

// Operation represents an operation that can be executed against a
// CRDTRoot to mutate its element graph.
type Operation interface {
	// Execute applies this operation's effect to the given root and
	// returns the OpInfo describing what happened, for event emission.
	Execute(root *crdt.CRDTRoot) (*OpInfo, error)

	// ExecutedAt returns the time this operation was issued.
	ExecutedAt() *time.Ticket

	// ParentCreatedAt returns the creation time of the container this
	// operation targets.
	ParentCreatedAt() *time.Ticket
}

func targetContainer(root *crdt.CRDTRoot, parentCreatedAt *time.Ticket) (crdt.Element, error) {
	elem := root.FindByCreatedAt(parentCreatedAt)
	if elem == nil {
		return nil, ErrTargetNotFound
	}
	return elem, nil
}
