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

// TreeEdit represents an operation editing a range of a Tree. From and
// To are carried as structural TreePos (parent + left-sibling ids)
// rather than integer indices, since indices are not stable across
// replicas whose trees have diverged; ResolveTreePos re-anchors them at
// execute time, applying the closest-live-position rule when the
// original anchors have since been tombstoned.
type TreeEdit struct {
	parentCreatedAt *time.Ticket
	from            *crdt.TreePos
	to              *crdt.TreePos
	contents        []*crdt.TreeNode
	executedAt      *time.Ticket
}

// NewTreeEdit creates a new instance of TreeEdit.
func NewTreeEdit(
	parentCreatedAt *time.Ticket,
	from, to *crdt.TreePos,
	contents []*crdt.TreeNode,
	executedAt *time.Ticket,
) *TreeEdit {
	return &TreeEdit{
		parentCreatedAt: parentCreatedAt,
		from:            from,
		to:              to,
		contents:        contents,
		executedAt:      executedAt,
	}
}

// Execute applies this operation to the given root.
func (o *TreeEdit) Execute(root *crdt.CRDTRoot) (*OpInfo, error) {
	elem, err := targetContainer(root, o.parentCreatedAt)
	if err != nil {
		return nil, err
	}

	tree, ok := elem.(*crdt.Tree)
	if !ok {
		return nil, fmt.Errorf("%w: not a tree", crdt.ErrTypeMismatch)
	}

	fromParent, fromLeft, err := tree.ResolveTreePos(o.from)
	if err != nil {
		return nil, err
	}
	toParent, toLeft, err := tree.ResolveTreePos(o.to)
	if err != nil {
		return nil, err
	}

	if err := tree.EditByPos(fromParent, fromLeft, toParent, toLeft, o.contents, o.executedAt); err != nil {
		return nil, err
	}
	root.RegisterElementHasRemovedNodes(tree)

	return &OpInfo{Type: "tree-edit", ParentCreatedAt: o.parentCreatedAt}, nil
}

// ExecutedAt returns the time this operation was issued.
func (o *TreeEdit) ExecutedAt() *time.Ticket {
	return o.executedAt
}

// ParentCreatedAt returns the creation time of the target Tree.
func (o *TreeEdit) ParentCreatedAt() *time.Ticket {
	return o.parentCreatedAt
}

// From returns the structural start position of the edited range.
func (o *TreeEdit) From() *crdt.TreePos {
	return o.from
}

// To returns the structural end position of the edited range.
func (o *TreeEdit) To() *crdt.TreePos {
	return o.to
}

// Contents returns the nodes inserted in place of the edited range.
func (o *TreeEdit) Contents() []*crdt.TreeNode {
	return o.contents
}
