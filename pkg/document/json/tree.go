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
)

// Tree is the proxy representing a CRDT Tree in an update closure.
type Tree struct {
	*crdt.Tree
	context *change.Context
}

// NewTree creates a new instance of Tree.
func NewTree(ctx *change.Context, tree *crdt.Tree) *Tree {
	return &Tree{Tree: tree, context: ctx}
}

// NewTreeNode builds a new, as yet unattached TreeNode with the given
// type and text content, ticketed against this proxy's context. Pass an
// empty value for an element node; children may be appended to it with
// (*crdt.TreeNode).AppendChild before it is handed to Edit.
func (p *Tree) NewTreeNode(nodeType string, value string) *crdt.TreeNode {
	return crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(p.context.IssueTimeTicket(), 0), nodeType, value)
}

// Edit replaces the structural range [fromIdx, toIdx) with contents.
func (p *Tree) Edit(fromIdx, toIdx int, contents ...*crdt.TreeNode) error {
	ticket := p.context.IssueTimeTicket()

	fromPos, toPos, err := p.Tree.Edit(fromIdx, toIdx, contents, ticket)
	if err != nil {
		return err
	}

	p.context.Push(operation.NewTreeEdit(p.Tree.CreatedAt(), fromPos, toPos, contents, ticket))
	p.context.Root().RegisterElementHasRemovedNodes(p.Tree)
	return nil
}

// ToXML returns the XML-style string representation of this tree's
// visible content, for debugging and tests.
func (p *Tree) ToXML() string {
	return p.Tree.Marshal()
}
