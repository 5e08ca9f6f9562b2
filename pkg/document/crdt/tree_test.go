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

package crdt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

func TestTree(t *testing.T) {
	actorA, err := time.ActorIDFromHex("000000000000000000000001")
	assert.NoError(t, err)

	tk := func(lamport int64) *time.Ticket {
		return time.NewTicket(lamport, 0, actorA)
	}

	t.Run("Len and Marshal reflect two sibling element nodes", func(t *testing.T) {
		root := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(time.InitialTicket, 0), crdt.TreeNodeType, "")

		p1 := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(1), 0), "p", "")
		root.AppendChild(p1)
		p1.AppendChild(crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(2), 0), "text", "ab"))

		p2 := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(3), 0), "p", "")
		root.AppendChild(p2)
		p2.AppendChild(crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(4), 0), "text", "cd"))

		tree := crdt.NewTree(root, time.InitialTicket)

		assert.Equal(t, 8, tree.Len())
		assert.Equal(t, `"<p>ab</p><p>cd</p>"`, tree.Marshal())
	})

	t.Run("an integer-index edit inside a text leaf splits it before inserting", func(t *testing.T) {
		root := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(time.InitialTicket, 0), crdt.TreeNodeType, "")
		p := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(1), 0), "p", "")
		root.AppendChild(p)
		p.AppendChild(crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(2), 0), "text", "ab"))

		tree := crdt.NewTree(root, time.InitialTicket)
		assert.Equal(t, `"<p>ab</p>"`, tree.Marshal())

		newText := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(3), 0), "text", "X")
		_, _, err := tree.Edit(2, 2, []*crdt.TreeNode{newText}, tk(3))
		assert.NoError(t, err)

		assert.Equal(t, `"<p>aXb</p>"`, tree.Marshal())
		assert.Equal(t, 5, tree.Len())
	})

	t.Run("a delete spanning two elements merges the surviving tail into the left parent", func(t *testing.T) {
		root := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(time.InitialTicket, 0), crdt.TreeNodeType, "")

		p1 := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(1), 0), "p", "")
		root.AppendChild(p1)
		p1.AppendChild(crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(2), 0), "text", "ab"))

		p2 := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(3), 0), "p", "")
		root.AppendChild(p2)
		p2.AppendChild(crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(4), 0), "text", "cd"))

		tree := crdt.NewTree(root, time.InitialTicket)

		// Index 2 falls strictly inside "ab" (splits to "a"|"b") and index 6
		// falls strictly inside "cd" (splits to "c"|"d"): deleting [2,6)
		// removes "b</p1><p2>c" and should splice the surviving "d" onto p1
		// as a live child rather than tombstoning it along with p2.
		_, _, err := tree.Edit(2, 6, nil, tk(5))
		assert.NoError(t, err)

		assert.Equal(t, `"<p>ad</p>"`, tree.Marshal())
		assert.Equal(t, 4, tree.Len())

		liveRoots := tree.Root().Children()
		assert.Len(t, liveRoots, 1)

		mergedChildren := liveRoots[0].Children()
		assert.Len(t, mergedChildren, 2)
		assert.Equal(t, "a", mergedChildren[0].Value())
		assert.Equal(t, "d", mergedChildren[1].Value())
		assert.False(t, mergedChildren[1].IsRemoved())
	})

	t.Run("ResolveTreePos walks to the nearest live position once its anchor is removed", func(t *testing.T) {
		root := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(time.InitialTicket, 0), crdt.TreeNodeType, "")
		p := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(1), 0), "p", "")
		root.AppendChild(p)

		tx := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(2), 0), "text", "x")
		ty := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(tk(3), 0), "text", "y")
		p.AppendChild(tx)
		p.AppendChild(ty)

		tree := crdt.NewTree(root, time.InitialTicket)

		// Anchor a position right after "x", as a concurrent operation
		// would have captured it before "x" is removed below.
		posAfterX := crdt.NewTreePos(p.ID(), tx.ID())

		_, _, err := tree.Edit(1, 2, nil, tk(4))
		assert.NoError(t, err)
		assert.Equal(t, `"<p>y</p>"`, tree.Marshal())

		resolvedParent, resolvedLeft, err := tree.ResolveTreePos(posAfterX)
		assert.NoError(t, err)
		assert.True(t, resolvedParent.ID().Equal(p.ID()))
		assert.Nil(t, resolvedLeft)
	})
}
