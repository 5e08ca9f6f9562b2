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

func newTestText() *crdt.Text {
	return crdt.NewText(crdt.NewRGATreeSplit(crdt.InitialTextNode()), time.InitialTicket)
}

func TestRGATreeSplit(t *testing.T) {
	actorA, err := time.ActorIDFromHex("000000000000000000000001")
	assert.NoError(t, err)
	actorB, err := time.ActorIDFromHex("000000000000000000000002")
	assert.NoError(t, err)

	t.Run("sequential insert then a split edit in the middle", func(t *testing.T) {
		text := newTestText()

		from, to := text.CreateRange(0, 0)
		_, _, _ = text.Edit(from, to, nil, "helloyorkie", nil, time.NewTicket(1, 0, actorA))
		assert.Equal(t, "helloyorkie", text.String())

		from, to = text.CreateRange(5, 5)
		_, _, change := text.Edit(from, to, nil, "~", nil, time.NewTicket(2, 0, actorA))
		assert.Equal(t, "hello~yorkie", text.String())
		assert.Equal(t, 5, change.From)
		assert.Equal(t, 5, change.To)
		assert.Equal(t, "~", change.Content)
		assert.True(t, text.CheckWeight())
	})

	t.Run("concurrent inserts at the same origin break ties by actor", func(t *testing.T) {
		text := newTestText()

		from, to := text.CreateRange(0, 0)
		_, _, _ = text.Edit(from, to, nil, "o", nil, time.NewTicket(1, 0, actorA))
		assert.Equal(t, "o", text.String())

		// Both actors insert concurrently right before "o", at the same
		// origin position (0,0), racing on the insPrev chain.
		fromA, toA := text.CreateRange(0, 0)
		_, _, _ = text.Edit(fromA, toA, nil, "a", nil, time.NewTicket(2, 0, actorA))

		fromB, toB := text.CreateRange(0, 0)
		_, _, _ = text.Edit(fromB, toB, nil, "b", nil, time.NewTicket(2, 0, actorB))

		// Whichever insert has the later ticket at the same origin is
		// threaded closer to the head: the higher-actor write at lamport
		// 2 (b) ends up left of the lower-actor write (a), and both end
		// up left of the original "o" insert (lamport 1).
		assert.Equal(t, "bao", text.String())
		assert.True(t, text.CheckWeight())
	})

	t.Run("delete is gated by latestCreatedAtMapByActor", func(t *testing.T) {
		text := newTestText()

		from, to := text.CreateRange(0, 0)
		_, _, _ = text.Edit(from, to, nil, "abcde", nil, time.NewTicket(1, 0, actorA))
		assert.Equal(t, "abcde", text.String())

		// A delete of [1,4) ("bcd") whose latestCreatedAtMapByActor only
		// allows actorA up through lamport 1 should remove everything
		// actorA wrote at that lamport.
		from, to = text.CreateRange(1, 4)
		latest := map[string]*time.Ticket{actorA.String(): time.NewTicket(1, 0, actorA)}
		_, latestCreatedAtMap, change := text.Edit(from, to, latest, "", nil, time.NewTicket(2, 0, actorB))

		assert.Equal(t, "ae", text.String())
		assert.Equal(t, 1, change.From)
		assert.Equal(t, 4, change.To)
		assert.Equal(t, "", change.Content)
		assert.Contains(t, latestCreatedAtMap, actorA.String())
		assert.True(t, text.CheckWeight())
	})

	t.Run("a stale concurrent delete cannot re-delete an already-tombstoned node", func(t *testing.T) {
		text := newTestText()

		from, to := text.CreateRange(0, 0)
		_, _, _ = text.Edit(from, to, nil, "abc", nil, time.NewTicket(1, 0, actorA))

		// Capture the position of "b" by its CRDT identity before it is
		// removed: a position is (nodeID, offset), so it still resolves
		// to the same node once tombstoned, unlike a freshly computed
		// visible-index range.
		bFrom, bTo := text.CreateRange(1, 2)

		_, _, _ = text.Edit(bFrom, bTo, nil, "", nil, time.NewTicket(5, 0, actorB))
		assert.Equal(t, "ac", text.String())
		assert.Equal(t, 1, text.RemovedNodesLen())

		// actorA's own delete of the same node, stamped at an earlier
		// lamport than the remove already recorded, cannot overwrite it:
		// canDelete requires the new editedAt to be after the node's
		// existing removedAt.
		_, latestCreatedAtMap, _ := text.Edit(bFrom, bTo, nil, "", nil, time.NewTicket(3, 0, actorA))
		assert.Empty(t, latestCreatedAtMap)
		assert.Equal(t, "ac", text.String())
		assert.Equal(t, 1, text.RemovedNodesLen())
	})

	t.Run("PurgeRemovedNodesBefore drops old tombstones", func(t *testing.T) {
		text := newTestText()

		from, to := text.CreateRange(0, 0)
		_, _, _ = text.Edit(from, to, nil, "abc", nil, time.NewTicket(1, 0, actorA))

		from, to = text.CreateRange(1, 2)
		_, _, _ = text.Edit(from, to, nil, "", nil, time.NewTicket(2, 0, actorA))
		assert.Equal(t, 1, text.RemovedNodesLen())

		purged, err := text.PurgeRemovedNodesBefore(time.NewTicket(3, 0, actorA))
		assert.NoError(t, err)
		assert.Equal(t, 1, purged)
		assert.Equal(t, 0, text.RemovedNodesLen())
		assert.Equal(t, "ac", text.String())
	})
}
