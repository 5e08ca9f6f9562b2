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

func TestRHTPQMap(t *testing.T) {
	actorA, err := time.ActorIDFromHex("000000000000000000000001")
	assert.NoError(t, err)
	actorB, err := time.ActorIDFromHex("000000000000000000000002")
	assert.NoError(t, err)

	t.Run("set and get a single key", func(t *testing.T) {
		rht := crdt.NewRHTPQMap()
		ticket := time.NewTicket(1, 0, actorA)
		rht.Set("title", crdt.NewPrimitive("hello", ticket))

		assert.True(t, rht.Has("title"))
		assert.Equal(t, "hello", rht.Get("title").(*crdt.Primitive).Value())
	})

	t.Run("a later concurrent Set tombstones the previous winner but keeps it queued", func(t *testing.T) {
		rht := crdt.NewRHTPQMap()
		t1 := time.NewTicket(1, 0, actorA)
		t2 := time.NewTicket(2, 0, actorB)

		removed := rht.Set("k", crdt.NewPrimitive("first", t1))
		assert.Nil(t, removed)

		removed = rht.Set("k", crdt.NewPrimitive("second", t2))
		assert.NotNil(t, removed)
		assert.Equal(t, "first", removed.(*crdt.Primitive).Value())

		assert.Equal(t, "second", rht.Get("k").(*crdt.Primitive).Value())
		assert.Len(t, rht.AllNodes(), 2)
	})

	t.Run("Members preserves insertion order of live keys, not map order", func(t *testing.T) {
		rht := crdt.NewRHTPQMap()
		rht.Set("title", crdt.NewPrimitive("hello", time.NewTicket(1, 0, actorA)))
		rht.Set("content", crdt.NewPrimitive("world", time.NewTicket(2, 0, actorA)))
		rht.Set("views", crdt.NewPrimitive(int32(1), time.NewTicket(3, 0, actorA)))

		members := rht.Members()
		assert.Len(t, members, 3)
		assert.Equal(t, "title", members[0].Key)
		assert.Equal(t, "content", members[1].Key)
		assert.Equal(t, "views", members[2].Key)
	})

	t.Run("Members skips a key once fully removed", func(t *testing.T) {
		rht := crdt.NewRHTPQMap()
		rht.Set("a", crdt.NewPrimitive("1", time.NewTicket(1, 0, actorA)))
		rht.Set("b", crdt.NewPrimitive("2", time.NewTicket(2, 0, actorA)))

		assert.True(t, rht.Delete("a", time.NewTicket(3, 0, actorA)))

		members := rht.Members()
		assert.Len(t, members, 1)
		assert.Equal(t, "b", members[0].Key)
	})

	t.Run("AllKeyedNodes preserves insertion order across keys, including tombstones", func(t *testing.T) {
		rht := crdt.NewRHTPQMap()
		rht.Set("z", crdt.NewPrimitive("first", time.NewTicket(1, 0, actorA)))
		rht.Set("a", crdt.NewPrimitive("second", time.NewTicket(2, 0, actorA)))
		assert.True(t, rht.Delete("z", time.NewTicket(3, 0, actorA)))

		pairs := rht.AllKeyedNodes()
		assert.Len(t, pairs, 2)
		assert.Equal(t, "z", pairs[0].Key)
		assert.Equal(t, "a", pairs[1].Key)
	})

	t.Run("Purge removes an element from its key's queue entirely", func(t *testing.T) {
		rht := crdt.NewRHTPQMap()
		t1 := time.NewTicket(1, 0, actorA)
		elem := crdt.NewPrimitive("first", t1)
		rht.Set("k", elem)
		rht.Set("k", crdt.NewPrimitive("second", time.NewTicket(2, 0, actorB)))
		assert.Len(t, rht.AllNodes(), 2)

		assert.NoError(t, rht.Purge(elem))
		assert.Len(t, rht.AllNodes(), 1)
	})
}
