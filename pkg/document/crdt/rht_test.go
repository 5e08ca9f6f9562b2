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

func TestRHT(t *testing.T) {
	actorA, err := time.ActorIDFromHex("000000000000000000000001")
	assert.NoError(t, err)
	actorB, err := time.ActorIDFromHex("000000000000000000000002")
	assert.NoError(t, err)

	t.Run("set and get a single key", func(t *testing.T) {
		rht := crdt.NewRHT()
		rht.Set("color", "red", time.NewTicket(1, 0, actorA))

		value, err := rht.Get("color")
		assert.NoError(t, err)
		assert.Equal(t, "red", value)
		assert.True(t, rht.Has("color"))
	})

	t.Run("missing key returns ErrRHTNotFound", func(t *testing.T) {
		rht := crdt.NewRHT()
		_, err := rht.Get("nope")
		assert.ErrorIs(t, err, crdt.ErrRHTNotFound)
		assert.False(t, rht.Has("nope"))
	})

	t.Run("later write wins regardless of actor", func(t *testing.T) {
		rht := crdt.NewRHT()
		assert.True(t, rht.Set("bold", "true", time.NewTicket(1, 0, actorA)))
		// actorB's write has a lower lamport, so it must lose even though
		// it is a different actor.
		assert.False(t, rht.Set("bold", "false", time.NewTicket(0, 0, actorB)))

		value, err := rht.Get("bold")
		assert.NoError(t, err)
		assert.Equal(t, "true", value)

		// A later write, from either actor, wins.
		assert.True(t, rht.Set("bold", "false", time.NewTicket(2, 0, actorB)))
		value, err = rht.Get("bold")
		assert.NoError(t, err)
		assert.Equal(t, "false", value)
	})

	t.Run("concurrent same-lamport writes break ties by actor", func(t *testing.T) {
		rht := crdt.NewRHT()
		assert.True(t, rht.Set("k", "from-a", time.NewTicket(1, 0, actorA)))
		// actorB > actorA lexicographically, so it wins the tie at the
		// same lamport.
		assert.True(t, rht.Set("k", "from-b", time.NewTicket(1, 0, actorB)))

		value, err := rht.Get("k")
		assert.NoError(t, err)
		assert.Equal(t, "from-b", value)
	})

	t.Run("Remove tombstones the key as an empty value", func(t *testing.T) {
		rht := crdt.NewRHT()
		rht.Set("k", "v", time.NewTicket(1, 0, actorA))
		assert.True(t, rht.Remove("k", time.NewTicket(2, 0, actorA)))

		assert.False(t, rht.Has("k"))
		_, exists := rht.Elements()["k"]
		assert.False(t, exists)
	})

	t.Run("a stale Remove does not resurrect a later Set", func(t *testing.T) {
		rht := crdt.NewRHT()
		rht.Set("k", "v", time.NewTicket(2, 0, actorA))
		assert.False(t, rht.Remove("k", time.NewTicket(1, 0, actorA)))

		value, err := rht.Get("k")
		assert.NoError(t, err)
		assert.Equal(t, "v", value)
	})

	t.Run("Members preserves first-write order and excludes tombstones", func(t *testing.T) {
		rht := crdt.NewRHT()
		rht.Set("first", "1", time.NewTicket(1, 0, actorA))
		rht.Set("second", "2", time.NewTicket(2, 0, actorA))
		rht.Set("third", "3", time.NewTicket(3, 0, actorA))
		rht.Remove("second", time.NewTicket(4, 0, actorA))

		assert.Equal(t, []string{"first", "third"}, rht.Members())
	})

	t.Run("DeepCopy is an independent snapshot", func(t *testing.T) {
		rht := crdt.NewRHT()
		rht.Set("k", "v", time.NewTicket(1, 0, actorA))

		copied := rht.DeepCopy()
		rht.Set("k", "changed", time.NewTicket(2, 0, actorA))

		value, err := copied.Get("k")
		assert.NoError(t, err)
		assert.Equal(t, "v", value)
	})

	t.Run("Marshal renders keys in lexicographic order", func(t *testing.T) {
		rht := crdt.NewRHT()
		rht.Set("b", "2", time.NewTicket(1, 0, actorA))
		rht.Set("a", "1", time.NewTicket(2, 0, actorA))

		assert.Equal(t, `{"a":"1","b":"2"}`, rht.Marshal())
	})
}
