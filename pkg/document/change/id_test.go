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

package change_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/yorkie/pkg/document/change"
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

func TestID(t *testing.T) {
	actor, err := time.ActorIDFromHex("000000000000000000000001")
	assert.NoError(t, err)
	other, err := time.ActorIDFromHex("000000000000000000000002")
	assert.NoError(t, err)

	t.Run("Next advances both clientSeq and lamport by one", func(t *testing.T) {
		id := change.NewID(0, 0, actor)
		next := id.Next()
		assert.Equal(t, uint32(1), next.ClientSeq())
		assert.Equal(t, int64(1), next.Lamport())
		assert.Same(t, actor, next.Actor())
	})

	t.Run("SyncLamport keeps its own lamport when ahead, otherwise moves one past the remote", func(t *testing.T) {
		ahead := change.NewID(0, 10, actor)
		synced := ahead.SyncLamport(3)
		assert.Equal(t, int64(10), synced.Lamport())

		behind := change.NewID(0, 3, actor)
		synced = behind.SyncLamport(10)
		assert.Equal(t, int64(11), synced.Lamport())
	})

	t.Run("NewTimeTicket shares this ID's lamport and actor", func(t *testing.T) {
		id := change.NewID(2, 7, actor)
		ticket := id.NewTimeTicket(3)
		assert.Equal(t, int64(7), ticket.Lamport())
		assert.Equal(t, uint32(3), ticket.Delimiter())
		assert.True(t, ticket.ActorID().Equal(actor))
	})

	t.Run("SetActor replaces the actor without touching clientSeq or lamport", func(t *testing.T) {
		id := change.NewID(4, 9, actor)
		withOther := id.SetActor(other)
		assert.Equal(t, uint32(4), withOther.ClientSeq())
		assert.Equal(t, int64(9), withOther.Lamport())
		assert.True(t, withOther.Actor().Equal(other))
	})

	t.Run("InitialID starts at the zero clock", func(t *testing.T) {
		assert.Equal(t, uint32(change.InitialClientSeq), change.InitialID.ClientSeq())
		assert.Equal(t, time.InitialLamport, change.InitialID.Lamport())
	})
}
