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
	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/operation"
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

func TestChangePack(t *testing.T) {
	actor, err := time.ActorIDFromHex("000000000000000000000001")
	assert.NoError(t, err)

	t.Run("decode(encode(pack)) preserves every change and operation", func(t *testing.T) {
		rootCreatedAt := time.InitialTicket
		setTicket := time.NewTicket(1, 0, actor)
		editTicket := time.NewTicket(2, 0, actor)

		setOp := operation.NewSet(
			rootCreatedAt,
			"title",
			crdt.NewPrimitive("hello", setTicket),
			setTicket,
		)

		fromPos := crdt.NewRGATreeSplitNodePos(crdt.NewRGATreeSplitNodeID(time.InitialTicket, 0), 0)
		toPos := crdt.NewRGATreeSplitNodePos(crdt.NewRGATreeSplitNodeID(time.InitialTicket, 0), 0)
		editOp := operation.NewEdit(
			rootCreatedAt,
			fromPos, toPos,
			map[string]*time.Ticket{actor.String(): setTicket},
			"world",
			map[string]string{"bold": "true"},
			editTicket,
		)

		c := change.New(
			change.NewID(1, 2, actor),
			"edit title",
			[]operation.Operation{setOp, editOp},
			&change.PresenceChange{
				ChangeType: change.PresenceChangeTypePut,
				Presence:   map[string]string{"color": "red"},
			},
		)

		pack := change.NewPack(
			"doc-1",
			change.NewCheckpoint(3, 1),
			[]*change.Change{c},
			nil,
			time.InitialTicket,
		)

		encoded, err := change.EncodePack(pack)
		assert.NoError(t, err)

		decoded, err := change.DecodePack(encoded)
		assert.NoError(t, err)

		assert.Equal(t, pack.DocumentKey, decoded.DocumentKey)
		assert.Equal(t, pack.Checkpoint, decoded.Checkpoint)
		assert.True(t, pack.MinSyncedTicket.Equal(decoded.MinSyncedTicket))
		assert.Len(t, decoded.Changes, 1)

		decodedChange := decoded.Changes[0]
		assert.Equal(t, c.ID(), decodedChange.ID())
		assert.Equal(t, c.Message(), decodedChange.Message())
		assert.Len(t, decodedChange.Operations(), 2)

		decodedSet, ok := decodedChange.Operations()[0].(*operation.Set)
		assert.True(t, ok)
		assert.Equal(t, "title", decodedSet.Key())
		assert.True(t, setTicket.Equal(decodedSet.ExecutedAt()))
		decodedPrimitive, ok := decodedSet.Value().(*crdt.Primitive)
		assert.True(t, ok)
		assert.Equal(t, "hello", decodedPrimitive.Value())

		decodedEdit, ok := decodedChange.Operations()[1].(*operation.Edit)
		assert.True(t, ok)
		assert.Equal(t, "world", decodedEdit.Content())
		assert.Equal(t, map[string]string{"bold": "true"}, decodedEdit.Attributes())
		assert.Contains(t, decodedEdit.MaxCreatedAtMapByActor(), actor.String())

		assert.NotNil(t, decodedChange.PresenceChange())
		assert.Equal(t, change.PresenceChangeTypePut, decodedChange.PresenceChange().ChangeType)
		assert.Equal(t, "red", decodedChange.PresenceChange().Presence["color"])
	})

	t.Run("HasChanges reflects whether the pack carries any change", func(t *testing.T) {
		empty := change.NewPack("doc-1", change.InitialCheckpoint, nil, nil, nil)
		assert.False(t, empty.HasChanges())

		nonEmpty := change.NewPack("doc-1", change.InitialCheckpoint, []*change.Change{
			change.New(change.InitialID, "", nil, nil),
		}, nil, nil)
		assert.True(t, nonEmpty.HasChanges())
	})

	t.Run("EncodeChange/DecodeChange round-trips a single change", func(t *testing.T) {
		c := change.New(
			change.NewID(5, 9, actor),
			"solo change",
			[]operation.Operation{
				operation.NewIncrease(
					time.InitialTicket,
					crdt.NewPrimitive(int32(1), time.NewTicket(9, 0, actor)),
					time.NewTicket(9, 0, actor),
				),
			},
			nil,
		)

		encoded, err := change.EncodeChange(c)
		assert.NoError(t, err)

		decoded, err := change.DecodeChange(encoded)
		assert.NoError(t, err)

		assert.Equal(t, c.ID(), decoded.ID())
		assert.Equal(t, c.Message(), decoded.Message())
		assert.Nil(t, decoded.PresenceChange())
		assert.Len(t, decoded.Operations(), 1)

		decodedIncrease, ok := decoded.Operations()[0].(*operation.Increase)
		assert.True(t, ok)
		assert.Equal(t, int32(1), decodedIncrease.Value().Value())
	})
}
