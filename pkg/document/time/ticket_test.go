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

package time_test

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/yorkie/pkg/document/time"
)

func TestTicket(t *testing.T) {
	actorA, err := time.ActorIDFromHex("000000000000000000000001")
	assert.NoError(t, err)
	actorB, err := time.ActorIDFromHex("000000000000000000000002")
	assert.NoError(t, err)

	t.Run("total ordering by lamport, then actor, then delimiter", func(t *testing.T) {
		base := time.NewTicket(1, 0, actorA)

		higherLamport := time.NewTicket(2, 0, actorA)
		assert.True(t, higherLamport.After(base))
		assert.Equal(t, 1, higherLamport.Compare(base))
		assert.Equal(t, -1, base.Compare(higherLamport))

		sameLamportHigherActor := time.NewTicket(1, 0, actorB)
		assert.True(t, sameLamportHigherActor.After(base))

		sameLamportSameActorHigherDelimiter := time.NewTicket(1, 1, actorA)
		assert.True(t, sameLamportSameActorHigherDelimiter.After(base))
	})

	t.Run("equal tickets compare to zero", func(t *testing.T) {
		a := time.NewTicket(5, 3, actorA)
		b := time.NewTicket(5, 3, actorA)
		assert.True(t, a.Equal(b))
		assert.Equal(t, 0, a.Compare(b))
		assert.False(t, a.After(b))
	})

	t.Run("Key is stable for equal tickets", func(t *testing.T) {
		a := time.NewTicket(5, 3, actorA)
		b := time.NewTicket(5, 3, actorA)
		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("MaxTicket sorts after any ordinary ticket", func(t *testing.T) {
		ordinary := time.NewTicket(1000, 999, actorB)
		assert.True(t, time.MaxTicket.After(ordinary))
	})

	t.Run("gob round-trip preserves ordering fields", func(t *testing.T) {
		orig := time.NewTicket(42, 7, actorB)

		var buf bytes.Buffer
		assert.NoError(t, gob.NewEncoder(&buf).Encode(orig))

		var decoded time.Ticket
		assert.NoError(t, gob.NewDecoder(&buf).Decode(&decoded))

		assert.True(t, orig.Equal(&decoded))
		assert.Equal(t, orig.Lamport(), decoded.Lamport())
		assert.Equal(t, orig.Delimiter(), decoded.Delimiter())
		assert.Equal(t, orig.ActorIDHex(), decoded.ActorIDHex())
	})
}
