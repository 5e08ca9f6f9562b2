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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/yorkie/pkg/document/time"
)

func TestActorID(t *testing.T) {
	t.Run("NewActorID produces a parseable hex string of the right width", func(t *testing.T) {
		id, err := time.NewActorID()
		assert.NoError(t, err)
		assert.Len(t, id.Bytes(), time.ActorIDSize)
		assert.Len(t, id.String(), time.ActorIDSize*2)

		parsed, err := time.ActorIDFromHex(id.String())
		assert.NoError(t, err)
		assert.True(t, id.Equal(parsed))
	})

	t.Run("Compare is lexicographic over the underlying bytes", func(t *testing.T) {
		low, err := time.ActorIDFromHex("000000000000000000000001")
		assert.NoError(t, err)
		high, err := time.ActorIDFromHex("000000000000000000000002")
		assert.NoError(t, err)

		assert.Equal(t, -1, low.Compare(high))
		assert.Equal(t, 1, high.Compare(low))
		assert.Equal(t, 0, low.Compare(low))
		assert.False(t, low.Equal(high))
	})

	t.Run("InitialActorID is the all-zero actor", func(t *testing.T) {
		zero, err := time.ActorIDFromHex("000000000000000000000000")
		assert.NoError(t, err)
		assert.True(t, zero.Equal(&time.InitialActorID))
	})

	t.Run("MaxActorID compares greater than any ordinary actor", func(t *testing.T) {
		ordinary, err := time.NewActorID()
		assert.NoError(t, err)
		assert.Equal(t, 1, time.MaxActorID.Compare(ordinary))
	})

	t.Run("two freshly generated actor IDs differ", func(t *testing.T) {
		a, err := time.NewActorID()
		assert.NoError(t, err)
		b, err := time.NewActorID()
		assert.NoError(t, err)
		assert.False(t, a.Equal(b))
	})
}
