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
)

func TestCheckpoint(t *testing.T) {
	t.Run("NextServerSeq advances only the server sequence", func(t *testing.T) {
		cp := change.NewCheckpoint(1, 2)
		next := cp.NextServerSeq(5)
		assert.Equal(t, int64(5), next.ServerSeq())
		assert.Equal(t, uint32(2), next.ClientSeq())
	})

	t.Run("SyncClientSeq advances only the client sequence", func(t *testing.T) {
		cp := change.NewCheckpoint(1, 2)
		next := cp.SyncClientSeq(9)
		assert.Equal(t, int64(1), next.ServerSeq())
		assert.Equal(t, uint32(9), next.ClientSeq())
	})

	t.Run("Forward keeps the receiver when it already dominates", func(t *testing.T) {
		ahead := change.NewCheckpoint(10, 10)
		behind := change.NewCheckpoint(3, 3)
		assert.Equal(t, ahead, ahead.Forward(behind))
	})

	t.Run("Forward takes the max of each dimension independently", func(t *testing.T) {
		a := change.NewCheckpoint(10, 1)
		b := change.NewCheckpoint(1, 10)
		merged := a.Forward(b)
		assert.Equal(t, int64(10), merged.ServerSeq())
		assert.Equal(t, uint32(10), merged.ClientSeq())
	})

	t.Run("InitialCheckpoint starts at zero", func(t *testing.T) {
		assert.Equal(t, int64(0), change.InitialCheckpoint.ServerSeq())
		assert.Equal(t, uint32(change.InitialClientSeq), change.InitialCheckpoint.ClientSeq())
	})

	t.Run("String renders both fields", func(t *testing.T) {
		cp := change.NewCheckpoint(4, 2)
		assert.Equal(t, "serverSeq=4, clientSeq=2", cp.String())
	})
}
