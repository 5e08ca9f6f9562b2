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

package operation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/operation"
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

func newTestRoot() *crdt.CRDTRoot {
	return crdt.NewCRDTRoot(crdt.NewObject(crdt.NewRHTPQMap(), time.InitialTicket))
}

func TestOperations(t *testing.T) {
	actor, err := time.ActorIDFromHex("000000000000000000000001")
	assert.NoError(t, err)

	tk := func(lamport int64) *time.Ticket {
		return time.NewTicket(lamport, 0, actor)
	}

	t.Run("Set installs a value under the target object's key", func(t *testing.T) {
		root := newTestRoot()
		value := crdt.NewPrimitive("hello", tk(1))

		setOp := operation.NewSet(root.Object().CreatedAt(), "title", value, tk(1))
		info, err := setOp.Execute(root)
		assert.NoError(t, err)
		assert.Equal(t, "title", info.Key)

		got := root.Object().Get("title")
		assert.Equal(t, "hello", got.(*crdt.Primitive).Value())
	})

	t.Run("Set on a missing parent returns ErrTargetNotFound", func(t *testing.T) {
		root := newTestRoot()
		setOp := operation.NewSet(tk(99), "title", crdt.NewPrimitive("x", tk(1)), tk(1))
		_, err := setOp.Execute(root)
		assert.ErrorIs(t, err, operation.ErrTargetNotFound)
	})

	t.Run("Add, Move and Remove compose into the expected array order", func(t *testing.T) {
		root := newTestRoot()

		arr := crdt.NewArray(crdt.NewRGATreeList(), tk(1))
		assert.NoError(t, mustExecute(operation.NewSet(root.Object().CreatedAt(), "list", arr, tk(1)), root))

		valA := crdt.NewPrimitive("a", tk(2))
		assert.NoError(t, mustExecute(operation.NewAdd(arr.CreatedAt(), time.InitialTicket, valA, tk(2)), root))

		valB := crdt.NewPrimitive("b", tk(3))
		assert.NoError(t, mustExecute(operation.NewAdd(arr.CreatedAt(), valA.CreatedAt(), valB, tk(3)), root))

		assert.Equal(t, `["a","b"]`, arr.Marshal())

		// Move "b" to the front.
		assert.NoError(t, mustExecute(
			operation.NewMove(arr.CreatedAt(), time.InitialTicket, valB.CreatedAt(), tk(4)), root))
		assert.Equal(t, `["b","a"]`, arr.Marshal())

		// Remove "a".
		assert.NoError(t, mustExecute(
			operation.NewRemove(arr.CreatedAt(), valA.CreatedAt(), tk(5)), root))
		assert.Equal(t, `["b"]`, arr.Marshal())

		_, stillThere := root.ElementsToBeRemoved()[valA.CreatedAt().Key()]
		assert.True(t, stillThere)
	})

	t.Run("Increase accumulates deltas on the target Counter", func(t *testing.T) {
		root := newTestRoot()

		counter := crdt.NewCounter(crdt.IntegerCnt, 0, tk(1))
		assert.NoError(t, mustExecute(operation.NewSet(root.Object().CreatedAt(), "views", counter, tk(1)), root))

		assert.NoError(t, mustExecute(
			operation.NewIncrease(counter.CreatedAt(), crdt.NewPrimitive(int32(3), tk(2)), tk(2)), root))
		assert.NoError(t, mustExecute(
			operation.NewIncrease(counter.CreatedAt(), crdt.NewPrimitive(int32(-1), tk(3)), tk(3)), root))

		assert.Equal(t, int64(2), counter.Value())
	})

	t.Run("Add against a non-array parent fails with ErrTypeMismatch", func(t *testing.T) {
		root := newTestRoot()
		_, err := operation.NewAdd(root.Object().CreatedAt(), time.InitialTicket, crdt.NewPrimitive("x", tk(1)), tk(1)).
			Execute(root)
		assert.ErrorIs(t, err, crdt.ErrTypeMismatch)
	})
}

func mustExecute(op operation.Operation, root *crdt.CRDTRoot) error {
	_, err := op.Execute(root)
	return err
}
