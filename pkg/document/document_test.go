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

package document_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/yorkie/pkg/document"
	"github.com/yorkie-team/yorkie/pkg/document/change"
	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/json"
)

func TestDocument_Update(t *testing.T) {
	t.Run("a successful update is reflected in Marshal", func(t *testing.T) {
		doc := document.New("doc-1")

		err := doc.Update(func(root *json.Object) error {
			root.SetString("title", "hello")
			root.SetNewText("content").Edit(0, 0, "world", nil)
			root.SetNewCounter("views", crdt.IntegerCnt, 0).Increase(1)
			return nil
		}, "seed")
		assert.NoError(t, err)

		assert.Equal(t, `{"title":"hello","content":[{"val":"world"}],"views":1}`, doc.Marshal())
	})

	t.Run("an error from the updater leaves the document untouched", func(t *testing.T) {
		doc := document.New("doc-1")
		assert.NoError(t, doc.Update(func(root *json.Object) error {
			root.SetString("title", "hello")
			return nil
		}, "seed"))

		before := doc.Marshal()

		wantErr := errors.New("boom")
		err := doc.Update(func(root *json.Object) error {
			root.SetString("title", "should not stick")
			return wantErr
		}, "failing update")

		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, before, doc.Marshal())
	})

	t.Run("an update producing no operations does not buffer a change", func(t *testing.T) {
		doc := document.New("doc-1")
		assert.NoError(t, doc.Update(func(root *json.Object) error {
			return nil
		}, "no-op"))

		pack := doc.CreateChangePack()
		assert.False(t, pack.HasChanges())
	})
}

func TestDocument_ApplyChangePack(t *testing.T) {
	t.Run("a pushed local change converges onto a second replica", func(t *testing.T) {
		docA := document.New("doc-1")
		assert.NoError(t, docA.Update(func(root *json.Object) error {
			root.SetNewText("content").Edit(0, 0, "hello", nil)
			return nil
		}, "seed"))

		pack := docA.CreateChangePack()
		assert.True(t, pack.HasChanges())

		docB := document.New("doc-1")
		assert.NoError(t, docB.ApplyChangePack(pack))

		assert.Equal(t, docA.Marshal(), docB.Marshal())
	})

	t.Run("acknowledged local changes are purged from the local buffer", func(t *testing.T) {
		doc := document.New("doc-1")
		assert.NoError(t, doc.Update(func(root *json.Object) error {
			root.SetString("a", "1")
			return nil
		}, "first"))
		assert.NoError(t, doc.Update(func(root *json.Object) error {
			root.SetString("b", "2")
			return nil
		}, "second"))

		pack := doc.CreateChangePack()
		assert.Len(t, pack.Changes, 2)

		ackPack := change.NewPack(
			doc.Key(),
			change.NewCheckpoint(0, pack.Changes[len(pack.Changes)-1].ID().ClientSeq()),
			nil,
			nil,
			nil,
		)
		assert.NoError(t, doc.ApplyChangePack(ackPack))

		assert.False(t, doc.CreateChangePack().HasChanges())
	})

	t.Run("remote changes are applied in order and emit RemoteChangeEvent", func(t *testing.T) {
		docA := document.New("doc-1")
		assert.NoError(t, docA.Update(func(root *json.Object) error {
			root.SetNewText("content").Edit(0, 0, "ab", nil)
			return nil
		}, "seed"))

		docB := document.New("doc-1")
		events, unsubscribe := docB.Subscribe()
		defer unsubscribe()

		assert.NoError(t, docB.ApplyChangePack(docA.CreateChangePack()))

		select {
		case ev := <-events:
			assert.Equal(t, document.RemoteChangeEvent, ev.Type)
		default:
			t.Fatal("expected a RemoteChangeEvent to be published")
		}
	})
}

func TestDocument_Subscribe(t *testing.T) {
	t.Run("a local update publishes LocalChangeEvent to subscribers", func(t *testing.T) {
		doc := document.New("doc-1")
		events, unsubscribe := doc.Subscribe()
		defer unsubscribe()

		assert.NoError(t, doc.Update(func(root *json.Object) error {
			root.SetString("k", "v")
			return nil
		}, "update"))

		select {
		case ev := <-events:
			assert.Equal(t, document.LocalChangeEvent, ev.Type)
		default:
			t.Fatal("expected a LocalChangeEvent to be published")
		}
	})

	t.Run("unsubscribe stops further delivery", func(t *testing.T) {
		doc := document.New("doc-1")
		events, unsubscribe := doc.Subscribe()
		unsubscribe()

		assert.NoError(t, doc.Update(func(root *json.Object) error {
			root.SetString("k", "v")
			return nil
		}, "update"))

		_, ok := <-events
		assert.False(t, ok)
	})
}
