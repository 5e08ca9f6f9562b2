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

package change

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// wireSnapshot is the gob-encodable shadow of a CRDTRoot plus the
// Lamport value of the change that produced it: a ChangePack's
// optional `snapshot` payload per §6.1, "opaque; carries a full root
// plus its checkpoint". Member/element tombstones round-trip exactly
// (AllMembers/Elements both include them); Text round-trips only its
// live content, not its internal split/tombstone history — a since a
// snapshot boundary is a compaction point, any stale reference into a
// Text's removed nodes from before the snapshot is no longer
// resolvable, the same way a Remove naming an object key already
// superseded before the snapshot is.
type wireSnapshot struct {
	Root    wireElement
	Lamport int64
}

type wireElement struct {
	Kind      string
	CreatedAt *time.Ticket
	RemovedAt *time.Ticket
	MovedAt   *time.Ticket

	PrimitiveType crdt.ValueType
	Bool          bool
	Int32         int32
	Int64         int64
	Float64       float64
	Str           string
	Bytes         []byte

	Members  []wireMember
	Elements []wireElement

	CounterType  crdt.CounterType
	CounterValue int64

	Text string

	TreeRoot *wireTreeNode
}

type wireMember struct {
	Key   string
	Value wireElement
}

func toWireElement(elem crdt.Element) wireElement {
	base := wireElement{
		CreatedAt: elem.CreatedAt(),
		RemovedAt: elem.RemovedAt(),
		MovedAt:   elem.MovedAt(),
	}

	switch v := elem.(type) {
	case *crdt.Primitive:
		base.Kind = "primitive"
		base.PrimitiveType = v.ValueType()
		switch v.ValueType() {
		case crdt.Boolean:
			base.Bool = v.Value().(bool)
		case crdt.Integer:
			base.Int32 = v.Value().(int32)
		case crdt.Long:
			base.Int64 = v.Value().(int64)
		case crdt.Double:
			base.Float64 = v.Value().(float64)
		case crdt.String:
			base.Str = v.Value().(string)
		case crdt.Bytes:
			base.Bytes = v.Value().([]byte)
		}
	case *crdt.Counter:
		base.Kind = "counter"
		base.CounterType = v.ValueType()
		base.CounterValue = v.Value()
	case *crdt.Object:
		base.Kind = "object"
		for _, kv := range v.AllMembers() {
			base.Members = append(base.Members, wireMember{Key: kv.Key, Value: toWireElement(kv.Elem)})
		}
	case *crdt.Array:
		base.Kind = "array"
		for _, e := range v.Elements() {
			base.Elements = append(base.Elements, toWireElement(e))
		}
	case *crdt.Text:
		base.Kind = "text"
		base.Text = v.String()
	case *crdt.Tree:
		base.Kind = "tree"
		base.TreeRoot = &wireTreeNode{}
		*base.TreeRoot = toWireTreeNode(v.Root())
	}
	return base
}

func fromWireElement(w wireElement) crdt.Element {
	var elem crdt.Element
	switch w.Kind {
	case "primitive":
		var value interface{}
		switch w.PrimitiveType {
		case crdt.Boolean:
			value = w.Bool
		case crdt.Integer:
			value = w.Int32
		case crdt.Long:
			value = w.Int64
		case crdt.Double:
			value = w.Float64
		case crdt.String:
			value = w.Str
		case crdt.Bytes:
			value = w.Bytes
		}
		elem = crdt.NewPrimitive(value, w.CreatedAt)
	case "counter":
		elem = crdt.NewCounter(w.CounterType, w.CounterValue, w.CreatedAt)
	case "object":
		obj := crdt.NewObject(crdt.NewRHTPQMap(), w.CreatedAt)
		for _, m := range w.Members {
			obj.RestoreMember(m.Key, fromWireElement(m.Value))
		}
		elem = obj
	case "array":
		arr := crdt.NewArray(crdt.NewRGATreeList(), w.CreatedAt)
		for _, e := range w.Elements {
			arr.Add(fromWireElement(e))
		}
		elem = arr
	case "text":
		text := crdt.NewText(crdt.NewRGATreeSplit(crdt.InitialTextNode()), w.CreatedAt)
		if w.Text != "" {
			from, to := text.CreateRange(0, 0)
			text.Edit(from, to, nil, w.Text, nil, w.CreatedAt)
		}
		elem = text
	case "tree":
		elem = crdt.NewTree(fromWireTreeNode(*w.TreeRoot), w.CreatedAt)
	default:
		return nil
	}

	if w.RemovedAt != nil {
		elem.Remove(w.RemovedAt)
	}
	if w.MovedAt != nil {
		elem.SetMovedAt(w.MovedAt)
	}
	return elem
}

// EncodeSnapshot encodes the given root into the opaque snapshot
// payload a ChangePack carries, alongside the Lamport value the
// caller's ChangeID was at when the snapshot was taken.
func EncodeSnapshot(root *crdt.CRDTRoot, lamport int64) ([]byte, error) {
	var buf bytes.Buffer
	w := wireSnapshot{Root: toWireElement(root.Object()), Lamport: lamport}
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot decodes a snapshot payload produced by EncodeSnapshot
// back into a fresh CRDTRoot, plus the Lamport value it was taken at.
func DecodeSnapshot(data []byte) (*crdt.CRDTRoot, int64, error) {
	var w wireSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return nil, 0, fmt.Errorf("decode snapshot: %w", err)
	}

	obj, ok := fromWireElement(w.Root).(*crdt.Object)
	if !ok {
		return nil, 0, fmt.Errorf("decode snapshot: root is not an object")
	}
	return crdt.NewCRDTRoot(obj), w.Lamport, nil
}
