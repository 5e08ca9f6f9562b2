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
	"github.com/yorkie-team/yorkie/pkg/document/operation"
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// Pack is the push/pull wire envelope: a document key, a checkpoint, the
// changes being exchanged, and optionally a full snapshot plus the
// minimum ticket every known peer has synced up to (the GC watermark).
type Pack struct {
	DocumentKey     string
	Checkpoint      Checkpoint
	Changes         []*Change
	Snapshot        []byte
	MinSyncedTicket *time.Ticket
}

// NewPack creates a new instance of Pack.
func NewPack(
	documentKey string,
	checkpoint Checkpoint,
	changes []*Change,
	snapshot []byte,
	minSyncedTicket *time.Ticket,
) *Pack {
	return &Pack{
		DocumentKey:     documentKey,
		Checkpoint:      checkpoint,
		Changes:         changes,
		Snapshot:        snapshot,
		MinSyncedTicket: minSyncedTicket,
	}
}

// HasChanges returns whether this pack carries any change.
func (p *Pack) HasChanges() bool {
	return len(p.Changes) > 0
}

// wirePack, wireChange and wireOp are the gob-encodable shadow of
// Pack/Change/operation.Operation: every field referenced is exported,
// sidestepping gob's refusal to serialize unexported struct fields, and
// every operation is reduced to its kind tag plus kind-specific payload
// per §6.2 rather than round-tripping through the Operation interface.
type wirePack struct {
	DocumentKey     string
	ServerSeq       int64
	ClientSeq       uint32
	Changes         []wireChange
	Snapshot        []byte
	MinSyncedTicket *time.Ticket
}

type wireChange struct {
	ClientSeq      uint32
	Lamport        int64
	Actor          *time.ActorID
	Message        string
	Operations     []wireOp
	HasPresence    bool
	PresenceType   PresenceChangeType
	PresenceValues map[string]string
}

type wireOp struct {
	Kind            string
	ParentCreatedAt *time.Ticket
	ExecutedAt      *time.Ticket

	Key           string
	PrevCreatedAt *time.Ticket
	CreatedAt     *time.Ticket
	Value         wireValue

	From                   *crdt.RGATreeSplitNodePos
	To                     *crdt.RGATreeSplitNodePos
	Content                string
	Attributes             map[string]string
	MaxCreatedAtMapByActor map[string]*time.Ticket

	TreeFrom     *crdt.TreePos
	TreeTo       *crdt.TreePos
	TreeContents []wireTreeNode
}

// wireValue carries the subset of crdt.Element kinds that Set/Add
// operations may introduce: Primitive (any scalar) and Counter. Object,
// Array, Text and Tree values are created empty by their operation and
// populated by subsequent operations against their own createdAt, the
// same way the proxies build them locally, so they need no payload here
// beyond their kind tag and createdAt.
type wireValue struct {
	Kind      string
	CreatedAt *time.Ticket

	PrimitiveType crdt.ValueType
	Bool          bool
	Int32         int32
	Int64         int64
	Float64       float64
	Str           string
	Bytes         []byte

	CounterType  crdt.CounterType
	CounterValue int64
}

type wireTreeNode struct {
	CreatedAt *time.Ticket
	Offset    int
	NodeType  string
	Value     string
	RemovedAt *time.Ticket
	Children  []wireTreeNode
}

func toWireTreeNodes(nodes []*crdt.TreeNode) []wireTreeNode {
	var out []wireTreeNode
	for _, n := range nodes {
		out = append(out, toWireTreeNode(n))
	}
	return out
}

func toWireTreeNode(n *crdt.TreeNode) wireTreeNode {
	w := wireTreeNode{
		CreatedAt: n.ID().CreatedAt(),
		Offset:    n.ID().Offset(),
		NodeType:  n.Type(),
		Value:     n.Value(),
		RemovedAt: n.RemovedAt(),
	}
	for _, c := range n.AllChildren() {
		w.Children = append(w.Children, toWireTreeNode(c))
	}
	return w
}

func fromWireTreeNodes(nodes []wireTreeNode) []*crdt.TreeNode {
	var out []*crdt.TreeNode
	for _, w := range nodes {
		out = append(out, fromWireTreeNode(w))
	}
	return out
}

func fromWireTreeNode(w wireTreeNode) *crdt.TreeNode {
	n := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(w.CreatedAt, w.Offset), w.NodeType, w.Value)
	for _, c := range w.Children {
		n.AppendChild(fromWireTreeNode(c))
	}
	if w.RemovedAt != nil {
		n.SetRemovedAt(w.RemovedAt)
	}
	return n
}

func toWirePack(p *Pack) wirePack {
	w := wirePack{
		DocumentKey:     p.DocumentKey,
		ServerSeq:       p.Checkpoint.ServerSeq(),
		ClientSeq:       p.Checkpoint.ClientSeq(),
		Snapshot:        p.Snapshot,
		MinSyncedTicket: p.MinSyncedTicket,
	}
	for _, c := range p.Changes {
		w.Changes = append(w.Changes, toWireChange(c))
	}
	return w
}

func toWireChange(c *Change) wireChange {
	wc := wireChange{
		ClientSeq: c.id.clientSeq,
		Lamport:   c.id.lamport,
		Actor:     c.id.actor,
		Message:   c.message,
	}
	for _, op := range c.operations {
		wc.Operations = append(wc.Operations, toWireOp(op))
	}
	if c.presenceChange != nil {
		wc.HasPresence = true
		wc.PresenceType = c.presenceChange.ChangeType
		wc.PresenceValues = c.presenceChange.Presence
	}
	return wc
}

func toWireOp(op operation.Operation) wireOp {
	switch o := op.(type) {
	case *operation.Set:
		return wireOp{
			Kind: "set", ParentCreatedAt: o.ParentCreatedAt(), ExecutedAt: o.ExecutedAt(),
			Key: o.Key(), Value: toWireValue(o.Value()),
		}
	case *operation.Add:
		return wireOp{
			Kind: "add", ParentCreatedAt: o.ParentCreatedAt(), ExecutedAt: o.ExecutedAt(),
			PrevCreatedAt: o.PrevCreatedAt(), Value: toWireValue(o.Value()),
		}
	case *operation.Move:
		return wireOp{
			Kind: "move", ParentCreatedAt: o.ParentCreatedAt(), ExecutedAt: o.ExecutedAt(),
			PrevCreatedAt: o.PrevCreatedAt(), CreatedAt: o.CreatedAt(),
		}
	case *operation.Remove:
		return wireOp{
			Kind: "remove", ParentCreatedAt: o.ParentCreatedAt(), ExecutedAt: o.ExecutedAt(),
			CreatedAt: o.CreatedAt(),
		}
	case *operation.Edit:
		return wireOp{
			Kind: "edit", ParentCreatedAt: o.ParentCreatedAt(), ExecutedAt: o.ExecutedAt(),
			From: o.From(), To: o.To(), Content: o.Content(), Attributes: o.Attributes(),
			MaxCreatedAtMapByActor: o.MaxCreatedAtMapByActor(),
		}
	case *operation.Style:
		return wireOp{
			Kind: "style", ParentCreatedAt: o.ParentCreatedAt(), ExecutedAt: o.ExecutedAt(),
			From: o.From(), To: o.To(), Attributes: o.Attributes(),
		}
	case *operation.Increase:
		return wireOp{
			Kind: "increase", ParentCreatedAt: o.ParentCreatedAt(), ExecutedAt: o.ExecutedAt(),
			Value: toWireValue(o.Value()),
		}
	case *operation.TreeEdit:
		return wireOp{
			Kind: "tree-edit", ParentCreatedAt: o.ParentCreatedAt(), ExecutedAt: o.ExecutedAt(),
			TreeFrom: o.From(), TreeTo: o.To(), TreeContents: toWireTreeNodes(o.Contents()),
		}
	}
	return wireOp{Kind: "unknown"}
}

func toWireValue(elem crdt.Element) wireValue {
	switch v := elem.(type) {
	case *crdt.Primitive:
		wv := wireValue{Kind: "primitive", CreatedAt: v.CreatedAt(), PrimitiveType: v.ValueType()}
		switch v.ValueType() {
		case crdt.Boolean:
			wv.Bool = v.Value().(bool)
		case crdt.Integer:
			wv.Int32 = v.Value().(int32)
		case crdt.Long:
			wv.Int64 = v.Value().(int64)
		case crdt.Double:
			wv.Float64 = v.Value().(float64)
		case crdt.String:
			wv.Str = v.Value().(string)
		case crdt.Bytes:
			wv.Bytes = v.Value().([]byte)
		}
		return wv
	case *crdt.Counter:
		return wireValue{
			Kind: "counter", CreatedAt: v.CreatedAt(),
			CounterType: v.ValueType(), CounterValue: v.Value(),
		}
	case *crdt.Object:
		return wireValue{Kind: "object", CreatedAt: v.CreatedAt()}
	case *crdt.Array:
		return wireValue{Kind: "array", CreatedAt: v.CreatedAt()}
	case *crdt.Text:
		return wireValue{Kind: "text", CreatedAt: v.CreatedAt()}
	case *crdt.Tree:
		return wireValue{Kind: "tree", CreatedAt: v.CreatedAt()}
	}
	return wireValue{Kind: "unknown"}
}

func fromWirePack(w wirePack) *Pack {
	p := &Pack{
		DocumentKey:     w.DocumentKey,
		Checkpoint:      NewCheckpoint(w.ServerSeq, w.ClientSeq),
		Snapshot:        w.Snapshot,
		MinSyncedTicket: w.MinSyncedTicket,
	}
	for _, wc := range w.Changes {
		p.Changes = append(p.Changes, fromWireChange(wc))
	}
	return p
}

func fromWireChange(wc wireChange) *Change {
	id := NewID(wc.ClientSeq, wc.Lamport, wc.Actor)

	var ops []operation.Operation
	for _, wo := range wc.Operations {
		op := fromWireOp(wo)
		if op != nil {
			ops = append(ops, op)
		}
	}

	var presence *PresenceChange
	if wc.HasPresence {
		presence = &PresenceChange{ChangeType: wc.PresenceType, Presence: wc.PresenceValues}
	}

	return New(id, wc.Message, ops, presence)
}

func fromWireOp(wo wireOp) operation.Operation {
	switch wo.Kind {
	case "set":
		return operation.NewSet(wo.ParentCreatedAt, wo.Key, fromWireValue(wo.Value), wo.ExecutedAt)
	case "add":
		return operation.NewAdd(wo.ParentCreatedAt, wo.PrevCreatedAt, fromWireValue(wo.Value), wo.ExecutedAt)
	case "move":
		return operation.NewMove(wo.ParentCreatedAt, wo.PrevCreatedAt, wo.CreatedAt, wo.ExecutedAt)
	case "remove":
		return operation.NewRemove(wo.ParentCreatedAt, wo.CreatedAt, wo.ExecutedAt)
	case "edit":
		return operation.NewEdit(wo.ParentCreatedAt, wo.From, wo.To, wo.MaxCreatedAtMapByActor, wo.Content, wo.Attributes, wo.ExecutedAt)
	case "style":
		return operation.NewStyle(wo.ParentCreatedAt, wo.From, wo.To, wo.Attributes, wo.ExecutedAt)
	case "increase":
		return operation.NewIncrease(wo.ParentCreatedAt, fromWireValue(wo.Value).(*crdt.Primitive), wo.ExecutedAt)
	case "tree-edit":
		return operation.NewTreeEdit(wo.ParentCreatedAt, wo.TreeFrom, wo.TreeTo, fromWireTreeNodes(wo.TreeContents), wo.ExecutedAt)
	}
	return nil
}

func fromWireValue(wv wireValue) crdt.Element {
	switch wv.Kind {
	case "primitive":
		var value interface{}
		switch wv.PrimitiveType {
		case crdt.Boolean:
			value = wv.Bool
		case crdt.Integer:
			value = wv.Int32
		case crdt.Long:
			value = wv.Int64
		case crdt.Double:
			value = wv.Float64
		case crdt.String:
			value = wv.Str
		case crdt.Bytes:
			value = wv.Bytes
		}
		return crdt.NewPrimitive(value, wv.CreatedAt)
	case "counter":
		return crdt.NewCounter(wv.CounterType, wv.CounterValue, wv.CreatedAt)
	case "object":
		return crdt.NewObject(crdt.NewRHTPQMap(), wv.CreatedAt)
	case "array":
		return crdt.NewArray(crdt.NewRGATreeList(), wv.CreatedAt)
	case "text":
		return crdt.NewText(crdt.NewRGATreeSplit(crdt.InitialTextNode()), wv.CreatedAt)
	case "tree":
		root := crdt.NewTreeNode(crdt.NewCRDTTreeNodeID(wv.CreatedAt, 0), crdt.TreeNodeType, "")
		return crdt.NewTree(root, wv.CreatedAt)
	}
	return nil
}

// EncodePack encodes the given Pack into the chosen wire representation
// (gob over an exported shadow of the pack/change/operation structs),
// satisfying decode(encode(pack)) == pack.
func EncodePack(pack *Pack) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(toWirePack(pack)); err != nil {
		return nil, fmt.Errorf("encode pack: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePack decodes a byte slice produced by EncodePack back into a
// Pack.
func DecodePack(data []byte) (*Pack, error) {
	var w wirePack
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return nil, fmt.Errorf("decode pack: %w", err)
	}
	return fromWirePack(w), nil
}

// EncodeChange encodes a single Change the same way EncodePack encodes
// every Change nested in a Pack, for collaborators (the mongo change
// history store) that persist one Change per row instead of a whole
// Pack at a time.
func EncodeChange(c *Change) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(toWireChange(c)); err != nil {
		return nil, fmt.Errorf("encode change: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeChange decodes a byte slice produced by EncodeChange back into
// a Change.
func DecodeChange(data []byte) (*Change, error) {
	var w wireChange
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return nil, fmt.Errorf("decode change: %w", err)
	}
	return fromWireChange(w), nil
}
