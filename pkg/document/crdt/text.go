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

package crdt

import (
	"github.com/yorkie-team/yorkie/pkg/document/time"
	"github.com/yorkie-team/yorkie/pkg/log"
)

// InitialTextNode creates an initial node of Text, which is subsequently
// split as the text is edited.
func InitialTextNode() *RGATreeSplitNode {
	return NewRGATreeSplitNode(initialNodeID, NewTextValue("", NewRHT()))
}

// Text is an extended data type for the contents of a text editor, a
// RGATreeSplit of styled runs.
type Text struct {
	rgaTreeSplit *RGATreeSplit
	createdAt    *time.Ticket
	movedAt      *time.Ticket
	removedAt    *time.Ticket
}

// NewText creates a new instance of Text.
func NewText(elements *RGATreeSplit, createdAt *time.Ticket) *Text {
	return &Text{
		rgaTreeSplit: elements,
		createdAt:    createdAt,
	}
}

// Marshal returns the JSON encoding of this Text.
func (t *Text) Marshal() string {
	sb := "["
	first := true
	for _, node := range t.rgaTreeSplit.nodes() {
		if node.removedAt != nil {
			continue
		}
		if !first {
			sb += ","
		}
		first = false
		sb += node.value.(*TextValue).Marshal()
	}
	sb += "]"
	return sb
}

// String returns the plain string content of this Text, tombstones
// excluded.
func (t *Text) String() string {
	return t.rgaTreeSplit.marshal()
}

// DeepCopy copies itself deeply.
func (t *Text) DeepCopy() Element {
	rgaTreeSplit := NewRGATreeSplit(InitialTextNode())

	current := rgaTreeSplit.InitialHead()
	for _, textNode := range t.rgaTreeSplit.nodes() {
		current = rgaTreeSplit.InsertAfter(current, textNode.DeepCopy())
		insPrevID := textNode.InsPrevID()
		if insPrevID != nil {
			insPrevNode := rgaTreeSplit.FindNode(insPrevID)
			if insPrevNode == nil {
				log.Logger.Warn("insPrevNode should be presence")
			} else {
				current.SetInsPrev(insPrevNode)
			}
		}
	}

	text := NewText(rgaTreeSplit, t.createdAt)
	text.movedAt = t.movedAt
	text.removedAt = t.removedAt
	return text
}

// CreatedAt returns the creation time of this Text.
func (t *Text) CreatedAt() *time.Ticket {
	return t.createdAt
}

// RemovedAt returns the removal time of this Text.
func (t *Text) RemovedAt() *time.Ticket {
	return t.removedAt
}

// MovedAt returns the move time of this Text.
func (t *Text) MovedAt() *time.Ticket {
	return t.movedAt
}

// SetMovedAt sets the move time of this Text.
func (t *Text) SetMovedAt(movedAt *time.Ticket) {
	t.movedAt = movedAt
}

// Remove removes this Text.
func (t *Text) Remove(removedAt *time.Ticket) bool {
	if removedAt != nil && removedAt.After(t.createdAt) &&
		(t.removedAt == nil || removedAt.After(t.removedAt)) {
		t.removedAt = removedAt
		return true
	}
	return false
}

// CreateRange returns a pair of RGATreeSplitNodePos of the given UTF-16
// offsets.
func (t *Text) CreateRange(from, to int) (*RGATreeSplitNodePos, *RGATreeSplitNodePos) {
	return t.rgaTreeSplit.createRange(from, to)
}

// Edit edits the given range with the given content and attributes, and
// returns the caret position, the updated latestCreatedAtMapByActor, and
// the content change in visible-index space computed before the edit.
func (t *Text) Edit(
	from, to *RGATreeSplitNodePos,
	latestCreatedAtMapByActor map[string]*time.Ticket,
	content string,
	attributes map[string]string,
	executedAt *time.Ticket,
) (*RGATreeSplitNodePos, map[string]*time.Ticket, *ContentChange) {
	var value RGATreeSplitValue
	if content != "" {
		attrs := NewRHT()
		for k, v := range attributes {
			attrs.Set(k, v, executedAt)
		}
		value = NewTextValue(content, attrs)
	}

	return t.rgaTreeSplit.edit(from, to, latestCreatedAtMapByActor, value, executedAt)
}

// Style applies the given attributes to every run between from and to.
func (t *Text) Style(
	from, to *RGATreeSplitNodePos,
	attributes map[string]string,
	executedAt *time.Ticket,
) {
	t.rgaTreeSplit.style(from, to, executedAt, func(value RGATreeSplitValue) {
		tv := value.(*TextValue)
		for k, v := range attributes {
			tv.attrs.Set(k, v, executedAt)
		}
	})
}

// Nodes returns the internal nodes of this Text.
func (t *Text) Nodes() []*RGATreeSplitNode {
	return t.rgaTreeSplit.nodes()
}

// CheckWeight returns false when there is an incorrect weight node, for
// debugging and property-test purpose.
func (t *Text) CheckWeight() bool {
	return t.rgaTreeSplit.checkWeight()
}

// RemovedNodesLen returns the number of removed nodes still held
// internally.
func (t *Text) RemovedNodesLen() int {
	return t.rgaTreeSplit.removedNodesLen()
}

// PurgeRemovedNodesBefore purges tombstoned nodes whose removedAt is
// before the given ticket.
func (t *Text) PurgeRemovedNodesBefore(ticket *time.Ticket) (int, error) {
	return t.rgaTreeSplit.purgeRemovedNodesBefore(ticket), nil
}

// AnnotatedString returns a string containing the metadata of the text
// for debugging purpose.
func (t *Text) AnnotatedString() string {
	return t.rgaTreeSplit.AnnotatedString()
}
