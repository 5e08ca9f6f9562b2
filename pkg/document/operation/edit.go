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

package operation

import (
	"fmt"

	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// Edit represents an operation editing a range of a Text, deleting the
// run between From and To and optionally inserting Content in its
// place, gated by MaxCreatedAtMapByActor for remote concurrency.
type Edit struct {
	parentCreatedAt        *time.Ticket
	from                   *crdt.RGATreeSplitNodePos
	to                     *crdt.RGATreeSplitNodePos
	maxCreatedAtMapByActor map[string]*time.Ticket
	content                string
	attributes             map[string]string
	executedAt             *time.Ticket
}

// NewEdit creates a new instance of Edit.
func NewEdit(
	parentCreatedAt *time.Ticket,
	from, to *crdt.RGATreeSplitNodePos,
	maxCreatedAtMapByActor map[string]*time.Ticket,
	content string,
	attributes map[string]string,
	executedAt *time.Ticket,
) *Edit {
	return &Edit{
		parentCreatedAt:        parentCreatedAt,
		from:                   from,
		to:                     to,
		maxCreatedAtMapByActor: maxCreatedAtMapByActor,
		content:                content,
		attributes:             attributes,
		executedAt:             executedAt,
	}
}

// Execute applies this operation to the given root.
func (o *Edit) Execute(root *crdt.CRDTRoot) (*OpInfo, error) {
	elem, err := targetContainer(root, o.parentCreatedAt)
	if err != nil {
		return nil, err
	}

	text, ok := elem.(*crdt.Text)
	if !ok {
		return nil, fmt.Errorf("%w: not a text", crdt.ErrTypeMismatch)
	}

	_, _, _ = text.Edit(o.from, o.to, o.maxCreatedAtMapByActor, o.content, o.attributes, o.executedAt)
	root.RegisterElementHasRemovedNodes(text)

	return &OpInfo{Type: "edit", ParentCreatedAt: o.parentCreatedAt}, nil
}

// ExecutedAt returns the time this operation was issued.
func (o *Edit) ExecutedAt() *time.Ticket {
	return o.executedAt
}

// ParentCreatedAt returns the creation time of the target Text.
func (o *Edit) ParentCreatedAt() *time.Ticket {
	return o.parentCreatedAt
}

// MaxCreatedAtMapByActor returns the per-actor gating map this
// operation carries, recorded after execution for propagation back to
// peers (spec §4.1 step 4).
func (o *Edit) MaxCreatedAtMapByActor() map[string]*time.Ticket {
	return o.maxCreatedAtMapByActor
}

// From returns the start position of the edited range.
func (o *Edit) From() *crdt.RGATreeSplitNodePos {
	return o.from
}

// To returns the end position of the edited range.
func (o *Edit) To() *crdt.RGATreeSplitNodePos {
	return o.to
}

// Content returns the content inserted in place of the edited range.
func (o *Edit) Content() string {
	return o.content
}

// Attributes returns the style attributes applied to inserted content.
func (o *Edit) Attributes() map[string]string {
	return o.attributes
}
