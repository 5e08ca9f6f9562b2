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

// Style represents an operation applying style attributes to every run
// between From and To in a Text, each attribute resolved by RHT LWW.
type Style struct {
	parentCreatedAt *time.Ticket
	from            *crdt.RGATreeSplitNodePos
	to              *crdt.RGATreeSplitNodePos
	attributes      map[string]string
	executedAt      *time.Ticket
}

// NewStyle creates a new instance of Style.
func NewStyle(
	parentCreatedAt *time.Ticket,
	from, to *crdt.RGATreeSplitNodePos,
	attributes map[string]string,
	executedAt *time.Ticket,
) *Style {
	return &Style{
		parentCreatedAt: parentCreatedAt,
		from:            from,
		to:              to,
		attributes:      attributes,
		executedAt:      executedAt,
	}
}

// Execute applies this operation to the given root.
func (o *Style) Execute(root *crdt.CRDTRoot) (*OpInfo, error) {
	elem, err := targetContainer(root, o.parentCreatedAt)
	if err != nil {
		return nil, err
	}

	text, ok := elem.(*crdt.Text)
	if !ok {
		return nil, fmt.Errorf("%w: not a text", crdt.ErrTypeMismatch)
	}

	text.Style(o.from, o.to, o.attributes, o.executedAt)

	return &OpInfo{Type: "style", ParentCreatedAt: o.parentCreatedAt}, nil
}

// ExecutedAt returns the time this operation was issued.
func (o *Style) ExecutedAt() *time.Ticket {
	return o.executedAt
}

// ParentCreatedAt returns the creation time of the target Text.
func (o *Style) ParentCreatedAt() *time.Ticket {
	return o.parentCreatedAt
}

// From returns the start position of the styled range.
func (o *Style) From() *crdt.RGATreeSplitNodePos {
	return o.from
}

// To returns the end position of the styled range.
func (o *Style) To() *crdt.RGATreeSplitNodePos {
	return o.to
}

// Attributes returns the style attributes this operation applies.
func (o *Style) Attributes() map[string]string {
	return o.attributes
}
