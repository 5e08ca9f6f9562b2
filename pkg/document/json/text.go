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

package json

import (
	"github.com/yorkie-team/yorkie/pkg/document/change"
	"github.com/yorkie-team/yorkie/pkg/document/crdt"
	"github.com/yorkie-team/yorkie/pkg/document/operation"
)

// Text is the proxy representing a CRDT Text in an update closure.
type Text struct {
	*crdt.Text
	context *change.Context
}

// NewText creates a new instance of Text.
func NewText(ctx *change.Context, text *crdt.Text) *Text {
	return &Text{Text: text, context: ctx}
}

// Edit replaces the content between the given UTF-16 code-unit indices
// with content, optionally carrying style attributes for the inserted
// run.
func (p *Text) Edit(from, to int, content string, attributes map[string]string) *Text {
	fromPos, toPos := p.Text.CreateRange(from, to)
	ticket := p.context.IssueTimeTicket()

	_, maxCreatedAtMapByActor, _ := p.Text.Edit(fromPos, toPos, nil, content, attributes, ticket)

	p.context.Push(operation.NewEdit(
		p.Text.CreatedAt(), fromPos, toPos, maxCreatedAtMapByActor, content, attributes, ticket,
	))
	p.context.Root().RegisterElementHasRemovedNodes(p.Text)
	return p
}

// Style applies the given style attributes to every run between the
// given UTF-16 code-unit indices.
func (p *Text) Style(from, to int, attributes map[string]string) *Text {
	fromPos, toPos := p.Text.CreateRange(from, to)
	ticket := p.context.IssueTimeTicket()

	p.Text.Style(fromPos, toPos, attributes, ticket)

	p.context.Push(operation.NewStyle(p.Text.CreatedAt(), fromPos, toPos, attributes, ticket))
	return p
}
