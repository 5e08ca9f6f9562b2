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

// Counter is the proxy representing a CRDT Counter in an update
// closure.
type Counter struct {
	*crdt.Counter
	context *change.Context
}

// NewCounter creates a new instance of Counter.
func NewCounter(ctx *change.Context, counter *crdt.Counter) *Counter {
	return &Counter{Counter: counter, context: ctx}
}

// Increase adds the given delta to this counter. Delta must be an
// int, int32, int64 or float64.
func (p *Counter) Increase(delta interface{}) *Counter {
	ticket := p.context.IssueTimeTicket()
	value := crdt.NewPrimitive(delta, ticket)

	if _, err := p.Counter.Increase(value); err != nil {
		return p
	}

	p.context.Push(operation.NewIncrease(p.Counter.CreatedAt(), value, ticket))
	return p
}
