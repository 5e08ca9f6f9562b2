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
)

// ToJSON wraps the root Object of a CRDTRoot with its proxy for use
// inside an update closure.
func ToJSON(ctx *change.Context, root *crdt.Object) *Object {
	return NewObject(ctx, root)
}

// toOriginal strips the proxy wrapper off elem, returning the bare CRDT
// element it wraps. Non-proxy elements (bare Primitives) pass through
// unchanged. Used whenever a value obtained via a proxy accessor must
// be stored or compared independently of the update closure that
// produced it.
func toOriginal(elem crdt.Element) crdt.Element {
	switch elem := elem.(type) {
	case *Object:
		return elem.Object
	case *Array:
		return elem.Array
	case *Text:
		return elem.Text
	case *Counter:
		return elem.Counter
	case *Tree:
		return elem.Tree
	default:
		return elem
	}
}
