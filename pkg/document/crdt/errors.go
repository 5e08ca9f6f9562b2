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

import "errors"

var (
	// ErrStructureNotFound is returned when a referenced node or element
	// identifier is unknown, meaning its causal predecessor was never
	// delivered. Callers are expected to treat this as "buffer and
	// retry"; the core itself does not buffer.
	ErrStructureNotFound = errors.New("fail to find the structure of the given id")

	// ErrTypeMismatch is returned when an operation targets an element
	// of the wrong kind.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrOutOfRange is returned when a caller-supplied index does not
	// map to any node.
	ErrOutOfRange = errors.New("index is out of range")
)
