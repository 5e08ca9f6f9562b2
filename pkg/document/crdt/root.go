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
	"fmt"

	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// CRDTRoot is the root registry of a document: every Element created
// anywhere in the nested structure is indexed here by its createdAt, so
// operations can address any element directly without walking the tree,
// and garbage collection can find tombstones without a full traversal.
type CRDTRoot struct {
	rootObject                           *Object
	elementMapByCreatedAt                map[string]Element
	parentMapByCreatedAt                 map[string]Container
	removedElementSetByCreatedAt         map[string]Element
	elementHasRemovedNodesSetByCreatedAt map[string]Element
}

// NewCRDTRoot creates a new instance of CRDTRoot, registering the given
// object and every element already nested inside it.
func NewCRDTRoot(rootObject *Object) *CRDTRoot {
	root := &CRDTRoot{
		rootObject:                           rootObject,
		elementMapByCreatedAt:                make(map[string]Element),
		parentMapByCreatedAt:                 make(map[string]Container),
		removedElementSetByCreatedAt:         make(map[string]Element),
		elementHasRemovedNodesSetByCreatedAt: make(map[string]Element),
	}
	root.RegisterElement(rootObject, nil)
	root.registerSubtree(rootObject)
	return root
}

// Object returns the root object of the document.
func (r *CRDTRoot) Object() *Object {
	return r.rootObject
}

// FindByCreatedAt returns the element of the given creation time.
func (r *CRDTRoot) FindByCreatedAt(createdAt *time.Ticket) Element {
	return r.elementMapByCreatedAt[createdAt.Key()]
}

// RegisterElement registers the given element, along with its parent
// container (nil for the root object itself), so it is addressable by
// createdAt and discoverable for GC bookkeeping.
func (r *CRDTRoot) RegisterElement(elem Element, parent Container) {
	r.elementMapByCreatedAt[elem.CreatedAt().Key()] = elem
	if parent != nil {
		r.parentMapByCreatedAt[elem.CreatedAt().Key()] = parent
	}

	if elem.RemovedAt() != nil {
		r.removedElementSetByCreatedAt[elem.CreatedAt().Key()] = elem
	}

	if textElem, ok := elem.(TextElement); ok && textElem.RemovedNodesLen() > 0 {
		r.elementHasRemovedNodesSetByCreatedAt[elem.CreatedAt().Key()] = elem
	}
}

// registerSubtree walks the nested structure below the given container,
// registering every element it finds, tombstoned or not.
func (r *CRDTRoot) registerSubtree(elem Element) {
	switch cast := elem.(type) {
	case *Object:
		for _, pair := range cast.RHT().AllKeyedNodes() {
			r.RegisterElement(pair.Elem, cast)
			r.registerSubtree(pair.Elem)
		}
	case *Array:
		for _, child := range cast.Elements() {
			r.RegisterElement(child, cast)
			r.registerSubtree(child)
		}
	}
}

// RegisterRemovedElement marks the given element as tombstoned for the
// purpose of GC bookkeeping, called right after an operation removes it.
func (r *CRDTRoot) RegisterRemovedElement(elem Element) {
	r.removedElementSetByCreatedAt[elem.CreatedAt().Key()] = elem
}

// RegisterElementHasRemovedNodes marks a TextElement (Text or Tree) as
// holding internal tombstones, so it is visited the next time GC runs.
func (r *CRDTRoot) RegisterElementHasRemovedNodes(elem TextElement) {
	if elem.RemovedNodesLen() > 0 {
		r.elementHasRemovedNodesSetByCreatedAt[elem.CreatedAt().Key()] = elem
	}
}

// ElementsToBeRemoved returns the set of tombstoned top-level elements
// eligible for garbage collection, without yet checking their ticket
// against the caller's minimum synced ticket.
func (r *CRDTRoot) ElementsToBeRemoved() map[string]Element {
	return r.removedElementSetByCreatedAt
}

// createPath returns a human-readable dotted path to the given element,
// walking up through parentMapByCreatedAt, for error messages.
func (r *CRDTRoot) createPath(elem Element) string {
	path := ""
	current := elem
	for {
		parent, ok := r.parentMapByCreatedAt[current.CreatedAt().Key()]
		if !ok {
			break
		}
		path = "." + current.CreatedAt().Key() + path
		current = parent
	}
	return "$" + path
}

// DeepCopy copies itself deeply, returning a fresh CRDTRoot rooted at an
// independent copy of the object tree.
func (r *CRDTRoot) DeepCopy() *CRDTRoot {
	copied := r.rootObject.DeepCopy().(*Object)
	return NewCRDTRoot(copied)
}

// GarbageCollect purges tombstoned elements whose removal ticket is no
// later than minSyncedTicket, and internal tombstones of Text/Tree
// elements whose removal ticket is strictly before it — i.e. removals
// every replica has already seen, so they are safe to forget. It returns
// the number of elements and nodes purged.
func (r *CRDTRoot) GarbageCollect(minSyncedTicket *time.Ticket) (int, error) {
	count := 0

	for key, elem := range r.removedElementSetByCreatedAt {
		if minSyncedTicket != nil && elem.RemovedAt().After(minSyncedTicket) {
			continue
		}

		parent, ok := r.parentMapByCreatedAt[key]
		if ok {
			if err := parent.Purge(elem); err != nil {
				return count, fmt.Errorf("garbage collect %s: %w", r.createPath(elem), err)
			}
		}

		delete(r.elementMapByCreatedAt, key)
		delete(r.parentMapByCreatedAt, key)
		delete(r.removedElementSetByCreatedAt, key)
		delete(r.elementHasRemovedNodesSetByCreatedAt, key)
		count++
	}

	for key, elem := range r.elementHasRemovedNodesSetByCreatedAt {
		textElem, ok := elem.(TextElement)
		if !ok {
			delete(r.elementHasRemovedNodesSetByCreatedAt, key)
			continue
		}

		purged, err := textElem.PurgeRemovedNodesBefore(minSyncedTicket)
		if err != nil {
			return count, fmt.Errorf("garbage collect %s: %w", r.createPath(elem), err)
		}
		count += purged

		if textElem.RemovedNodesLen() == 0 {
			delete(r.elementHasRemovedNodesSetByCreatedAt, key)
		}
	}

	return count, nil
}
