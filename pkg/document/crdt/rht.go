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
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yorkie-team/yorkie/pkg/document/time"
)

// ErrRHTNotFound is returned when a key is not present in the RHT.
var ErrRHTNotFound = errors.New("fail to find the key")

// rhtNode is a node of RHT.
type rhtNode struct {
	key       string
	value     string
	updatedAt *time.Ticket
}

func newRHTNode(key, value string, updatedAt *time.Ticket) *rhtNode {
	return &rhtNode{key: key, value: value, updatedAt: updatedAt}
}

// RHT is a hashtable with logical clock, used to store the key-value pairs
// of an object or the style attributes of a text run. It is a
// last-writer-wins register per key: set only overwrites the stored entry
// if the new updatedAt is strictly after the stored one.
type RHT struct {
	nodeMapByKey   map[string]*rhtNode
	insertionOrder []string
}

// NewRHT creates a new instance of RHT.
func NewRHT() *RHT {
	return &RHT{
		nodeMapByKey: make(map[string]*rhtNode),
	}
}

// Get returns the value of the given key.
func (rht *RHT) Get(key string) (string, error) {
	node, ok := rht.nodeMapByKey[key]
	if !ok {
		return "", ErrRHTNotFound
	}
	return node.value, nil
}

// Has returns whether the element exists for the given key or not.
func (rht *RHT) Has(key string) bool {
	node, ok := rht.nodeMapByKey[key]
	return ok && node.value != ""
}

// Set sets the value of the given key if the given time is after the
// stored time. It returns whether the value was actually set.
func (rht *RHT) Set(key, value string, executedAt *time.Ticket) bool {
	node, ok := rht.nodeMapByKey[key]
	if ok && executedAt.Compare(node.updatedAt) <= 0 {
		return false
	}

	if !ok {
		rht.insertionOrder = append(rht.insertionOrder, key)
	}
	rht.nodeMapByKey[key] = newRHTNode(key, value, executedAt)
	return true
}

// Remove removes the Element of the given key, recorded as an empty-value
// tombstone so the removal itself still participates in LWW.
func (rht *RHT) Remove(key string, executedAt *time.Ticket) bool {
	return rht.Set(key, "", executedAt)
}

// Elements returns a map of elements because the sequence of the map does
// not matter.
func (rht *RHT) Elements() map[string]string {
	elements := make(map[string]string)
	for key, node := range rht.nodeMapByKey {
		if node.value != "" {
			elements[key] = node.value
		}
	}
	return elements
}

// Members returns the live keys in the order they were first written.
// Marshal does not use this order.
func (rht *RHT) Members() []string {
	var keys []string
	for _, key := range rht.insertionOrder {
		if node, ok := rht.nodeMapByKey[key]; ok && node.value != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// DeepCopy copies itself deeply. Because the LWW rule makes Set
// order-independent, replaying sets in any order (here, insertion order)
// reconstructs the same winning state.
func (rht *RHT) DeepCopy() *RHT {
	copied := NewRHT()
	for _, key := range rht.insertionOrder {
		node := rht.nodeMapByKey[key]
		copied.insertionOrder = append(copied.insertionOrder, key)
		copied.nodeMapByKey[key] = newRHTNode(node.key, node.value, node.updatedAt)
	}
	return copied
}

// Marshal returns the JSON encoding of this RHT, used for style attribute
// serialization. Keys are sorted lexicographically; the first-write
// order returned by Members is not kept.
func (rht *RHT) Marshal() string {
	members := rht.sortedKeys()

	sb := strings.Builder{}
	sb.WriteString("{")
	for i, k := range members {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(fmt.Sprintf("%q:%q", k, rht.nodeMapByKey[k].value))
	}
	sb.WriteString("}")
	return sb.String()
}

func (rht *RHT) sortedKeys() []string {
	var keys []string
	for key, node := range rht.nodeMapByKey {
		if node.value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// StructureAsString returns a String containing the metadata of the RHT
// for debugging purpose.
func (rht *RHT) StructureAsString() string {
	return rht.Marshal()
}
