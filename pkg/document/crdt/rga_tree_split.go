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
	"strings"

	"github.com/yorkie-team/yorkie/pkg/document/time"
	"github.com/yorkie-team/yorkie/pkg/llrb"
	"github.com/yorkie-team/yorkie/pkg/log"
	"github.com/yorkie-team/yorkie/pkg/splay"
)

var initialNodeID = NewRGATreeSplitNodeID(time.InitialTicket, 0)

// RGATreeSplitNodeID is the identifier of a split node. Splitting a node
// produces a new node sharing the same createdAt but a higher offset
// within the originally inserted run.
type RGATreeSplitNodeID struct {
	createdAt *time.Ticket
	offset    int
}

// NewRGATreeSplitNodeID creates a new instance of RGATreeSplitNodeID.
func NewRGATreeSplitNodeID(createdAt *time.Ticket, offset int) *RGATreeSplitNodeID {
	return &RGATreeSplitNodeID{createdAt: createdAt, offset: offset}
}

// Compare implements llrb.Key.
func (id *RGATreeSplitNodeID) Compare(other llrb.Key) int {
	o := other.(*RGATreeSplitNodeID)
	compare := id.createdAt.Compare(o.createdAt)
	if compare != 0 {
		return compare
	}

	if id.offset < o.offset {
		return -1
	} else if id.offset > o.offset {
		return 1
	}
	return 0
}

// Equal returns whether the given id equals to this id or not.
func (id *RGATreeSplitNodeID) Equal(other *RGATreeSplitNodeID) bool {
	return id.Compare(other) == 0
}

// CreatedAt returns the creation time of this id.
func (id *RGATreeSplitNodeID) CreatedAt() *time.Ticket {
	return id.createdAt
}

// Offset returns the offset of this id.
func (id *RGATreeSplitNodeID) Offset() int {
	return id.offset
}

// AnnotatedString returns a string containing the metadata of this id for
// debugging purpose.
func (id *RGATreeSplitNodeID) AnnotatedString() string {
	return fmt.Sprintf("%s:%d", id.createdAt.AnnotatedString(), id.offset)
}

func (id *RGATreeSplitNodeID) hasSameCreatedAt(other *RGATreeSplitNodeID) bool {
	return id.createdAt.Compare(other.createdAt) == 0
}

func (id *RGATreeSplitNodeID) split(offset int) *RGATreeSplitNodeID {
	return NewRGATreeSplitNodeID(id.createdAt, id.offset+offset)
}

// RGATreeSplitNodePos is a position of a node in the RGATreeSplit: a node
// id paired with an offset relative to that node's start.
type RGATreeSplitNodePos struct {
	id             *RGATreeSplitNodeID
	relativeOffset int
}

// NewRGATreeSplitNodePos creates a new instance of RGATreeSplitNodePos.
func NewRGATreeSplitNodePos(id *RGATreeSplitNodeID, offset int) *RGATreeSplitNodePos {
	return &RGATreeSplitNodePos{id, offset}
}

// ID returns the node id.
func (pos *RGATreeSplitNodePos) ID() *RGATreeSplitNodeID {
	return pos.id
}

// RelativeOffset returns the relative offset of this position.
func (pos *RGATreeSplitNodePos) RelativeOffset() int {
	return pos.relativeOffset
}

func (pos *RGATreeSplitNodePos) getAbsoluteID() *RGATreeSplitNodeID {
	return NewRGATreeSplitNodeID(pos.id.createdAt, pos.id.offset+pos.relativeOffset)
}

// AnnotatedString returns a string containing the metadata of the
// position for debugging purpose.
func (pos *RGATreeSplitNodePos) AnnotatedString() string {
	return fmt.Sprintf("%s:%d", pos.id.AnnotatedString(), pos.relativeOffset)
}

// RGATreeSplitValue is the value a split node stores: TextValue for Text.
// It must support Length (in UTF-16 code units per the open question §9b)
// and splitting itself at an offset.
type RGATreeSplitValue interface {
	Length() int
	Split(offset int) RGATreeSplitValue
	DeepCopy() RGATreeSplitValue
	String() string
}

// RGATreeSplitNode is a node of RGATreeSplit.
type RGATreeSplitNode struct {
	id        *RGATreeSplitNodeID
	indexNode *splay.Node
	value     RGATreeSplitValue
	removedAt *time.Ticket

	prev    *RGATreeSplitNode
	next    *RGATreeSplitNode
	insPrev *RGATreeSplitNode
	insNext *RGATreeSplitNode
}

// NewRGATreeSplitNode creates a new instance of RGATreeSplitNode.
func NewRGATreeSplitNode(id *RGATreeSplitNodeID, value RGATreeSplitValue) *RGATreeSplitNode {
	node := &RGATreeSplitNode{id: id, value: value}
	node.indexNode = splay.NewNode(node)
	return node
}

// ID returns the id of this node.
func (n *RGATreeSplitNode) ID() *RGATreeSplitNodeID {
	return n.id
}

// Value returns the value of this node.
func (n *RGATreeSplitNode) Value() RGATreeSplitValue {
	return n.value
}

// InsPrevID returns the ID of the insPrev node, nil if there is none.
func (n *RGATreeSplitNode) InsPrevID() *RGATreeSplitNodeID {
	if n.insPrev == nil {
		return nil
	}
	return n.insPrev.id
}

func (n *RGATreeSplitNode) contentLen() int {
	return n.value.Length()
}

// Len returns the visible length of this node, 0 if tombstoned. It
// satisfies splay.Value.
func (n *RGATreeSplitNode) Len() int {
	if n.removedAt != nil {
		return 0
	}
	return n.contentLen()
}

// String returns the string representation of this node's value.
func (n *RGATreeSplitNode) String() string {
	return n.value.String()
}

// RemovedAt returns the removal time of this node.
func (n *RGATreeSplitNode) RemovedAt() *time.Ticket {
	return n.removedAt
}

// DeepCopy returns a new instance of this node without structural links.
func (n *RGATreeSplitNode) DeepCopy() *RGATreeSplitNode {
	node := &RGATreeSplitNode{
		id:        n.id,
		value:     n.value.DeepCopy(),
		removedAt: n.removedAt,
	}
	node.indexNode = splay.NewNode(node)
	return node
}

// SetInsPrev sets the insertion-order previous node of this node.
func (n *RGATreeSplitNode) SetInsPrev(node *RGATreeSplitNode) {
	n.insPrev = node
	node.insNext = n
}

func (n *RGATreeSplitNode) setPrev(node *RGATreeSplitNode) {
	n.prev = node
	node.next = n
}

func (n *RGATreeSplitNode) split(offset int) *RGATreeSplitNode {
	return NewRGATreeSplitNode(n.id.split(offset), n.value.Split(offset))
}

func (n *RGATreeSplitNode) createdAt() *time.Ticket {
	return n.id.createdAt
}

// annotatedString returns a string containing the metadata of the node
// for debugging purpose.
func (n *RGATreeSplitNode) annotatedString() string {
	return fmt.Sprintf("%s %s", n.id.AnnotatedString(), n.value.String())
}

// canDelete reports whether this node may be tombstoned by an edit whose
// latest-observed createdAt for this node's actor is maxCreatedAt: the
// concurrency gate of §4.1's edit algorithm. A remote deletion only
// removes nodes the deleter could have observed.
func (n *RGATreeSplitNode) canDelete(editedAt, maxCreatedAt *time.Ticket) bool {
	return !n.createdAt().After(maxCreatedAt) &&
		(n.removedAt == nil || editedAt.After(n.removedAt))
}

func (n *RGATreeSplitNode) remove(removedAt *time.Ticket) {
	n.removedAt = removedAt
}

// RGATreeSplit is a splittable RGA: the sequence CRDT that backs Text. It
// keeps nodes in a doubly linked list in visible order, a parallel
// insertion-order chain (insPrev/insNext) used to resolve concurrent
// inserts at the same origin, and a splay tree mapping integer visible
// offsets to nodes.
type RGATreeSplit struct {
	initialHead *RGATreeSplitNode
	treeByIndex *splay.Tree
	treeByID    *llrb.Tree
}

// NewRGATreeSplit creates a new instance of RGATreeSplit seeded with the
// given initial head node (an empty value at the initial ticket).
func NewRGATreeSplit(initialHead *RGATreeSplitNode) *RGATreeSplit {
	treeByIndex := splay.NewTree()
	treeByIndex.Insert(initialHead.indexNode)

	treeByID := llrb.NewTree()
	treeByID.Put(initialHead.ID(), initialHead)

	return &RGATreeSplit{
		initialHead: initialHead,
		treeByIndex: treeByIndex,
		treeByID:    treeByID,
	}
}

// InitialHead returns the initial head node (empty, never tombstoned).
func (s *RGATreeSplit) InitialHead() *RGATreeSplitNode {
	return s.initialHead
}

// FindNode returns the node of the given id.
func (s *RGATreeSplit) FindNode(id *RGATreeSplitNodeID) *RGATreeSplitNode {
	if id == nil {
		return nil
	}
	return s.findFloorNode(id)
}

func (s *RGATreeSplit) findFloorNode(id *RGATreeSplitNodeID) *RGATreeSplitNode {
	key, value := s.treeByID.Floor(id)
	if key == nil {
		return nil
	}

	foundID := key.(*RGATreeSplitNodeID)
	foundValue := value.(*RGATreeSplitNode)

	if !foundID.Equal(id) && !foundID.hasSameCreatedAt(id) {
		return nil
	}

	return foundValue
}

// createRange returns a pair of RGATreeSplitNodePos of the given integer
// offsets.
func (s *RGATreeSplit) createRange(from, to int) (*RGATreeSplitNodePos, *RGATreeSplitNodePos) {
	fromPos := s.findNodePos(from)
	if from == to {
		return fromPos, fromPos
	}
	return fromPos, s.findNodePos(to)
}

func (s *RGATreeSplit) findNodePos(index int) *RGATreeSplitNodePos {
	splayNode, offset := s.treeByIndex.Find(index)
	node := splayNode.Value().(*RGATreeSplitNode)
	return &RGATreeSplitNodePos{id: node.ID(), relativeOffset: offset}
}

// findIndexesFromRange returns the integer offsets for the from/to
// positions of a range, computed before the edit mutates anything.
func (s *RGATreeSplit) findIndexesFromRange(from, to *RGATreeSplitNodePos) (int, int) {
	fromIdx := s.findIdx(from)
	toIdx := s.findIdx(to)
	return fromIdx, toIdx
}

func (s *RGATreeSplit) findIdx(pos *RGATreeSplitNodePos) int {
	absoluteID := pos.getAbsoluteID()
	node := s.findFloorNodePreferToLeft(absoluteID)
	if node == nil {
		return -1
	}

	index := 0
	current := s.initialHead
	for current != node {
		index += current.Len()
		current = current.next
	}

	relative := absoluteID.offset - node.id.offset
	return index + relative
}

func (s *RGATreeSplit) findNodeWithSplit(
	pos *RGATreeSplitNodePos,
	editedAt *time.Ticket,
) (*RGATreeSplitNode, *RGATreeSplitNode) {
	absoluteID := pos.getAbsoluteID()
	node := s.findFloorNodePreferToLeft(absoluteID)

	relativeOffset := absoluteID.offset - node.id.offset

	s.splitNode(node, relativeOffset)

	for node.next != nil && node.next.createdAt().After(editedAt) {
		node = node.next
	}

	return node, node.next
}

func (s *RGATreeSplit) findFloorNodePreferToLeft(id *RGATreeSplitNodeID) *RGATreeSplitNode {
	node := s.findFloorNode(id)
	if node == nil {
		log.Logger.Error(s.AnnotatedString())
		panic("the node of the given id should be found")
	}

	if id.offset > 0 && node.id.offset == id.offset {
		if node.insPrev == nil {
			log.Logger.Error(s.AnnotatedString())
			panic("insPrev should be presence")
		}
		node = node.insPrev
	}

	return node
}

func (s *RGATreeSplit) splitNode(node *RGATreeSplitNode, offset int) *RGATreeSplitNode {
	if offset > node.contentLen() {
		log.Logger.Error(s.AnnotatedString())
		panic("offset should be less than or equal to length")
	}

	if offset == 0 {
		return node
	} else if offset == node.contentLen() {
		return node.next
	}

	splitNode := node.split(offset)
	s.treeByIndex.UpdateSubtree(node.indexNode)
	s.InsertAfter(node, splitNode)

	insNext := node.insNext
	if insNext != nil {
		insNext.SetInsPrev(splitNode)
	}
	splitNode.SetInsPrev(node)

	return splitNode
}

// InsertAfter inserts the given node right after prev, in both the
// visible chain and the index tree.
func (s *RGATreeSplit) InsertAfter(prev *RGATreeSplitNode, node *RGATreeSplitNode) *RGATreeSplitNode {
	next := prev.next
	node.setPrev(prev)
	if next != nil {
		next.setPrev(node)
	}

	s.treeByID.Put(node.id, node)
	s.treeByIndex.InsertAfter(prev.indexNode, node.indexNode)

	return node
}

// ContentChange describes a visible-index-space mutation produced by an
// edit, computed before the edit was applied.
type ContentChange struct {
	From    int
	To      int
	Content string
}

// edit implements §4.1's edit algorithm: split boundaries, tombstone
// nodes gated by latestCreatedAtMapByActor, optionally insert new
// content, and report the caret position plus the per-actor max
// createdAt touched (for propagation back to the peer).
func (s *RGATreeSplit) edit(
	from *RGATreeSplitNodePos,
	to *RGATreeSplitNodePos,
	latestCreatedAtMapByActor map[string]*time.Ticket,
	content RGATreeSplitValue,
	editedAt *time.Ticket,
) (*RGATreeSplitNodePos, map[string]*time.Ticket, *ContentChange) {
	fromIdx, toIdx := s.findIndexesFromRange(from, to)

	// 01. split nodes at from and to.
	_, toRight := s.findNodeWithSplit(to, editedAt)
	fromLeft, fromRight := s.findNodeWithSplit(from, editedAt)

	// 02. delete between from and to, gated per actor.
	nodesToDelete := s.findBetween(fromRight, toRight)
	latestCreatedAtMap := s.deleteNodes(nodesToDelete, latestCreatedAtMapByActor, editedAt)

	var caretID *RGATreeSplitNodeID
	if toRight != nil {
		caretID = toRight.id
	} else {
		caretID = fromLeft.id
	}
	caretPos := NewRGATreeSplitNodePos(caretID, 0)

	var change *ContentChange

	// 03. insert a new node, if requested.
	var contentStr string
	if content != nil {
		contentStr = content.String()
		inserted := s.InsertAfter(fromLeft, NewRGATreeSplitNode(NewRGATreeSplitNodeID(editedAt, 0), content))
		caretPos = NewRGATreeSplitNodePos(inserted.id, inserted.contentLen())
	}

	if fromIdx >= 0 && toIdx >= 0 {
		change = &ContentChange{From: fromIdx, To: toIdx, Content: contentStr}
	}

	return caretPos, latestCreatedAtMap, change
}

func (s *RGATreeSplit) findBetween(from, to *RGATreeSplitNode) []*RGATreeSplitNode {
	current := from
	var nodes []*RGATreeSplitNode
	for current != nil && current != to {
		nodes = append(nodes, current)
		current = current.next
	}
	return nodes
}

func (s *RGATreeSplit) deleteNodes(
	candidates []*RGATreeSplitNode,
	latestCreatedAtMapByActor map[string]*time.Ticket,
	editedAt *time.Ticket,
) map[string]*time.Ticket {
	createdAtMapByActor := make(map[string]*time.Ticket)

	for _, node := range candidates {
		actorIDHex := node.createdAt().ActorIDHex()

		var maxCreatedAt *time.Ticket
		if latestCreatedAtMapByActor == nil {
			maxCreatedAt = time.MaxTicket
		} else if createdAt, ok := latestCreatedAtMapByActor[actorIDHex]; ok {
			maxCreatedAt = createdAt
		} else {
			maxCreatedAt = time.InitialTicket
		}

		if node.canDelete(editedAt, maxCreatedAt) {
			node.remove(editedAt)
			s.treeByIndex.Splay(node.indexNode)

			latest := createdAtMapByActor[actorIDHex]
			createdAt := node.id.createdAt
			if latest == nil || createdAt.After(latest) {
				createdAtMapByActor[actorIDHex] = createdAt
			}
		}
	}

	return createdAtMapByActor
}

// style applies the given mutator to every node between from and to,
// splitting boundaries first. Used by Text.Style.
func (s *RGATreeSplit) style(
	from *RGATreeSplitNodePos,
	to *RGATreeSplitNodePos,
	editedAt *time.Ticket,
	apply func(value RGATreeSplitValue),
) {
	_, toRight := s.findNodeWithSplit(to, editedAt)
	_, fromRight := s.findNodeWithSplit(from, editedAt)

	for _, node := range s.findBetween(fromRight, toRight) {
		apply(node.value)
	}
}

// removedNodesLen returns the number of tombstoned nodes.
func (s *RGATreeSplit) removedNodesLen() int {
	count := 0
	node := s.initialHead
	for node != nil {
		if node.removedAt != nil {
			count++
		}
		node = node.next
	}
	return count
}

// purgeRemovedNodesBefore removes tombstones whose removedAt is strictly
// before the given ticket, unlinking them from every chain and the index
// tree.
func (s *RGATreeSplit) purgeRemovedNodesBefore(ticket *time.Ticket) int {
	count := 0

	node := s.initialHead.next
	for node != nil {
		next := node.next
		if node.removedAt != nil && ticket.After(node.removedAt) {
			s.release(node)
			count++
		}
		node = next
	}

	return count
}

func (s *RGATreeSplit) release(node *RGATreeSplitNode) {
	if node.prev != nil {
		node.prev.next = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	}
	if node.insPrev != nil {
		node.insPrev.insNext = node.insNext
	}
	if node.insNext != nil {
		node.insNext.insPrev = node.insPrev
	}

	s.treeByIndex.Delete(node.indexNode)
	s.treeByID.Put(node.id, nil)

	node.prev, node.next, node.insPrev, node.insNext = nil, nil, nil, nil
}

func (s *RGATreeSplit) marshal() string {
	var values []string

	node := s.initialHead.next
	for node != nil {
		if node.removedAt == nil {
			values = append(values, node.value.String())
		}
		node = node.next
	}

	return strings.Join(values, "")
}

func (s *RGATreeSplit) nodes() []*RGATreeSplitNode {
	var nodes []*RGATreeSplitNode

	node := s.initialHead.next
	for node != nil {
		nodes = append(nodes, node)
		node = node.next
	}

	return nodes
}

// checkWeight returns false when the index tree's total weight disagrees
// with the visible length computed by walking the linked list; used by
// tests to assert index-tree consistency (§8.1).
func (s *RGATreeSplit) checkWeight() bool {
	sum := 0
	node := s.initialHead
	for node != nil {
		sum += node.Len()
		node = node.next
	}
	return sum == s.treeByIndex.Len()
}

// AnnotatedString returns a string containing the metadata of the nodes
// for debugging purpose.
func (s *RGATreeSplit) AnnotatedString() string {
	var result []string

	node := s.initialHead
	for node != nil {
		if node.id.offset > 0 && node.insPrev == nil {
			log.Logger.Warn("insPrev should be presence")
		}

		if node.removedAt != nil {
			result = append(result, fmt.Sprintf("{%s}", node.annotatedString()))
		} else {
			result = append(result, fmt.Sprintf("[%s]", node.annotatedString()))
		}

		node = node.next
	}

	return strings.Join(result, "")
}
