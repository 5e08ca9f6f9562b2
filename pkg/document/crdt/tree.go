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
	"unicode/utf16"

	"github.com/yorkie-team/yorkie/pkg/document/time"
	"github.com/yorkie-team/yorkie/pkg/llrb"
)

// TreeNodeType is the reserved type name of the implicit document root.
const TreeNodeType = "root"

// CRDTTreeNodeID identifies a tree node. Offset is always 0 for element
// nodes; for text leaves it plays the same role as RGATreeSplitNodeID's
// offset, distinguishing the halves produced by a split.
type CRDTTreeNodeID struct {
	createdAt *time.Ticket
	offset    int
}

// NewCRDTTreeNodeID creates a new instance of CRDTTreeNodeID.
func NewCRDTTreeNodeID(createdAt *time.Ticket, offset int) *CRDTTreeNodeID {
	return &CRDTTreeNodeID{createdAt: createdAt, offset: offset}
}

// Compare implements llrb.Key.
func (id *CRDTTreeNodeID) Compare(other llrb.Key) int {
	o := other.(*CRDTTreeNodeID)
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
func (id *CRDTTreeNodeID) Equal(other *CRDTTreeNodeID) bool {
	return id.Compare(other) == 0
}

func (id *CRDTTreeNodeID) hasSameCreatedAt(other *CRDTTreeNodeID) bool {
	return id.createdAt.Compare(other.createdAt) == 0
}

// Key returns the canonical string of this id.
func (id *CRDTTreeNodeID) Key() string {
	return fmt.Sprintf("%s:%d", id.createdAt.Key(), id.offset)
}

// CreatedAt returns the creation ticket of this id.
func (id *CRDTTreeNodeID) CreatedAt() *time.Ticket {
	return id.createdAt
}

// Offset returns the split offset of this id, meaningful only for text
// leaves that have been split.
func (id *CRDTTreeNodeID) Offset() int {
	return id.offset
}

// TreePos is the insertion/deletion site of a tree edit: "inside parent,
// immediately right of leftSibling" (nil leftSibling means "as parent's
// first live child").
type TreePos struct {
	ParentID      *CRDTTreeNodeID
	LeftSiblingID *CRDTTreeNodeID
}

// NewTreePos creates a new instance of TreePos.
func NewTreePos(parentID, leftSiblingID *CRDTTreeNodeID) *TreePos {
	return &TreePos{ParentID: parentID, LeftSiblingID: leftSiblingID}
}

// TreeNode is a node of the Tree CRDT.
type TreeNode struct {
	id        *CRDTTreeNodeID
	nodeType  string
	value     string
	attrs     *RHT
	parent    *TreeNode
	children  []*TreeNode
	removedAt *time.Ticket

	tourStart int
	tourEnd   int
}

// NewTreeNode creates a new element or text TreeNode.
func NewTreeNode(id *CRDTTreeNodeID, nodeType string, value string) *TreeNode {
	return &TreeNode{id: id, nodeType: nodeType, value: value, attrs: NewRHT()}
}

// ID returns the id of this node.
func (n *TreeNode) ID() *CRDTTreeNodeID {
	return n.id
}

// Type returns the type name of this node.
func (n *TreeNode) Type() string {
	return n.nodeType
}

// Value returns the text content of this node (only meaningful for text
// leaves).
func (n *TreeNode) Value() string {
	return n.value
}

// IsText returns whether this node is a text leaf.
func (n *TreeNode) IsText() bool {
	return n.nodeType == "text"
}

// IsRemoved returns whether this node is tombstoned.
func (n *TreeNode) IsRemoved() bool {
	return n.removedAt != nil
}

// RemovedAt returns the removal time of this node.
func (n *TreeNode) RemovedAt() *time.Ticket {
	return n.removedAt
}

// AppendChild appends the given node as this node's last child, used
// when rebuilding a node tree from a flat wire representation.
func (n *TreeNode) AppendChild(child *TreeNode) {
	child.parent = n
	n.children = append(n.children, child)
}

// SetRemovedAt tombstones this node without touching its children, used
// when restoring a node's removal state from a wire representation that
// already recurses into children on its own.
func (n *TreeNode) SetRemovedAt(removedAt *time.Ticket) {
	n.removedAt = removedAt
}

// Children returns the live children of this node in order.
func (n *TreeNode) Children() []*TreeNode {
	var result []*TreeNode
	for _, c := range n.children {
		if !c.IsRemoved() {
			result = append(result, c)
		}
	}
	return result
}

// AllChildren returns every child including tombstones.
func (n *TreeNode) AllChildren() []*TreeNode {
	return n.children
}

// Len returns the number of index slots this node occupies: an element
// contributes 2 (open + close) plus its live children; a text leaf
// contributes its UTF-16 length; a tombstoned node contributes 0.
func (n *TreeNode) Len() int {
	if n.removedAt != nil {
		return 0
	}
	if n.IsText() {
		return len(utf16.Encode([]rune(n.value)))
	}

	size := 0
	if n.nodeType != TreeNodeType {
		size = 2
	}
	for _, c := range n.children {
		size += c.Len()
	}
	return size
}

func (n *TreeNode) remove(removedAt *time.Ticket) {
	if n.removedAt == nil || removedAt.After(n.removedAt) {
		n.removedAt = removedAt
	}
	for _, c := range n.children {
		c.remove(removedAt)
	}
}

func (n *TreeNode) split(id *CRDTTreeNodeID, offset int) *TreeNode {
	encoded := utf16.Encode([]rune(n.value))
	left := string(utf16.Decode(encoded[0:offset]))
	right := string(utf16.Decode(encoded[offset:]))
	n.value = left

	return NewTreeNode(id, "text", right)
}

// Marshal returns the JSON-ish XML-style encoding of this node for
// debugging and Text.String-style rendering.
func (n *TreeNode) marshal(sb *strings.Builder) {
	if n.removedAt != nil {
		return
	}

	if n.IsText() {
		sb.WriteString(n.value)
		return
	}

	if n.nodeType != TreeNodeType {
		sb.WriteString("<")
		sb.WriteString(n.nodeType)
		sb.WriteString(">")
	}
	for _, c := range n.children {
		c.marshal(sb)
	}
	if n.nodeType != TreeNodeType {
		sb.WriteString("</")
		sb.WriteString(n.nodeType)
		sb.WriteString(">")
	}
}

// Tree represents the tree CRDT, a nested structure of element and text
// nodes ordered among siblings by an RGA keyed on id, addressed by
// parent/left-sibling positions.
type Tree struct {
	root        *TreeNode
	nodeMapByID *llrb.Tree
	createdAt   *time.Ticket
	movedAt     *time.Ticket
	removedAt   *time.Ticket
}

// NewTree creates a new instance of Tree rooted at the given node.
func NewTree(root *TreeNode, createdAt *time.Ticket) *Tree {
	t := &Tree{root: root, nodeMapByID: llrb.NewTree(), createdAt: createdAt}
	t.registerSubtree(root)
	return t
}

func (t *Tree) registerSubtree(n *TreeNode) {
	t.nodeMapByID.Put(n.id, n)
	for _, c := range n.children {
		c.parent = n
		t.registerSubtree(c)
	}
}

// Root returns the root node of this tree.
func (t *Tree) Root() *TreeNode {
	return t.root
}

// Len returns the visible size of the whole document.
func (t *Tree) Len() int {
	return t.root.Len()
}

// assignTour stamps every node (live or tombstoned) with a pre-order
// ordinal range [tourStart, tourEnd), used as a removal-independent
// document-order coordinate system when resolving which nodes lie
// between two edit sites.
func (t *Tree) assignTour() {
	counter := 0
	var visit func(n *TreeNode)
	visit = func(n *TreeNode) {
		n.tourStart = counter
		counter++
		for _, c := range n.children {
			visit(c)
		}
		n.tourEnd = counter
	}
	visit(t.root)
}

// findTreePos locates the (parent, leftSibling) pair at the given integer
// visible index, splitting a text leaf if the index falls strictly
// inside one.
func (t *Tree) findTreePos(index int, _ *time.Ticket) (*TreeNode, *TreeNode, error) {
	if index < 0 || index > t.root.Len() {
		return nil, nil, ErrOutOfRange
	}

	return t.findTreePosIn(t.root, index)
}

func (t *Tree) findTreePosIn(node *TreeNode, index int) (*TreeNode, *TreeNode, error) {
	pos := 0
	var prev *TreeNode
	for _, c := range node.children {
		if c.removedAt != nil {
			continue
		}

		if c.IsText() {
			textLen := c.Len()
			if index == pos {
				return node, prev, nil
			}
			if index == pos+textLen {
				return node, c, nil
			}
			if index > pos && index < pos+textLen {
				right := t.splitTextChild(node, c, index-pos)
				return node, right.insPrevRef, nil
			}
			pos += textLen
			prev = c
			continue
		}

		size := c.Len()
		if index == pos {
			return node, prev, nil
		}
		if index == pos+size {
			return node, c, nil
		}
		if index > pos && index < pos+size {
			return t.findTreePosIn(c, index-pos-1)
		}
		pos += size
		prev = c
	}

	return node, prev, nil
}

// splitResult pairs the newly created right-half node with the left
// node it now follows, so findTreePosIn can report the exact split
// boundary as a leftSibling reference.
type splitResult struct {
	*TreeNode
	insPrevRef *TreeNode
}

func (t *Tree) splitTextChild(parent *TreeNode, child *TreeNode, offset int) splitResult {
	newID := NewCRDTTreeNodeID(child.id.createdAt, child.id.offset+offset)
	right := child.split(newID, offset)
	right.parent = parent

	idx := indexOfChild(parent, child)
	parent.children = append(parent.children, nil)
	copy(parent.children[idx+2:], parent.children[idx+1:])
	parent.children[idx+1] = right

	t.nodeMapByID.Put(right.id, right)

	return splitResult{TreeNode: right, insPrevRef: child}
}

func indexOfChild(parent *TreeNode, child *TreeNode) int {
	for i, c := range parent.children {
		if c == child {
			return i
		}
	}
	return -1
}

// ResolveTreePos resolves a TreePos carried by a (possibly remote)
// operation to the live (parent, leftSibling) pair it currently refers
// to, applying the "closest live position" rule: when the recorded
// parent or leftSibling has since been tombstoned, walk left/up to the
// nearest surviving anchor.
func (t *Tree) ResolveTreePos(pos *TreePos) (*TreeNode, *TreeNode, error) {
	parentAny, ok := t.nodeMapByID.Get(pos.ParentID)
	if !ok {
		return nil, nil, ErrStructureNotFound
	}
	parent := parentAny.(*TreeNode)

	var left *TreeNode
	if pos.LeftSiblingID != nil {
		leftAny, ok := t.nodeMapByID.Get(pos.LeftSiblingID)
		if !ok {
			return nil, nil, ErrStructureNotFound
		}
		left = leftAny.(*TreeNode)
	}

	if left != nil && left.IsRemoved() {
		left = nearestLiveLeftSibling(parent, left)
	}

	for parent.IsRemoved() {
		grandParent := parent.parent
		if grandParent == nil {
			break
		}
		left = nearestLiveLeftSibling(grandParent, parent)
		parent = grandParent
	}

	return parent, left, nil
}

// nearestLiveLeftSibling walks left from (but excluding) `from` among
// `parent`'s children, returning the first live sibling found, or nil if
// none exists (meaning "first live child").
func nearestLiveLeftSibling(parent *TreeNode, from *TreeNode) *TreeNode {
	idx := indexOfChild(parent, from)
	for i := idx - 1; i >= 0; i-- {
		if !parent.children[i].IsRemoved() {
			return parent.children[i]
		}
	}
	return nil
}

// ToIndex returns the visible integer index of the position right after
// leftSibling within parent (or the first index inside parent if
// leftSibling is nil).
func (t *Tree) ToIndex(parent *TreeNode, left *TreeNode) int {
	base := t.childStartIndex(parent)
	if left == nil {
		return base
	}

	idx := base
	for _, c := range parent.children {
		idx += c.Len()
		if c == left {
			break
		}
	}
	return idx
}

func (t *Tree) childStartIndex(node *TreeNode) int {
	if node == t.root {
		return 0
	}
	return t.startIndex(node) + 1
}

func (t *Tree) startIndex(node *TreeNode) int {
	start := t.childStartIndex(node.parent)
	for _, sib := range node.parent.children {
		if sib == node {
			break
		}
		start += sib.Len()
	}
	return start
}

// InsertAfter splices newNodes into parent's children right after left
// (nil meaning "as first child"), respecting the RGA tie-break: nodes
// already present with a later positioning ticket stay to the left of a
// newly inserted concurrent sibling.
func (t *Tree) InsertAfter(parent *TreeNode, left *TreeNode, newNodes []*TreeNode, executedAt *time.Ticket) {
	insertIdx := 0
	if left != nil {
		insertIdx = indexOfChild(parent, left) + 1
	}

	for insertIdx < len(parent.children) && parent.children[insertIdx].id.createdAt.After(executedAt) {
		insertIdx++
	}

	for i, n := range newNodes {
		n.parent = parent
		t.registerSubtree(n)
		parent.children = append(parent.children, nil)
		copy(parent.children[insertIdx+i+1:], parent.children[insertIdx+i:])
		parent.children[insertIdx+i] = n
	}
}

// EditByPos tombstones every node strictly between (fromParent,fromLeft)
// and (toParent,toLeft) in document order, merging boundary-crossing
// containers into fromParent, then inserts contents at the from-site.
// This is the execute-time entry point used both right after a local
// Edit call and when replaying a remote TreeEditOperation.
func (t *Tree) EditByPos(
	fromParent, fromLeft *TreeNode,
	toParent, toLeft *TreeNode,
	contents []*TreeNode,
	executedAt *time.Ticket,
) error {
	t.assignTour()

	slotA := fromParent.tourStart + 1
	if fromLeft != nil {
		slotA = fromLeft.tourEnd
	}
	slotB := toParent.tourStart + 1
	if toLeft != nil {
		slotB = toLeft.tourEnd
	}

	if slotA < slotB {
		t.tombstoneBetween(t.root, slotA, slotB, fromParent, executedAt)
	}

	if len(contents) > 0 {
		t.InsertAfter(fromParent, fromLeft, contents, executedAt)
	}

	return nil
}

func (t *Tree) tombstoneBetween(node *TreeNode, slotA, slotB int, fromParent *TreeNode, executedAt *time.Ticket) {
	if node.IsRemoved() {
		return
	}
	if node.tourEnd <= slotA || node.tourStart >= slotB {
		return
	}
	if slotA <= node.tourStart && node.tourEnd <= slotB {
		node.remove(executedAt)
		return
	}

	isToSide := node.tourStart >= slotA && node.tourStart < slotB && node.tourEnd > slotB

	var survivors []*TreeNode
	for _, c := range node.children {
		if isToSide && c.tourStart >= slotB {
			survivors = append(survivors, c)
			continue
		}
		t.tombstoneBetween(c, slotA, slotB, fromParent, executedAt)
	}

	if isToSide && node != fromParent {
		// Tombstone the container itself only: node.remove would cascade
		// onto its current children, including the survivors below, which
		// are about to be spliced live into fromParent.
		if node.removedAt == nil || executedAt.After(node.removedAt) {
			node.removedAt = executedAt
		}
		for _, s := range survivors {
			s.parent = fromParent
			fromParent.children = append(fromParent.children, s)
		}
	}
}

// Edit performs a local edit at the given integer indices, resolving
// them to structural positions (splitting text leaves as needed),
// applying the edit, and returning the resolved TreePos pair so the
// caller can package a TreeEditOperation for propagation.
func (t *Tree) Edit(fromIdx, toIdx int, contents []*TreeNode, executedAt *time.Ticket) (*TreePos, *TreePos, error) {
	toParent, toLeft, err := t.findTreePos(toIdx, executedAt)
	if err != nil {
		return nil, nil, err
	}
	fromParent, fromLeft, err := t.findTreePos(fromIdx, executedAt)
	if err != nil {
		return nil, nil, err
	}

	if err := t.EditByPos(fromParent, fromLeft, toParent, toLeft, contents, executedAt); err != nil {
		return nil, nil, err
	}

	fromPos := NewTreePos(idOf(fromParent), idOrNil(fromLeft))
	toPos := NewTreePos(idOf(toParent), idOrNil(toLeft))
	return fromPos, toPos, nil
}

func idOf(n *TreeNode) *CRDTTreeNodeID {
	if n == nil {
		return nil
	}
	return n.id
}

func idOrNil(n *TreeNode) *CRDTTreeNodeID {
	return idOf(n)
}

// Marshal returns a debug XML-style rendering of this tree.
func (t *Tree) Marshal() string {
	var sb strings.Builder
	t.root.marshal(&sb)
	return fmt.Sprintf("%q", sb.String())
}

// DeepCopy copies itself deeply.
func (t *Tree) DeepCopy() Element {
	root := deepCopyNode(t.root)
	tree := NewTree(root, t.createdAt)
	tree.movedAt = t.movedAt
	tree.removedAt = t.removedAt
	return tree
}

func deepCopyNode(n *TreeNode) *TreeNode {
	copied := NewTreeNode(n.id, n.nodeType, n.value)
	copied.attrs = n.attrs.DeepCopy()
	copied.removedAt = n.removedAt
	for _, c := range n.children {
		child := deepCopyNode(c)
		child.parent = copied
		copied.children = append(copied.children, child)
	}
	return copied
}

// RemovedNodesLen returns the number of tombstoned nodes still held
// internally, so the root can decide whether this tree needs to be
// visited during GC.
func (t *Tree) RemovedNodesLen() int {
	count := 0
	var visit func(n *TreeNode)
	visit = func(n *TreeNode) {
		if n.removedAt != nil {
			count++
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(t.root)
	return count
}

// PurgeRemovedNodesBefore physically unlinks tombstoned nodes whose
// removedAt is before the given ticket, and returns how many nodes were
// purged.
func (t *Tree) PurgeRemovedNodesBefore(ticket *time.Ticket) (int, error) {
	purged := 0
	var visit func(n *TreeNode)
	visit = func(n *TreeNode) {
		var kept []*TreeNode
		for _, c := range n.children {
			if c.removedAt != nil && ticket.Compare(c.removedAt) > 0 {
				purged++
				continue
			}
			visit(c)
			kept = append(kept, c)
		}
		n.children = kept
	}
	visit(t.root)
	return purged, nil
}

// CreatedAt returns the creation time of this Tree.
func (t *Tree) CreatedAt() *time.Ticket {
	return t.createdAt
}

// RemovedAt returns the removal time of this Tree.
func (t *Tree) RemovedAt() *time.Ticket {
	return t.removedAt
}

// MovedAt returns the move time of this Tree.
func (t *Tree) MovedAt() *time.Ticket {
	return t.movedAt
}

// SetMovedAt sets the move time of this Tree.
func (t *Tree) SetMovedAt(movedAt *time.Ticket) {
	t.movedAt = movedAt
}

// Remove removes this Tree.
func (t *Tree) Remove(removedAt *time.Ticket) bool {
	if removedAt != nil && removedAt.After(t.createdAt) &&
		(t.removedAt == nil || removedAt.After(t.removedAt)) {
		t.removedAt = removedAt
		return true
	}
	return false
}
