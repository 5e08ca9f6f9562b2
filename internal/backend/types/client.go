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

// Package types holds the persistence-facing records the sync backend
// reads and writes through internal/backend/mongo: client sessions,
// attached documents and their checkpoints, and stored change rows. The
// document core itself never imports this package — these are the
// externally-persisted counterparts of state the core already tracks
// in memory (§1's "persistence is a surface layer").
package types

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yorkie-team/yorkie/pkg/document/change"
)

// ErrDocumentNotAttached is returned when an operation requires a
// document to be attached to the client but it isn't.
var ErrDocumentNotAttached = errors.New("document is not attached")

// ClientStatus represents the activation status of a Client.
type ClientStatus int

const (
	// ClientDeactivated means the client is not activated.
	ClientDeactivated ClientStatus = iota
	// ClientActivated means the client is activated.
	ClientActivated
)

// ClientDocInfo is the per-document bookkeeping a Client keeps: whether
// the document is currently attached, and the checkpoint it last
// synced to.
type ClientDocInfo struct {
	Status     DocumentAttachStatus
	ServerSeq  int64
	ClientSeq  uint32
}

// DocumentAttachStatus represents whether a document is attached to a
// particular client.
type DocumentAttachStatus int

const (
	// DocumentDetached means the client does not have the document.
	DocumentDetached DocumentAttachStatus = iota
	// DocumentAttached means the client has the document and is
	// editing it.
	DocumentAttached
)

// ClientInfo is a persisted record of a client session: which documents
// it has attached, and the checkpoint reached for each.
type ClientInfo struct {
	ID        primitive.ObjectID       `bson:"_id,omitempty"`
	Key       string                   `bson:"key"`
	Status    ClientStatus             `bson:"status"`
	Documents map[string]*ClientDocInfo `bson:"documents"`
	CreatedAt time.Time                `bson:"created_at"`
	UpdatedAt time.Time                `bson:"updated_at"`
}

// AttachDocument marks the given document as attached to this client at
// the given checkpoint.
func (info *ClientInfo) AttachDocument(docID primitive.ObjectID, cp change.Checkpoint) error {
	if info.Documents == nil {
		info.Documents = make(map[string]*ClientDocInfo)
	}
	info.Documents[docID.Hex()] = &ClientDocInfo{
		Status:    DocumentAttached,
		ServerSeq: cp.ServerSeq(),
		ClientSeq: cp.ClientSeq(),
	}
	return nil
}

// DetachDocument marks the given document as detached from this
// client, retaining the checkpoint it last reached.
func (info *ClientInfo) DetachDocument(docID string) error {
	doc, ok := info.Documents[docID]
	if !ok {
		return ErrDocumentNotAttached
	}
	doc.Status = DocumentDetached
	return nil
}

// CheckDocumentAttached returns an error if the given document is not
// currently attached to this client.
func (info *ClientInfo) CheckDocumentAttached(docID string) error {
	doc, ok := info.Documents[docID]
	if !ok || doc.Status != DocumentAttached {
		return ErrDocumentNotAttached
	}
	return nil
}

// Checkpoint returns the checkpoint this client last reached for the
// given document.
func (info *ClientInfo) Checkpoint(docID primitive.ObjectID) change.Checkpoint {
	doc, ok := info.Documents[docID.Hex()]
	if !ok {
		return change.InitialCheckpoint
	}
	return change.NewCheckpoint(doc.ServerSeq, doc.ClientSeq)
}

// UpdateCheckpoint records a new checkpoint reached for the given
// document.
func (info *ClientInfo) UpdateCheckpoint(docID primitive.ObjectID, cp change.Checkpoint) {
	if info.Documents == nil {
		info.Documents = make(map[string]*ClientDocInfo)
	}
	doc, ok := info.Documents[docID.Hex()]
	if !ok {
		doc = &ClientDocInfo{Status: DocumentAttached}
		info.Documents[docID.Hex()] = doc
	}
	doc.ServerSeq = cp.ServerSeq()
	doc.ClientSeq = cp.ClientSeq()
}
