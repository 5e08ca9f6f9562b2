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

package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocInfo is a persisted record of a document: its key, the owning
// client, and the server sequence counter every pushed change is
// stamped with.
type DocInfo struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Key        string             `bson:"key"`
	Owner      primitive.ObjectID `bson:"owner"`
	ServerSeq  int64              `bson:"server_seq"`
	CreatedAt  time.Time          `bson:"created_at"`
	AccessedAt time.Time          `bson:"accessed_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

// ChangeInfo is a persisted row of a single Change, keyed by the
// document it belongs to and the server sequence it was assigned when
// pushed. The operations themselves are not decomposed into BSON
// fields: Payload is the same gob encoding change.EncodeChange produces,
// so the wire format stays owned by the core's codec rather than
// duplicated here (§6.2).
type ChangeInfo struct {
	DocID     primitive.ObjectID `bson:"doc_id"`
	ServerSeq int64              `bson:"server_seq"`
	Actor     string             `bson:"actor"`
	ClientSeq uint32             `bson:"client_seq"`
	Lamport   int64              `bson:"lamport"`
	Message   string             `bson:"message"`
	Payload   []byte             `bson:"payload"`
}
