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

// Package api is the gRPC transport surface the sync backend exposes:
// ActivateClient/DeactivateClient/AttachDocument/DetachDocument/
// PushPull, each carrying a single opaque Envelope message rather than
// a separately generated protobuf schema per RPC. The wire schema for
// what the envelope actually holds (a ChangePack, a client id, ...)
// stays owned by pkg/document/change's own gob codec (SPEC_FULL's
// "opaque change.ChangePack bytes" note); Envelope itself is a genuine
// protobuf message (hand-written the way protoc-gen-go would emit it
// for a one-field `bytes payload = 1` message) so it still rides
// grpc's default proto codec, matching the teacher's real RPC stack.
package api

import (
	"github.com/golang/protobuf/proto"
)

// Envelope is the single message type every RPC in this package's
// service exchanges.
type Envelope struct {
	Payload []byte `protobuf:"bytes,1,opt,name=payload,proto3" json:"payload,omitempty"`
}

// Reset implements proto.Message.
func (m *Envelope) Reset() { *m = Envelope{} }

// String implements proto.Message.
func (m *Envelope) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (m *Envelope) ProtoMessage() {}
