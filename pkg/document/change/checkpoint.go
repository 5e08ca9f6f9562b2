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

package change

import "fmt"

// Checkpoint tracks how far a replica has synced with the server: the
// highest serverSeq it has pulled, and the highest clientSeq of its own
// changes the server has acknowledged.
type Checkpoint struct {
	serverSeq int64
	clientSeq uint32
}

// InitialCheckpoint is the checkpoint of a freshly attached document.
var InitialCheckpoint = NewCheckpoint(0, InitialClientSeq)

// NewCheckpoint creates a new instance of Checkpoint.
func NewCheckpoint(serverSeq int64, clientSeq uint32) Checkpoint {
	return Checkpoint{serverSeq: serverSeq, clientSeq: clientSeq}
}

// ServerSeq returns the server sequence of this checkpoint.
func (c Checkpoint) ServerSeq() int64 {
	return c.serverSeq
}

// ClientSeq returns the client sequence of this checkpoint.
func (c Checkpoint) ClientSeq() uint32 {
	return c.clientSeq
}

// Forward returns a checkpoint holding the greater serverSeq and the
// greater clientSeq of the two, used when merging a server-acknowledged
// checkpoint into the local one.
func (c Checkpoint) Forward(other Checkpoint) Checkpoint {
	if c.serverSeq >= other.serverSeq && c.clientSeq >= other.clientSeq {
		return c
	}

	serverSeq := c.serverSeq
	if other.serverSeq > serverSeq {
		serverSeq = other.serverSeq
	}
	clientSeq := c.clientSeq
	if other.clientSeq > clientSeq {
		clientSeq = other.clientSeq
	}
	return NewCheckpoint(serverSeq, clientSeq)
}

// NextServerSeq returns a checkpoint advanced to the given server
// sequence.
func (c Checkpoint) NextServerSeq(serverSeq int64) Checkpoint {
	return NewCheckpoint(serverSeq, c.clientSeq)
}

// SyncClientSeq returns a checkpoint with its client sequence advanced
// to the given value, used once the server acknowledges local changes
// up to that sequence.
func (c Checkpoint) SyncClientSeq(clientSeq uint32) Checkpoint {
	return NewCheckpoint(c.serverSeq, clientSeq)
}

// String returns the string representation of this checkpoint, for
// debugging purpose.
func (c Checkpoint) String() string {
	return fmt.Sprintf("serverSeq=%d, clientSeq=%d", c.serverSeq, c.clientSeq)
}
