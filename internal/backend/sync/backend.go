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

// Package sync is the server-side counterpart of the document core: it
// persists client sessions and pushed changes through internal/backend/
// mongo, serializes concurrent PushPull calls for the same document key
// across replicas via internal/backend/sync/etcdlock, and exposes it
// all over the gRPC surface in this package's service.go. None of this
// is part of the CRDT core — it is the external collaborator spec.md
// §1 assumes and §5 describes the concurrency boundary of.
package sync

import (
	"github.com/coreos/etcd/clientv3"

	"github.com/yorkie-team/yorkie/internal/backend/mongo"
	"github.com/yorkie-team/yorkie/internal/backend/sync/etcdlock"
)

// Backend wires together the storage adapter and the distributed locker
// that the PushPull protocol needs.
type Backend struct {
	Mongo *mongo.Client
	Locks *etcdlock.LockManager
}

// New creates a new instance of Backend. etcdClient may be nil, in
// which case the lock manager falls back to local mutexes.
func New(mongoClient *mongo.Client, etcdClient *clientv3.Client) *Backend {
	return &Backend{
		Mongo: mongoClient,
		Locks: etcdlock.NewLockManager(etcdClient),
	}
}
