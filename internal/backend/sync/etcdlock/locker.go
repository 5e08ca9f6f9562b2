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

// Package etcdlock provides a per-document-key distributed mutex backed
// by etcd, so that PushPull calls for the same document key serialize
// across every backend replica rather than just within one process
// (§5's single-threaded-per-document guarantee, extended across the
// cluster).
package etcdlock

import (
	"context"
	"fmt"
	"sync"

	"github.com/coreos/etcd/clientv3"
	"github.com/coreos/etcd/clientv3/concurrency"

	"github.com/yorkie-team/yorkie/pkg/log"
)

// lockKeyPrefix namespaces this package's lock keys within the shared
// etcd keyspace.
const lockKeyPrefix = "/yorkie/doc-lock/"

// LockManager hands out locks keyed by document key. With no etcd
// client configured it falls back to in-process mutexes, which is
// sufficient for a single backend replica (e.g. local development).
type LockManager struct {
	client *clientv3.Client

	mu       sync.Mutex
	sessions map[string]*concurrency.Session

	localMu sync.Mutex
	locals  map[string]*sync.Mutex
}

// NewLockManager creates a new instance of LockManager. client may be
// nil, in which case every Lock falls back to a local mutex.
func NewLockManager(client *clientv3.Client) *LockManager {
	return &LockManager{
		client:   client,
		sessions: make(map[string]*concurrency.Session),
		locals:   make(map[string]*sync.Mutex),
	}
}

// Locker is a held lock; Unlock releases it.
type Locker interface {
	Unlock(ctx context.Context) error
}

// Lock acquires the distributed lock for the given document key,
// blocking until it is available or ctx is done.
func (m *LockManager) Lock(ctx context.Context, docKey string) (Locker, error) {
	if m.client == nil {
		mu := m.localMutex(docKey)
		mu.Lock()
		return &localLocker{mu: mu}, nil
	}

	session, err := concurrency.NewSession(m.client)
	if err != nil {
		log.Logger.Error(err)
		return nil, fmt.Errorf("new etcd session for %s: %w", docKey, err)
	}

	mutex := concurrency.NewMutex(session, lockKeyPrefix+docKey)
	if err := mutex.Lock(ctx); err != nil {
		_ = session.Close()
		log.Logger.Error(err)
		return nil, fmt.Errorf("acquire etcd lock for %s: %w", docKey, err)
	}

	return &etcdLocker{session: session, mutex: mutex}, nil
}

func (m *LockManager) localMutex(docKey string) *sync.Mutex {
	m.localMu.Lock()
	defer m.localMu.Unlock()

	mu, ok := m.locals[docKey]
	if !ok {
		mu = &sync.Mutex{}
		m.locals[docKey] = mu
	}
	return mu
}

type etcdLocker struct {
	session *concurrency.Session
	mutex   *concurrency.Mutex
}

func (l *etcdLocker) Unlock(ctx context.Context) error {
	defer func() {
		if err := l.session.Close(); err != nil {
			log.Logger.Error(err)
		}
	}()
	return l.mutex.Unlock(ctx)
}

type localLocker struct {
	mu *sync.Mutex
}

func (l *localLocker) Unlock(context.Context) error {
	l.mu.Unlock()
	return nil
}
