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

package sync

import (
	"context"
	"fmt"

	"github.com/yorkie-team/yorkie/internal/backend/types"
	"github.com/yorkie-team/yorkie/pkg/document/change"
)

// PushPull is the server side of the push/pull protocol §4.5/§6.4
// describes from the client's perspective: store whatever changes the
// client pushed (stamping each with the next server sequence), and
// return whatever changes the client hasn't seen yet. The per-document
// etcd lock (or local fallback) makes this atomic across concurrent
// callers sharing the same docKey.
func PushPull(
	ctx context.Context,
	be *Backend,
	clientInfo *types.ClientInfo,
	docInfo *types.DocInfo,
	pushed *change.Pack,
) (*change.Pack, error) {
	locker, err := be.Locks.Lock(ctx, docInfo.Key)
	if err != nil {
		return nil, fmt.Errorf("push/pull %s: %w", docInfo.Key, err)
	}
	defer func() { _ = locker.Unlock(ctx) }()

	clientCheckpoint := clientInfo.Checkpoint(docInfo.ID)

	if pushed.HasChanges() {
		if err := be.Mongo.CreateChangeInfos(ctx, docInfo.ID, docInfo.ServerSeq, pushed.Changes); err != nil {
			return nil, err
		}
		docInfo.ServerSeq += int64(len(pushed.Changes))
		if err := be.Mongo.UpdateDocInfo(ctx, docInfo); err != nil {
			return nil, err
		}

		lastPushed := pushed.Changes[len(pushed.Changes)-1]
		clientCheckpoint = clientCheckpoint.SyncClientSeq(lastPushed.ID().ClientSeq())
	}

	pulled, err := be.Mongo.FindChangeInfosBetweenServerSeqs(
		ctx,
		docInfo.ID,
		clientCheckpoint.ServerSeq()+1,
		docInfo.ServerSeq,
	)
	if err != nil {
		return nil, err
	}

	clientCheckpoint = clientCheckpoint.NextServerSeq(docInfo.ServerSeq)
	clientInfo.UpdateCheckpoint(docInfo.ID, clientCheckpoint)
	if err := be.Mongo.UpdateClientInfoAfterPushPull(ctx, clientInfo, docInfo); err != nil {
		return nil, err
	}

	return change.NewPack(docInfo.Key, clientCheckpoint, pulled, nil, nil), nil
}
