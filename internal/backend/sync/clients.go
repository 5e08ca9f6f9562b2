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

	"github.com/yorkie-team/yorkie/internal/backend/types"
)

// ActivateClient activates (creating if necessary) the client session
// identified by key.
func ActivateClient(ctx context.Context, be *Backend, key string) (*types.ClientInfo, error) {
	return be.Mongo.ActivateClient(ctx, key)
}

// DeactivateClient deactivates the client session identified by
// clientID.
func DeactivateClient(ctx context.Context, be *Backend, clientID string) (*types.ClientInfo, error) {
	return be.Mongo.DeactivateClient(ctx, clientID)
}

// FindClientAndDocument resolves both the client session and the
// document the given change pack targets, creating a DocInfo row for a
// never-before-seen document key.
func FindClientAndDocument(
	ctx context.Context,
	be *Backend,
	clientID string,
	docKey string,
) (*types.ClientInfo, *types.DocInfo, error) {
	clientInfo, err := be.Mongo.FindClientInfoByID(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}

	docInfo, err := be.Mongo.FindDocInfoByKey(ctx, clientInfo, docKey)
	if err != nil {
		return nil, nil, err
	}

	return clientInfo, docInfo, nil
}
