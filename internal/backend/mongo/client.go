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

// Package mongo is the storage adapter the sync backend uses to persist
// client sessions, document metadata and pushed changes. The document
// core never imports this package directly (§1 keeps persistence
// external); it only depends on pkg/document/change so it can store
// whatever the core already knows how to encode.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yorkie-team/yorkie/internal/backend/types"
	"github.com/yorkie-team/yorkie/pkg/document/change"
	"github.com/yorkie-team/yorkie/pkg/log"
)

// ErrClientNotFound is returned when a ClientInfo lookup misses.
var ErrClientNotFound = errors.New("fail to find the client")

// ErrDocumentNotFound is returned when a DocInfo lookup misses.
var ErrDocumentNotFound = errors.New("fail to find the document")

// Config configures a Client's connection to MongoDB.
type Config struct {
	ConnectionTimeoutSec time.Duration `json:"ConnectionTimeOutSec"`
	ConnectionURI        string        `json:"ConnectionURI"`
	YorkieDatabase       string        `json:"YorkieDatabase"`
	PingTimeoutSec       time.Duration `json:"PingTimeoutSec"`
}

// Client is a wrapper around the official mongo-driver client, exposing
// only the queries the sync backend needs.
type Client struct {
	config *Config
	client *mongo.Client
}

// NewClient creates a new instance of Client, connecting to and pinging
// the configured MongoDB deployment, and ensuring the indexes this
// package's queries rely on exist.
func NewClient(conf *Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(
		context.Background(),
		conf.ConnectionTimeoutSec*time.Second,
	)
	defer cancel()

	client, err := mongo.Connect(
		ctx,
		options.Client().ApplyURI(conf.ConnectionURI),
	)
	if err != nil {
		log.Logger.Error(err)
		return nil, err
	}

	ctxPing, cancel := context.WithTimeout(ctx, conf.PingTimeoutSec*time.Second)
	defer cancel()

	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		log.Logger.Error(err)
		return nil, err
	}

	if err := ensureIndex(ctx, client.Database(conf.YorkieDatabase)); err != nil {
		log.Logger.Error(err)
		return nil, err
	}

	log.Logger.Infof("connected, URI: %s, DB: %s", conf.ConnectionURI, conf.YorkieDatabase)

	return &Client{
		config: conf,
		client: client,
	}, nil
}

// Close disconnects this client from MongoDB.
func (c *Client) Close() error {
	if err := c.client.Disconnect(context.Background()); err != nil {
		log.Logger.Error(err)
		return err
	}

	return nil
}

// ActivateClient upserts and activates the client session for the given
// key.
func (c *Client) ActivateClient(ctx context.Context, key string) (*types.ClientInfo, error) {
	clientInfo := types.ClientInfo{}
	if err := c.withCollection(ColClientInfos, func(col *mongo.Collection) error {
		now := time.Now()
		res, err := col.UpdateOne(ctx, bson.M{
			"key": key,
		}, bson.M{
			"$set": bson.M{
				"status":     types.ClientActivated,
				"updated_at": now,
			},
		}, options.Update().SetUpsert(true))
		if err != nil {
			log.Logger.Error(err)
			return err
		}

		var result *mongo.SingleResult
		if res.UpsertedCount > 0 {
			result = col.FindOneAndUpdate(ctx, bson.M{
				"_id": res.UpsertedID,
			}, bson.M{
				"$set": bson.M{
					"created_at": now,
				},
			}, options.FindOneAndUpdate().SetReturnDocument(options.After))
		} else {
			result = col.FindOne(ctx, bson.M{
				"key": key,
			})
		}

		if err := result.Decode(&clientInfo); err != nil {
			log.Logger.Error(err)
			return err
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return &clientInfo, nil
}

// DeactivateClient marks the given client session as deactivated.
func (c *Client) DeactivateClient(ctx context.Context, clientID string) (*types.ClientInfo, error) {
	clientInfo := types.ClientInfo{}
	if err := c.withCollection(ColClientInfos, func(col *mongo.Collection) error {
		id, err := primitive.ObjectIDFromHex(clientID)
		if err != nil {
			log.Logger.Error(err)
			return err
		}
		result := col.FindOneAndUpdate(ctx, bson.M{
			"_id": id,
		}, bson.M{
			"$set": bson.M{
				"status":     types.ClientDeactivated,
				"updated_at": time.Now(),
			},
		}, options.FindOneAndUpdate().SetReturnDocument(options.After))

		if err := result.Decode(&clientInfo); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrClientNotFound
			}
			log.Logger.Error(err)
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &clientInfo, nil
}

// FindClientInfoByID looks up a client session by its id.
func (c *Client) FindClientInfoByID(ctx context.Context, clientID string) (*types.ClientInfo, error) {
	var clientInfo types.ClientInfo

	if err := c.withCollection(ColClientInfos, func(col *mongo.Collection) error {
		id, err := primitive.ObjectIDFromHex(clientID)
		if err != nil {
			log.Logger.Error(err)
			return err
		}
		result := col.FindOne(ctx, bson.M{
			"_id": id,
		})

		if err := result.Decode(&clientInfo); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrClientNotFound
			}
			log.Logger.Error(err)
			return err
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return &clientInfo, nil
}

// UpdateClientInfoAfterPushPull persists the checkpoint a client reached
// for a document after a push/pull round.
func (c *Client) UpdateClientInfoAfterPushPull(
	ctx context.Context,
	clientInfo *types.ClientInfo,
	docInfo *types.DocInfo,
) error {
	return c.withCollection(ColClientInfos, func(col *mongo.Collection) error {
		result := col.FindOneAndUpdate(ctx, bson.M{
			"key": clientInfo.Key,
		}, bson.M{
			"$set": bson.M{
				"documents." + docInfo.ID.Hex(): clientInfo.Documents[docInfo.ID.Hex()],
				"updated_at":                    time.Now(),
			},
		})

		if result.Err() != nil {
			if result.Err() == mongo.ErrNoDocuments {
				return ErrClientNotFound
			}
			log.Logger.Error(result.Err())
			return result.Err()
		}

		return nil
	})
}

// FindDocInfoByKey upserts and returns the DocInfo for the given key,
// recording the owning client the first time it is created.
func (c *Client) FindDocInfoByKey(
	ctx context.Context,
	clientInfo *types.ClientInfo,
	bsonDocKey string,
) (*types.DocInfo, error) {
	docInfo := types.DocInfo{}

	if err := c.withCollection(ColDocInfos, func(col *mongo.Collection) error {
		now := time.Now()
		res, err := col.UpdateOne(ctx, bson.M{
			"key": bsonDocKey,
		}, bson.M{
			"$set": bson.M{
				"accessed_at": now,
			},
		}, options.Update().SetUpsert(true))
		if err != nil {
			log.Logger.Error(err)
			return err
		}

		var result *mongo.SingleResult
		if res.UpsertedCount > 0 {
			result = col.FindOneAndUpdate(ctx, bson.M{
				"_id": res.UpsertedID,
			}, bson.M{
				"$set": bson.M{
					"key":        bsonDocKey,
					"owner":      clientInfo.ID,
					"created_at": now,
				},
			}, options.FindOneAndUpdate().SetReturnDocument(options.After))
		} else {
			result = col.FindOne(ctx, bson.M{
				"key": bsonDocKey,
			})
		}

		if err := result.Decode(&docInfo); err != nil {
			log.Logger.Error(err)
			return err
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return &docInfo, nil
}

// CreateChangeInfos persists the given changes as rows stamped with
// consecutive server sequences starting at fromServerSeq+1.
func (c *Client) CreateChangeInfos(
	ctx context.Context,
	docID primitive.ObjectID,
	fromServerSeq int64,
	changes []*change.Change,
) error {
	if len(changes) == 0 {
		return nil
	}

	return c.withCollection(ColChanges, func(col *mongo.Collection) error {
		var rows []interface{}

		for i, chg := range changes {
			payload, err := change.EncodeChange(chg)
			if err != nil {
				return err
			}

			rows = append(rows, types.ChangeInfo{
				DocID:     docID,
				ServerSeq: fromServerSeq + int64(i) + 1,
				Actor:     chg.ID().Actor().String(),
				ClientSeq: chg.ID().ClientSeq(),
				Lamport:   chg.ID().Lamport(),
				Message:   chg.Message(),
				Payload:   payload,
			})
		}

		_, err := col.InsertMany(ctx, rows, options.InsertMany().SetOrdered(true))
		if err != nil {
			log.Logger.Error(err)
			return err
		}

		return nil
	})
}

// UpdateDocInfo persists the document's current server sequence
// counter.
func (c *Client) UpdateDocInfo(
	ctx context.Context,
	docInfo *types.DocInfo,
) error {
	return c.withCollection(ColDocInfos, func(col *mongo.Collection) error {
		_, err := col.UpdateOne(ctx, bson.M{
			"_id": docInfo.ID,
		}, bson.M{
			"$set": bson.M{
				"server_seq": docInfo.ServerSeq,
				"updated_at": time.Now(),
			},
		})

		if err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrDocumentNotFound
			}
			log.Logger.Error(err)
			return err
		}

		return nil
	})
}

// FindChangeInfosBetweenServerSeqs returns every change persisted for
// docID whose server sequence falls in [from, to].
func (c *Client) FindChangeInfosBetweenServerSeqs(
	ctx context.Context,
	docID primitive.ObjectID,
	from int64,
	to int64,
) ([]*change.Change, error) {
	var changes []*change.Change
	if from > to {
		return changes, nil
	}

	if err := c.withCollection(ColChanges, func(col *mongo.Collection) error {
		cursor, err := col.Find(ctx, bson.M{
			"doc_id": docID,
			"server_seq": bson.M{
				"$gte": from,
				"$lte": to,
			},
		}, options.Find().SetSort(bson.M{"server_seq": 1}))
		if err != nil {
			log.Logger.Error(err)
			return err
		}

		defer func() {
			if err := cursor.Close(ctx); err != nil {
				log.Logger.Error(err)
			}
		}()

		for cursor.Next(ctx) {
			var row types.ChangeInfo
			if err := cursor.Decode(&row); err != nil {
				log.Logger.Error(err)
				return err
			}

			chg, err := change.DecodeChange(row.Payload)
			if err != nil {
				return err
			}
			changes = append(changes, chg)
		}

		return cursor.Err()
	}); err != nil {
		return nil, err
	}

	return changes, nil
}

func (c *Client) withCollection(
	collection string,
	callback func(collection *mongo.Collection) error,
) error {
	col := c.client.Database(c.config.YorkieDatabase).Collection(collection)
	return callback(col)
}
