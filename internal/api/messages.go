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

package api

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// ActivateClientRequest/Response is the payload pair of the
// ActivateClient RPC.
type ActivateClientRequest struct {
	ClientKey string
}

type ActivateClientResponse struct {
	ClientID  string
	ClientKey string
}

// DeactivateClientRequest/Response is the payload pair of the
// DeactivateClient RPC.
type DeactivateClientRequest struct {
	ClientID string
}

type DeactivateClientResponse struct {
	ClientID string
}

// AttachDocumentRequest/Response is the payload pair of the
// AttachDocument RPC.
type AttachDocumentRequest struct {
	ClientID   string
	ChangePack []byte
}

type AttachDocumentResponse struct {
	ChangePack []byte
}

// DetachDocumentRequest/Response is the payload pair of the
// DetachDocument RPC.
type DetachDocumentRequest struct {
	ClientID   string
	ChangePack []byte
}

type DetachDocumentResponse struct {
	ChangePack []byte
}

// PushPullRequest/Response is the payload pair of the PushPull RPC.
type PushPullRequest struct {
	ClientID   string
	ChangePack []byte
}

type PushPullResponse struct {
	ChangePack []byte
}

// Encode gob-encodes any of the request/response payloads above into an
// Envelope.
func Encode(v interface{}) (*Envelope, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode envelope payload: %w", err)
	}
	return &Envelope{Payload: buf.Bytes()}, nil
}

// Decode gob-decodes an Envelope's payload into dst, which must be a
// pointer to one of the request/response payload types above.
func Decode(env *Envelope, dst interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(env.Payload)).Decode(dst); err != nil {
		return fmt.Errorf("decode envelope payload: %w", err)
	}
	return nil
}
