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
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yorkie-team/yorkie/internal/api"
	"github.com/yorkie-team/yorkie/pkg/document/change"
	"github.com/yorkie-team/yorkie/pkg/log"
)

// RPCServer implements api.YorkieServer over a Backend, the adapted
// counterpart of the teacher's yorkie/api/rpc_server.go: the same five
// RPCs, now carrying gob-encoded envelopes (internal/api) instead of a
// separately generated protobuf schema.
type RPCServer struct {
	port       int
	grpcServer *grpc.Server
	backend    *Backend
}

// NewRPCServer creates a new instance of RPCServer listening on port
// and dispatching to be.
func NewRPCServer(port int, be *Backend) *RPCServer {
	s := &RPCServer{
		port: port,
		grpcServer: grpc.NewServer(
			grpc.UnaryInterceptor(loggingInterceptor),
		),
		backend: be,
	}
	api.RegisterYorkieServer(s.grpcServer, s)
	return s
}

// Start begins serving gRPC on this server's configured port.
func (s *RPCServer) Start() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		log.Logger.Error(err)
		return err
	}

	go func() {
		log.Logger.Infof("serving API on %d", s.port)
		if err := s.grpcServer.Serve(lis); err != nil {
			log.Logger.Error(err)
		}
	}()

	return nil
}

// Shutdown stops this server, gracefully if requested.
func (s *RPCServer) Shutdown(graceful bool) {
	if graceful {
		s.grpcServer.GracefulStop()
	} else {
		s.grpcServer.Stop()
	}
}

// ActivateClient activates a client session.
func (s *RPCServer) ActivateClient(ctx context.Context, env *api.Envelope) (*api.Envelope, error) {
	var req api.ActivateClientRequest
	if err := api.Decode(env, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	clientInfo, err := ActivateClient(ctx, s.backend, req.ClientKey)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return api.Encode(api.ActivateClientResponse{
		ClientID:  clientInfo.ID.Hex(),
		ClientKey: clientInfo.Key,
	})
}

// DeactivateClient deactivates a client session.
func (s *RPCServer) DeactivateClient(ctx context.Context, env *api.Envelope) (*api.Envelope, error) {
	var req api.DeactivateClientRequest
	if err := api.Decode(env, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	clientInfo, err := DeactivateClient(ctx, s.backend, req.ClientID)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return api.Encode(api.DeactivateClientResponse{ClientID: clientInfo.ID.Hex()})
}

// AttachDocument attaches a document to a client and runs one push/pull
// round for it.
func (s *RPCServer) AttachDocument(ctx context.Context, env *api.Envelope) (*api.Envelope, error) {
	var req api.AttachDocumentRequest
	if err := api.Decode(env, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	pack, err := change.DecodePack(req.ChangePack)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	clientInfo, docInfo, err := FindClientAndDocument(ctx, s.backend, req.ClientID, pack.DocumentKey)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if err := clientInfo.AttachDocument(docInfo.ID, pack.Checkpoint); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	pulled, err := PushPull(ctx, s.backend, clientInfo, docInfo, pack)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	encoded, err := change.EncodePack(pulled)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return api.Encode(api.AttachDocumentResponse{ChangePack: encoded})
}

// DetachDocument detaches a document from a client and runs one final
// push/pull round for it.
func (s *RPCServer) DetachDocument(ctx context.Context, env *api.Envelope) (*api.Envelope, error) {
	var req api.DetachDocumentRequest
	if err := api.Decode(env, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	pack, err := change.DecodePack(req.ChangePack)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	clientInfo, docInfo, err := FindClientAndDocument(ctx, s.backend, req.ClientID, pack.DocumentKey)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if err := clientInfo.CheckDocumentAttached(docInfo.ID.Hex()); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	pulled, err := PushPull(ctx, s.backend, clientInfo, docInfo, pack)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if err := clientInfo.DetachDocument(docInfo.ID.Hex()); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	encoded, err := change.EncodePack(pulled)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return api.Encode(api.DetachDocumentResponse{ChangePack: encoded})
}

// PushPull pushes local changes and pulls remote ones for an already
// attached document.
func (s *RPCServer) PushPull(ctx context.Context, env *api.Envelope) (*api.Envelope, error) {
	var req api.PushPullRequest
	if err := api.Decode(env, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	pack, err := change.DecodePack(req.ChangePack)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	clientInfo, docInfo, err := FindClientAndDocument(ctx, s.backend, req.ClientID, pack.DocumentKey)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if err := clientInfo.CheckDocumentAttached(docInfo.ID.Hex()); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	pulled, err := PushPull(ctx, s.backend, clientInfo, docInfo, pack)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	encoded, err := change.EncodePack(pulled)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return api.Encode(api.PushPullResponse{ChangePack: encoded})
}

func loggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		log.Logger.Errorf("%s: %v", info.FullMethod, err)
	}
	return resp, err
}
