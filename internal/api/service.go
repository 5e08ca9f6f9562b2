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
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully-qualified gRPC service name, the way
// protoc-gen-go-grpc would derive it from a yorkie.v1.Yorkie service
// declaration.
const ServiceName = "yorkie.v1.Yorkie"

// YorkieServer is the server-side contract of the push/pull API (§6.4):
// activate/deactivate a client session, attach/detach a document, and
// push/pull change packs.
type YorkieServer interface {
	ActivateClient(context.Context, *Envelope) (*Envelope, error)
	DeactivateClient(context.Context, *Envelope) (*Envelope, error)
	AttachDocument(context.Context, *Envelope) (*Envelope, error)
	DetachDocument(context.Context, *Envelope) (*Envelope, error)
	PushPull(context.Context, *Envelope) (*Envelope, error)
}

func handler(method func(ctx context.Context, req *Envelope) (*Envelope, error)) func(
	srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Envelope)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return method(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/"}
		return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return method(ctx, req.(*Envelope))
		})
	}
}

// ServiceDesc is the grpc.ServiceDesc this package's server registers,
// built by hand the way protoc-gen-go-grpc would generate it from a
// .proto service declaration.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*YorkieServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ActivateClient", Handler: activateClientHandler},
		{MethodName: "DeactivateClient", Handler: deactivateClientHandler},
		{MethodName: "AttachDocument", Handler: attachDocumentHandler},
		{MethodName: "DetachDocument", Handler: detachDocumentHandler},
		{MethodName: "PushPull", Handler: pushPullHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "yorkie/v1/yorkie.proto",
}

func activateClientHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return handler(srv.(YorkieServer).ActivateClient)(srv, ctx, dec, interceptor)
}

func deactivateClientHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return handler(srv.(YorkieServer).DeactivateClient)(srv, ctx, dec, interceptor)
}

func attachDocumentHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return handler(srv.(YorkieServer).AttachDocument)(srv, ctx, dec, interceptor)
}

func detachDocumentHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return handler(srv.(YorkieServer).DetachDocument)(srv, ctx, dec, interceptor)
}

func pushPullHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return handler(srv.(YorkieServer).PushPull)(srv, ctx, dec, interceptor)
}

// RegisterYorkieServer registers srv's implementation of YorkieServer on
// s, the way protoc-gen-go-grpc's generated RegisterYorkieServer would.
func RegisterYorkieServer(s *grpc.Server, srv YorkieServer) {
	s.RegisterService(&ServiceDesc, srv)
}
