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

// Package log provides the logger used across the document core and the
// surrounding backend surfaces.
package log

import (
	"go.uber.org/zap"
)

// Logger is the package-wide sugared logger. Every package logs through
// this instead of the standard library's log package.
var Logger *zap.SugaredLogger

func init() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	Logger = logger.Sugar()
}

// SetLogger replaces the package-wide logger. Hosts embedding the core can
// call this to redirect logs into their own zap configuration.
func SetLogger(logger *zap.SugaredLogger) {
	Logger = logger
}
