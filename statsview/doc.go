// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package statsview serves runtime statistics of a running simulation over
// HTTP. It is only functional when built with the statsview build tag:
//
//	go build -tags statsview ./cmd/hwbridge
//
// Once launched, graphs are available at localhost:12600/debug/statsview and
// pprof data at localhost:12600/debug/pprof/.
package statsview
