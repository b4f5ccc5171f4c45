/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package metadata holds the build information the Makefile stamps in
// through ldflags.
package metadata

var Version = "latest"
var CommitSHA = "development build"
