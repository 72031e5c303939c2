// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

//go:build !statsview
// +build !statsview

package statsview

import "io"

// Address is the address the stats server listens on.
const Address = "localhost:12600"

// Launch does nothing: statsview support is not compiled in.
func Launch(output io.Writer) {}

// Available returns false: statsview support is not compiled in.
func Available() bool { return false }
