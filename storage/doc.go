// SPDX-License-Identifier: EPL-2.0

// Package storage holds the temporary byte streams an edit session decodes
// from. Each stream is a file in the store's directory, addressed by a
// "blob:<uuid>" URI until it is released.
package storage
