// Package mediatypes defines the supported media formats and the block
// lists of OS housekeeping files and directories shared by the scanner and
// the cache.
package mediatypes
