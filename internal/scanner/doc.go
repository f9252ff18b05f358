// Package scanner enumerates folders and media files under a library root.
// Listings are shallow, filtered against the mediatypes block lists, and
// tolerate per-item filesystem errors.
package scanner
