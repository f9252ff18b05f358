// Package handlers implements the JSON HTTP API over the library facade:
// folder and media listings, metadata reads and updates, thumbnail and
// preview serving, background queueing and sibling navigation.
package handlers
