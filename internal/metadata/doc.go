// Package metadata reconciles the editable and technical tags of a media
// file across its embedded tags and XMP sidecar. Reads merge the two
// sources with sidecar precedence; writes keep both representations
// coherent. All external tag-tool access goes through the TagReader and
// TagWriter adapter interfaces.
package metadata
