// Package logtail keeps a bounded tail of line-oriented output.
//
// Ring is used as the stderr sink of the ffmpeg camera process so a failed
// camera open can report what ffmpeg said without buffering its whole output.
// Memory is O(maxLines); lines come back oldest first.
package logtail
