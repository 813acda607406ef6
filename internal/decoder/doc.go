// Package decoder runs the camera side of a scan: it opens a frame source,
// samples frames at a fixed rate and reports the first barcode it recognizes.
//
// A Session is single use. The UI opens one per scan, reads Events until a
// Decoded or Stopped event (or the channel closes) and always calls Close.
package decoder
