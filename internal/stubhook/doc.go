// Package stubhook serves a local stand-in for the SugarScan analysis webhook.
//
// It answers POST /webhook/sugarscan with the same JSON shapes the real
// service uses, backed by a small in-memory catalog, and GET /health with
// "OK". Unknown barcodes get {"error": "Product not found"}. A fixed latency
// can be added to exercise the client's loading state.
package stubhook
