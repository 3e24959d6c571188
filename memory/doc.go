// Package memory holds the vendor-neutral content an engine sends with its
// next request.
//
// Content model:
//   - Blocks are text or a base64 PNG image, kept in insertion order.
//   - A buffer lives for one trigger cycle and is cleared before the next.
//   - Nothing is persisted across cycles.
package memory
