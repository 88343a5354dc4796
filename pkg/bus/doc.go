// Package bus provides the master side of the Xerxes field-bus protocol.
package bus

// The bus is a half-duplex, daisy-chained line with a single master and up to
// 255 leaf devices. Every exchange is a request from the master followed by
// at most one reply from the addressed leaf.
//
// Frame layout on the wire:
//
//	SOH(0x01) | LEN | PAYLOAD(LEN-3) | CHECKSUM
//
// LEN counts the three framing bytes. CHECKSUM makes the sum of all frame
// bytes zero modulo 256. The payload carries a Message:
//
//	DST | SRC | MSGID | DATA...
//
// There is no error correction. A corrupted frame is dropped by the receiver
// which then looks for the next SOH, all within the caller's deadline.
//
// Producer: Master (requests), leaf firmware (replies)
// Consumer: leaf firmware (requests), Master (replies)
