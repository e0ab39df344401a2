// Package bplist00 decodes Apple's binary property list format, version 00,
// from an in-memory byte buffer into typed values.
//
// The decoder is a safe, random-access reader: it validates the document
// envelope (header, trailer, offset table), resolves object references
// through the offset table, dispatches on the wire format's type-tagged
// marker byte, and walks the resulting object graph with cycle detection.
// Two complementary surfaces sit on top of that core: FromBytes produces a
// generic typed value tree (package cf), and Decoder builds that tree and
// then decodes it into a user-supplied Go value via reflection, much as
// encoding/json's Decoder does.
//
// Only bplist version "00" is supported. There is no streaming or partial
// decode (the whole document must be resident), no NSKeyedArchiver graph
// reconstruction, and no encoder; this package is decode-only.
package bplist00
