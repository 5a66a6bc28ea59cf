// Package audio turns a caller-supplied audio source into raw bytes.
//
// A Source holds exactly one of an inline base64 payload, a remote URL, or a
// local path; NewSource enforces that arity. The Resolver reads the source
// into an Asset, and IsMP3 classifies the bytes against an ordered table of
// magic signatures so callers know whether conversion is needed.
package audio
