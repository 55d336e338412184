// Package attr exposes the touch boost tunables as named text attributes.
//
// A Gateway translates between a text protocol and the typed operations of a
// boost.Store. There is one attribute per field:
//
//	boost-enabled       read: "1\n"                                   write: "0" | "1"
//	boost-level         read: "1497600 - Touchboost frequency\n"       write: a legal level (kHz)
//	boost-duration-ms   read: "40 - Touchboost impulse length (ms)\n"  write: 0..10000
//
// # Write stages
//
// A write runs two separate stages:
//
//  1. ParseInt: the payload must hold exactly one base-10 integer (optional
//     sign, surrounding whitespace allowed). Otherwise ErrMalformedInput is
//     returned and the store is never called.
//  2. boost.Store.Set: the field rule decides (boost.ErrInvalidValue,
//     boost.ErrUnavailable).
//
// On success Store reports len(payload) bytes consumed; on failure it reports 0.
//
// KindOf maps any returned error to a short stable code suitable for wire
// responses.
//
// The HTTP mapping of this package lives in attrhttp; admin-style handlers live
// in ops.
package attr
