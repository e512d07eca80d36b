// SPDX-License-Identifier: EPL-2.0

// Package session ties the pieces of an edit together.
//
// Engine.Open copies the asset into a temporary stream, waits for the
// drawing surface to be laid out, then decodes in the background. Once
// Ready, the session holds the decoded buffer, its waveform summary and a
// region editor seeded with the default selection. Confirm exports the
// selection as WAV.
//
// Every handle created along the way is owned by the session's Handles and
// released by Close, including on failure and when Close arrives while a
// decode is still running. In that case the stream is released after the
// decode lets go of it and a short delay has passed.
//
// Replace and Close bump a generation counter, so a slow decode for an old
// asset never overwrites the state of a newer one.
package session
