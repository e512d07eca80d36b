// SPDX-License-Identifier: EPL-2.0

// Package waveform renders audio for display.
//
// Summarize reduces a decoded buffer to a fixed number of columns of peak and
// RMS levels for the editable waveform. The summary is for drawing only and
// is never used to produce output audio.
//
// Live runs the playback spectrum: once per frame it pulls recent samples
// from a Tap, runs them through an Analyzer (a Hann windowed FFT from
// github.com/mjibson/go-dsp) and hands the bars to a DrawFunc. A draw error
// stops the loop and is reported as a *RenderError; playback carries on.
package waveform
