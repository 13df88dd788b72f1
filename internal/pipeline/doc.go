// Package pipeline orchestrates voice-pack generation: it validates inputs,
// optionally cleans the reference audio, transcribes it for conditioning,
// synthesizes every catalog line through the TTS service, and assembles the
// checksummed pack manifest. Each stage sits behind an on-disk cache so a
// rerun over the same inputs skips all expensive backend calls.
package pipeline
