// Package asr transcribes reference audio for TTS conditioning.
//
// The recognizer shells out to an external ASR command so the transcription
// model never shares a runtime with the synthesis stack. Transcripts are
// cached on disk per (language, audio stem) because a pack-generation run
// only needs the reference transcribed once regardless of line count.
package asr
