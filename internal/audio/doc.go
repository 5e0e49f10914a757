// Package audio plays notification sounds: files named by the sound-file
// hint, themed sounds named by the sound-name hint, and configured
// per-urgency fallbacks.
package audio
