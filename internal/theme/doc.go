// Package theme provides the popup stylesheet: an embedded default and an
// optional user CSS file that is reloaded when it changes.
package theme
