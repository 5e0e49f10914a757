// Package daemon implements the notification lifecycle of ktmd: the
// registry of on-screen popups, the controller that creates, replaces,
// expires and closes them, and the event loop every state change runs on.
package daemon
