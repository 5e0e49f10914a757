// Package store persists the unread counter file and the notification
// history journal, and watches the journal for writes by the daemon.
package store
