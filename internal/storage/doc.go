// Package storage is the sqlite persistence layer.
//
// It holds the only state that must survive a restart:
//   - users and their subscriptions (written by the command surface,
//     read by the notification engine)
//   - the notification ledger (the durable "this subscriber received this
//     event-occurrence" record, deduplicated by a UNIQUE index)
package storage
