/*
Package session orchestrates access to persisted runs.

A session is an execution identified by a run ID whose snapshots live in a
ports.SnapshotStore. The Manager serializes work on the same run inside one
process and, when given a ports.RunLocker, across processes sharing a store.
*/
package session
