/*
Package session keeps machines alive between requests.

A Manager is an in-memory registry of engines keyed by a generated ID. Every
access goes through WithLock, which serializes callers per machine; the engine
itself has no internal locking. Background runs started with Start take the
same lock once per tick, so edits and manual steps interleave with a running
machine between ticks.
*/
package session
