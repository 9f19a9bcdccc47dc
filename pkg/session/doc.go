/*
Package session records the presence of client connections.

A Recorder turns the echo responder's connection hooks into writes against a
ports.SessionStore: a record is saved when a client connects and removed when
it leaves. Store calls run off the connection goroutine, so a slow store never
delays the echo protocol. Store failures are logged and never reach the
connection.
*/
package session
