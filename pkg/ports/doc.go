/*
Package ports defines the driven ports (interfaces) of the realtime service.

These interfaces decouple the echo responder from external implementations,
allowing presence records to live in memory or in Redis.

# Key Interfaces

  - SessionStore: Persists the presence record of each open client connection.
*/
package ports
