/*
Package domain contains the core models of the Music Box realtime kit.

It defines the template files bundled by the archive builder, the messages
exchanged by the echo service, and the presence records kept for each client
connection. This package is kept free of I/O so adapters can depend on it
without pulling in transports or storage.

# Key Entities

  - TemplateFile: A named static content blob written into the archive.
  - ArchiveResult: The outcome of a successful archive build.
  - Message: The envelope sent to clients (welcome or echo).
  - ClientSession: A presence record for one accepted connection.
  - ConnectionHooks: Observability callbacks fired by the echo responder.
*/
package domain
