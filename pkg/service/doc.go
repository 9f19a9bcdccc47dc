/*
Package service runs the embedded echo service.

A Service owns two listeners sharing one lifetime: the message echo responder
(WebSocket) and the liveness responder (HTTP), plus an optional Prometheus
listener. Nothing is global, so tests can run isolated instances on ephemeral
ports.

# Shutdown

When the context passed to Run is canceled, the service stops accepting
WebSocket connections and waits for that listener to close, then closes the
liveness listener, then the metrics listener, and returns nil.

Connections that are already open are not drained or notified; they are
dropped when the process exits.
*/
package service
