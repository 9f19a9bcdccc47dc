/*
Package musicbox is the Music Box minimal realtime service kit.

It ships two pieces that share nothing but a binary:

  - An archive builder that bundles the minimal realtime service templates
    (package manifest, server entry point, container build file) into a zip
    ready to be unpacked and built with Docker.
  - An embedded echo service: a liveness responder (GET /health) and a
    WebSocket responder that greets every client and echoes back any JSON
    message it receives, shutting down in order on SIGINT or SIGTERM.

# Usage

Build the archive:

	musicbox package --output realtime-service-minimal.zip

Run the echo service:

	musicbox serve --ws-port 8080 --health-port 8081

Embed the service in another program:

	svc := service.New(service.DefaultConfig(), service.WithLogger(logger))
	if err := svc.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package musicbox
