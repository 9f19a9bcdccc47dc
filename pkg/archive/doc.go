/*
Package archive bundles a template set into a zip archive.

Files are first materialized into a private staging directory and then read
back into the archive. The staging directory is removed on every exit path,
and the archive is written to a temporary file next to the destination and
renamed into place only once it is complete, so a failed build never leaves a
partial archive behind.
*/
package archive
