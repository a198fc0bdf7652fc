// Package deps checks that the external binaries mediamend shells out to
// are installed, and probes their versions for status output.
package deps
