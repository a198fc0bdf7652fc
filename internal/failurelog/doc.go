// Package failurelog appends terminal embedding failures to a plain text file,
// one media path per line. The file is opened, appended and closed on every
// write and is never truncated or deduplicated.
package failurelog
