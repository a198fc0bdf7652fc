// Package contenttype resolves the true content type of a media file from
// its leading bytes and maps it to the canonical file extension.
//
// Two sniffing backends are available: the in-process h2non/filetype
// matcher (default) and the libmagic `file` command. Both report a MIME
// string; the Resolver canonicalizes library spellings and looks the result
// up in the known-types table.
package contenttype
