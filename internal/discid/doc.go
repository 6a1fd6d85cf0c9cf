// Package discid models the table of contents of an audio CD and the
// identifiers derived from it.
//
// A Session wraps a TOCReader collaborator that performs the actual device
// access. After a successful read the session holds an immutable TOC from
// which the MusicBrainz disc ID, the FreeDB ID, submission and webservice
// URLs, and per-track geometry are computed. Before the first successful
// read every derived query reports absent rather than failing.
package discid
