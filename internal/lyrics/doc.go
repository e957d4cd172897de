// Package lyrics loads reference lyric documents and classifies their
// structural lines. A document keeps blank lines in place so stanza breaks
// survive the round trip into timed output.
package lyrics
