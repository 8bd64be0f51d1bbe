// Package lower projects the lossless tree onto the semantic tree.
//
// The projection resolves accidental runs, octave marks and durations and
// strips decoration and annotation delimiters. Checks that need the finished
// node (unusual octaves, suspicious or zero-denominator durations, empty
// chords and tuplets, short tuplets) are reported to the sink while
// projecting; with diag.Discard the projection is pure.
package lower
