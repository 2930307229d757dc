// Package namelist reads, edits and writes Fortran namelist files.
//
// A namelist file is a sequence of groups, each holding name = value
// assignments:
//
//	&output_namelist
//	  shellslice_levels = 0.5, 0.9
//	  shellslice_values = 1, 2, 3
//	  shellslice_frequency = 100
//	/
//
// Values are sequences of scalars: quoted strings ('text' or "text", with a
// doubled quote standing for one quote), logicals (.true., .false., .t., .f.,
// T, F) and integer or real numbers (with an optional e or d exponent).
// A value of more than one scalar is an array; arrays may continue over
// several lines after a trailing comma. A repeat count r*c stands for r
// copies of c; null values ("1,,2" or "3*") are not accepted. Groups end
// with "/", "&end" or "$end", so no group may be named "end".
//
// # Model
//
// A [Document] owns an ordered list of [Group] values, and a Group owns an
// ordered list of [Entry] values. Group and entry names are unique within
// their container and are compared case-insensitively; they are stored and
// written as given. Every mutating operation validates its arguments first
// (see [Value.Validate]) and leaves the Document unchanged on failure.
//
// # Round trip
//
// [Document.Format] writes groups and entries in order. An entry whose value
// has not been changed since it was parsed is written with its original text
// when all of its tokens were on one source line; other entries are written
// from the value, one line per entry. Comments ("!" to end of line) are
// skipped by the parser and are not written back.
//
// For any Document d built or edited through this package,
// parsing the output of d.Format yields a Document for which [Equal]
// reports true.
package namelist
