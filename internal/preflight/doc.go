// Package preflight provides readiness checks for the executables and
// filesystem paths mediameta depends on.
//
// These checks run in two contexts:
//   - The extract command calls RunAll before dispatching jobs. A failed
//     required check stops the run before any asset is touched.
//   - The CLI "mediameta check" command renders every result as a table.
//
// The gazetteer check is advisory: without it extraction still runs and
// only place names stay empty.
package preflight
