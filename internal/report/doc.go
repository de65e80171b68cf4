// Package report ranks the finished edge table and renders it.
//
// Design:
//   • Ranking is a pure transform: descending support, ties kept in
//     first-seen (creation) order.
//   • Rendering owns all presentation knowledge: coordinate column choice,
//     the optional header, and the name;score formatting.
//   • Nothing is written until the caller hands over a final table.
package report
