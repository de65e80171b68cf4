// Package pipeline streams alignment records from a Reader goroutine into
// the link Aggregator and hands back the finished edge table.
//
// Records reach the Aggregator in file order; the table is owned by the
// consuming goroutine until Run returns.
package pipeline
