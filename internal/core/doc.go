// Package core provides the record model and the filter/aggregate pipeline
// for the wildlife observation dashboard.
//
// This package is independent of any UI or transport layer. The web server,
// the command-line tool and the tests all drive it the same way.
//
// # Pipeline
//
//  1. [LoadRecords] parses an observation CSV into [Record] values. Counts are
//     coerced once, here, by [ParseCount]; a missing or non-numeric count is 0.
//  2. [BuildIndex] collects the sorted distinct species and observers that
//     populate the filter selectors.
//  3. [Filter] (or [Apply] with explicit [Predicate] values) selects the
//     records matching every active filter, preserving source order.
//  4. [Aggregate] turns a [View] into the parallel chart series of a
//     [Projection], plus the seen/not-seen split.
//  5. [Export] writes a view back out in the input format.
//
// # Session
//
// A [Session] owns the loaded record set. It starts in [StateLoading] and
// moves once to [StateReady] or [StateFailed]; queries made before it is
// ready return [ErrNotReady].
//
// # Error Handling
//
// Load failures are returned as [*LoadError]. [MapError] maps any error to a
// [UserMessage] with a support code (LOAD001-LOAD006, REQ001-REQ003,
// AUTH001-AUTH002, RATE001-RATE002, ERR000).
//
// # Limiter
//
// A [Limiter] bounds how many chart renders and exports run at once; a
// caller that cannot get a slot within its wait time gets [ErrBusy].
package core
