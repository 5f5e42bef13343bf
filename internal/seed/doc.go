// Package seed wipes the store and fills it with demo users, transactions and
// budgets.
//
// A run has two phases. Users are created one at a time under a mutex and
// their ids are appended to a Registry. The registry is then snapshotted and
// every (user, category) pair gets its own transaction worker, plus one budget
// worker per user. AwaitAll joins every worker before the run completes; a
// failed or cancelled worker never stops the others.
package seed
