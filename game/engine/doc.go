// Package engine implements the core rules of the property trading game:
// board navigation, square effects, the chance deck, the bank ledger, the
// economy (purchases, construction, rent, forced liquidation, bankruptcy)
// and the turn state machine.
//
// The package is deliberately free of I/O and logging. All money movement is
// funneled through Bank.Transfer so the transaction log is totally ordered
// and consistent with balance changes. Business-rule rejections ("can't
// afford", "already owned", "not rollable again") are reported as boolean
// results with a reason query, never as errors; errors are reserved for
// invalid arguments and broken preconditions.
package engine
