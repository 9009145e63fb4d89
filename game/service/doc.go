// Package service exposes the complete game as a facade for transports.
//
// The service package handles:
//   - Creating games from board/deck definitions and player specs
//   - Executing turn actions (roll, buy, build, sell, end turn)
//   - Producing serializable state snapshots for clients
//   - Saving, loading, listing and deleting games
//
// Business-rule rejections (can't afford, not owner, already built this
// turn, roll already taken) are not errors: actions return an ActionResult
// with Success false and an explanatory Reason, leaving state unchanged.
// Errors are reserved for unknown games, bad input and broken state.
//
// Every action drains the bank's transaction log into the result, so a
// client sees exactly the money movements its call caused.
package service
