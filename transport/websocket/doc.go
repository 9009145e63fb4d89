// Package websocket pushes game state to connected clients.
//
// The package uses a hub-and-spoke model: a central Hub tracks clients
// grouped by the game they follow, and each connection runs dedicated
// read/write goroutines. Clients are listeners only; all game actions go
// through the REST API, which broadcasts a fresh snapshot plus the
// transactions of each mutating call.
//
// Clients pick the game to follow with a query parameter when connecting
// (?gameId=...); updates for a game reach only its followers.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	// after a mutating call:
//	hub.BroadcastState(gameID, state, transactions)
package websocket
