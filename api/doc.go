// Package api provides the HTTP REST surface of the game server.
//
// The api package implements:
//   - Game lifecycle endpoints (create, list, get, delete)
//   - Turn action endpoints (roll, buy, build, sell, end-turn)
//   - Board and property queries
//   - Save/load endpoints backed by the session persistence layer
//   - WebSocket upgrade handling for state broadcasts
//
// Endpoints:
//
// Game Lifecycle:
//   - POST /api/games - Create a game (definition, players, optional cash amounts)
//   - GET /api/games - List active games
//   - GET /api/games/{id} - Get a game
//   - DELETE /api/games/{id} - Delete a game and its save file
//
// Turn Actions:
//   - POST /api/games/{id}/roll - Roll the dice and resolve the landing
//   - POST /api/games/{id}/buy - Buy the property under the current player
//   - POST /api/games/{id}/build-house - Build a house on the current square
//   - POST /api/games/{id}/build-hotel - Build a hotel on the current square
//   - POST /api/games/{id}/sell - Sell an owned property ({"board_index": n})
//   - POST /api/games/{id}/end-turn - Pass the turn to the next living player
//
// Queries:
//   - GET /api/games/{id}/state - Full game state snapshot
//   - GET /api/games/{id}/properties - Current player's holdings
//   - GET /api/games/{id}/properties/{index} - Details for one square
//
// Persistence:
//   - POST /api/games/{id}/save - Write the game to disk
//   - POST /api/games/{id}/load - Load a saved game into memory
//   - GET /api/saves - List save files
//
// Definitions:
//   - GET /api/definitions - List available board/deck definitions
//
// Turn action responses carry success, a rejection reason when the rules
// refused the action, the money transfers the action caused, and the
// resulting game state. Rule rejections are HTTP 200 with success=false;
// only unknown games and malformed requests produce error status codes.
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
