// Package mcp provides a Model Context Protocol interface to the game server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game lifecycle and turn actions
//   - A thin HTTP proxy to the REST API (no game logic lives here)
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_game: Start a game with named players and colors
//   - list_games: List active games
//   - game_state: Render the board, players and turn status
//   - roll_dice: Roll and resolve the current player's move
//   - buy_property, build_house, build_hotel: Act on the landed square
//   - sell_property: Sell an owned property back to the bank
//   - end_turn: Pass the turn to the next living player
//   - property_info: Inspect one board square
//   - save_game, load_game: Persist and resume games
//   - list_definitions: List available board/deck definitions
//
// All tool results are formatted text so agents can read them directly.
// Rule rejections (rolling twice, buying an owned square, building out of
// turn) come back as refusals with the engine's reason, not as errors.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
