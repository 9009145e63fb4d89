// Package session manages running game lifecycles.
//
// The session package handles:
//   - Tracking running games by ID with creation/access stamps
//   - Saving and loading games through a Persistence interface
//   - File-based persistence in a plain sectioned text format
//
// Save Format:
//
// Games are stored as ASCII text files, sectioned by '#' headers:
//
//	# GAME_INFO
//	definition,classic
//	currentPlayerIndex,2
//	numberOfPlayers,4
//	bankCash,198600
//
//	# PLAYERS
//	P1,Ana,RED,1250,7,false,1,true
//	...
//
// followed by PROPERTIES_STREETS (squareIndex,ownerId,houses,hasHotel),
// PROPERTIES_COMPANIES (squareIndex,ownerId), DECK_STATE (the full card
// order, front first) and JAIL_CARDS_OUT. Older saves without a DECK_STATE
// section are still loadable: the release cards held by players are drawn
// out of a freshly built deck instead.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("saves", configManager)
//	manager := session.NewManagerWithPersistence(persistence)
//
//	game, err := manager.Create("", eng, "classic")
//	err = manager.Save(game.ID)
package session
