// Package config loads board and deck definitions from CSV files.
//
// A definition is a pair of files in the configs directory:
//   - <name>.board.csv with rows "index,type,name,price,multiplier,value"
//   - <name>.deck.csv with rows "index,type,value"
//
// Board row types are START, JAIL, PARKING, STREET, COMPANY, MONEY,
// GOTOJAIL and CHANCE. A board needs exactly one JAIL row and contiguous
// indices starting at 0. Lines beginning with '#' are comments.
//
// The manager caches parsed rows, not engine objects: boards and decks are
// mutable game state, so every NewBoard/NewDeck call builds a fresh one.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//	board, err := manager.NewBoard("classic")
//	deck, err := manager.NewDeck("classic")
package config
