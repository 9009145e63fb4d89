package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ocastro/magnate/game/engine"
	"github.com/ocastro/magnate/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Magnate Board Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Magnate - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
A property-trading board game for 2 to 6 players. Move around the board,
buy streets and companies, build houses and hotels, collect rent, and
drive your opponents into bankruptcy. Last player standing wins.

TURN STRUCTURE:
1. roll_dice - move the current player and resolve the landing
   (rent, tax, chance card, jail). One roll per turn.
2. Optionally buy_property, build_house or build_hotel on the square
   you landed on (one purchase or build per turn), or sell_property
   to raise cash.
3. end_turn - pass play to the next living player.

AVAILABLE TOOLS:
- create_game: Start a new game with named players
- list_games: List active games
- game_state: Full board and player state
- roll_dice: Roll and resolve the current player's move
- buy_property / build_house / build_hotel: Act on the landed square
- sell_property: Sell an owned property back to the bank
- end_turn: Pass the turn
- property_info: Details for one board square
- save_game / load_game: Persist and resume games
- list_definitions: Available board/deck definitions

Rule rejections come back as "refused" with a reason rather than errors;
read the reason and adjust.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new game with 2 to 6 players",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"definition": map[string]interface{}{
					"type":        "string",
					"description": "Board/deck definition name (optional, defaults to classic)",
				},
				"players": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"name": map[string]interface{}{
								"type": "string",
							},
							"color": map[string]interface{}{
								"type": "string",
								"enum": []string{"RED", "BLUE", "GREEN", "YELLOW", "PURPLE", "ORANGE"},
							},
						},
					},
					"description": "Players with unique colors",
				},
				"initial_cash": map[string]interface{}{
					"type":        "integer",
					"description": "Starting cash per player (optional)",
				},
				"bank_cash": map[string]interface{}{
					"type":        "integer",
					"description": "Bank reserve (optional)",
				},
			},
			Required: []string{"players"},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all active games",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the full state of a game",
		InputSchema: gameIDSchema(),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dice",
		Description: "Roll the dice for the current player and resolve the landing",
		InputSchema: gameIDSchema(),
	}, c.handleRollDice)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "buy_property",
		Description: "Buy the property the current player is standing on",
		InputSchema: gameIDSchema(),
	}, c.handleBuyProperty)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "build_house",
		Description: "Build a house on the street the current player is standing on",
		InputSchema: gameIDSchema(),
	}, c.handleBuildHouse)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "build_hotel",
		Description: "Build a hotel on the street the current player is standing on (requires two houses)",
		InputSchema: gameIDSchema(),
	}, c.handleBuildHotel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "sell_property",
		Description: "Sell a property the current player owns back to the bank at 90% of total investment",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"board_index": map[string]interface{}{
					"type":        "integer",
					"description": "Board index of the property to sell",
				},
			},
			Required: []string{"game_id", "board_index"},
		},
	}, c.handleSellProperty)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_turn",
		Description: "End the current player's turn",
		InputSchema: gameIDSchema(),
	}, c.handleEndTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "property_info",
		Description: "Get details for one board square (price, owner, houses, rent inputs)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"board_index": map[string]interface{}{
					"type":        "integer",
					"description": "Board index of the square",
				},
			},
			Required: []string{"game_id", "board_index"},
		},
	}, c.handlePropertyInfo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "save_game",
		Description: "Save a game to disk",
		InputSchema: gameIDSchema(),
	}, c.handleSaveGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "load_game",
		Description: "Load a saved game into memory",
		InputSchema: gameIDSchema(),
	}, c.handleLoadGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_definitions",
		Description: "List available board/deck definitions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListDefinitions)
}

func gameIDSchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"game_id": map[string]interface{}{
				"type":        "string",
				"description": "Game ID",
			},
		},
		Required: []string{"game_id"},
	}
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	definition, _ := args["definition"].(string)
	playersRaw, _ := args["players"].([]interface{})

	players := make([]map[string]string, 0, len(playersRaw))
	for _, p := range playersRaw {
		if spec, ok := p.(map[string]interface{}); ok {
			name, _ := spec["name"].(string)
			color, _ := spec["color"].(string)
			players = append(players, map[string]string{"name": name, "color": color})
		}
	}

	body := map[string]interface{}{
		"players": players,
	}
	if definition != "" {
		body["definition"] = definition
	}
	if cash, ok := args["initial_cash"].(float64); ok {
		body["initial_cash"] = int(cash)
	}
	if cash, ok := args["bank_cash"].(float64); ok {
		body["bank_cash"] = int(cash)
	}

	var game service.GameInfo
	err := c.apiCall("POST", "/api/games", body, &game)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created game: %s\nDefinition: %s\n\n%s",
		game.ID, game.Definition, formatGameState(game.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                `json:"count"`
		Games []service.GameInfo `json:"games"`
	}

	err := c.apiCall("GET", "/api/games", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Games (%d):\n\n", response.Count)
	for _, g := range response.Games {
		result += fmt.Sprintf("- %s (Definition: %s, Created: %s)\n",
			g.ID, g.Definition, g.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var state service.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/games/%s/state", gameID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleRollDice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var result service.RollResult
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/roll", gameID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	if !result.Success {
		b.WriteString(fmt.Sprintf("✗ Roll refused: %s\n", result.Reason))
	} else if result.Roll != nil {
		b.WriteString(fmt.Sprintf("🎲 Rolled %d + %d = %d", result.Roll.D1, result.Roll.D2, result.Roll.Sum()))
		if result.Roll.IsDouble() {
			b.WriteString(" (double)")
		}
		b.WriteString("\n")
		if result.LandedSquare != "" {
			b.WriteString(fmt.Sprintf("Landed on: %s\n", result.LandedSquare))
		}
		if result.LandedOwnable != "" {
			b.WriteString(fmt.Sprintf("Available to buy or build: %s\n", result.LandedOwnable))
		}
	}
	b.WriteString(formatTransactions(result.Transactions))
	b.WriteString("\n")
	b.WriteString(formatGameState(result.State))

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleBuyProperty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.turnAction(request, "buy", "Purchase")
}

func (c *Client) handleBuildHouse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.turnAction(request, "build-house", "House build")
}

func (c *Client) handleBuildHotel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.turnAction(request, "build-hotel", "Hotel build")
}

func (c *Client) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.turnAction(request, "end-turn", "End turn")
}

// turnAction posts a body-less turn action and formats the shared result shape.
func (c *Client) turnAction(request mcp.CallToolRequest, path, label string) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var result service.ActionResult
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/%s", gameID, path), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(label, &result)), nil
}

func (c *Client) handleSellProperty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	boardIndex := 0
	if idx, ok := args["board_index"].(float64); ok {
		boardIndex = int(idx)
	}

	body := map[string]interface{}{
		"board_index": boardIndex,
	}

	var result service.ActionResult
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/sell", gameID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult("Sale", &result)), nil
}

func (c *Client) handlePropertyInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	boardIndex := 0
	if idx, ok := args["board_index"].(float64); ok {
		boardIndex = int(idx)
	}

	var property service.PropertyInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/games/%s/properties/%d", gameID, boardIndex), nil, &property)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPropertyInfo(&property)), nil
}

func (c *Client) handleSaveGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var response struct {
		Message string `json:"message"`
	}
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/save", gameID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message), nil
}

func (c *Client) handleLoadGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var game service.GameInfo
	err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/load", gameID), nil, &game)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Loaded game: %s\nDefinition: %s\n\n%s",
		game.ID, game.Definition, formatGameState(game.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListDefinitions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var definitions []struct {
		Name    string `json:"name"`
		Squares int    `json:"squares"`
		Cards   int    `json:"cards"`
	}
	err := c.apiCall("GET", "/api/definitions", nil, &definitions)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Definitions:\n\n"
	for _, d := range definitions {
		result += fmt.Sprintf("• %s (%d squares, %d chance cards)\n", d.Name, d.Squares, d.Cards)
	}

	return mcp.NewToolResultText(result), nil
}

// Formatting helpers

func formatGameState(state *service.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("Turn: player %s (index %d) | Bank: $%d | Alive: %d\n",
		state.CurrentPlayerID, state.CurrentPlayerIndex, state.BankCash, state.AliveCount))
	if state.RollAllowed {
		b.WriteString("Dice: ready to roll\n")
	} else if state.LastRoll != nil {
		b.WriteString(fmt.Sprintf("Dice: rolled %d + %d\n", state.LastRoll.D1, state.LastRoll.D2))
	}
	if len(state.Winners) > 0 {
		names := make([]string, len(state.Winners))
		for i, winner := range state.Winners {
			names[i] = winner.Name
		}
		b.WriteString(fmt.Sprintf("🏆 Winner(s): %s\n", strings.Join(names, ", ")))
	}

	b.WriteString("\nPlayers:\n")
	for _, p := range state.Players {
		status := ""
		if !p.Alive {
			status = " [BANKRUPT]"
		} else if p.InJail {
			status = " [IN JAIL]"
		}
		marker := " "
		if p.ID == state.CurrentPlayerID {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s (%s): $%d at square %d, %d properties%s\n",
			marker, p.ID, p.Name, p.Color, p.Cash, p.Position, len(p.Properties), status))
	}

	b.WriteString("\nBoard:\n")
	for _, sq := range state.Squares {
		line := fmt.Sprintf("%2d. %-24s %s", sq.Index, sq.Name, sq.Kind)
		if sq.Owner != nil {
			line += fmt.Sprintf(" owner=%s", sq.Owner.ID)
		}
		if sq.Houses > 0 {
			line += fmt.Sprintf(" houses=%d", sq.Houses)
		}
		if sq.HasHotel {
			line += " hotel"
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}

func formatActionResult(label string, result *service.ActionResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString(fmt.Sprintf("✓ %s successful\n", label))
	} else {
		b.WriteString(fmt.Sprintf("✗ %s refused: %s\n", label, result.Reason))
	}
	b.WriteString(formatTransactions(result.Transactions))
	b.WriteString("\n")
	b.WriteString(formatGameState(result.State))
	return b.String()
}

func formatTransactions(transactions []engine.Transaction) string {
	if len(transactions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Money movements:\n")
	for _, tx := range transactions {
		b.WriteString(fmt.Sprintf("- %s pays %s: $%d\n", describeParty(tx.From, tx.FromName), describeParty(tx.To, tx.ToName), tx.Amount))
	}
	return b.String()
}

func describeParty(id, name string) string {
	if name != "" {
		return fmt.Sprintf("%s (%s)", name, id)
	}
	return id
}

func describeOwner(owner *engine.PlayerRef) string {
	if owner == nil {
		return "unowned"
	}
	return fmt.Sprintf("owned by %s (%s)", owner.Name, owner.ID)
}

func formatPropertyInfo(property *service.PropertyInfo) string {
	switch {
	case property.Street != nil:
		s := property.Street
		return fmt.Sprintf(`Street: %s (square %d)
Price: $%d
Status: %s
Houses: %d, Hotel: %t
Current rent: $%d
Sell value: $%d`,
			s.Name, s.BoardIndex, s.Price, describeOwner(s.Owner), s.Houses, s.HasHotel, s.Rent, s.SellValue)
	case property.Company != nil:
		co := property.Company
		return fmt.Sprintf(`Company: %s (square %d)
Price: $%d
Status: %s
Rent: %d × last dice sum
Sell value: $%d`,
			co.Name, co.BoardIndex, co.Price, describeOwner(co.Owner), co.Multiplier, co.SellValue)
	default:
		return "Not an ownable property"
	}
}
