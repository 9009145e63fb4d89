package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocastro/magnate/game/config"
	"github.com/ocastro/magnate/game/service"
	"github.com/ocastro/magnate/game/session"
	"github.com/ocastro/magnate/transport/websocket"
)

const testBoardCSV = `# index,type,name,price,multiplier,value
0,START,Partida,,,
1,MONEY,Imposto,,,-100
2,STREET,Avenida Central,200,,
3,JAIL,Cadeia,,,
4,COMPANY,Companhia de Luz,150,10,
5,CHANCE,Sorte,,,
6,GOTOJAIL,Va para a cadeia,,,
7,PARKING,Estacionamento,,,
`

const testDeckCSV = `# index,type,value
0,RECEIVE_BANK,100
1,PAY_BANK,50
2,GET_OUT_OF_JAIL,
`

func newTestServer(t *testing.T) (*Server, service.GameService) {
	t.Helper()

	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "classic.board.csv"), []byte(testBoardCSV), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "classic.deck.csv"), []byte(testDeckCSV), 0644))

	configs, err := config.NewManager(configDir)
	require.NoError(t, err)

	persistence, err := session.NewFilePersistence(t.TempDir(), configs)
	require.NoError(t, err)

	games := session.NewManagerWithPersistence(persistence)
	svc := service.NewGameService(games, configs)

	hub := websocket.NewHub()
	go hub.Run()

	return NewServer(svc, hub), svc
}

func doJSON(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func createTestGame(t *testing.T, server *Server) string {
	t.Helper()

	rec := doJSON(t, server, "POST", "/api/games", map[string]interface{}{
		"players": []map[string]string{
			{"name": "Ana", "color": "RED"},
			{"name": "Bia", "color": "BLUE"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var game service.GameInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &game))
	require.NotEmpty(t, game.ID)
	return game.ID
}

func TestCreateGameEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, "POST", "/api/games", map[string]interface{}{
		"definition": "classic",
		"players": []map[string]string{
			{"name": "Ana", "color": "RED"},
			{"name": "Bia", "color": "BLUE"},
			{"name": "Caio", "color": "GREEN"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var game service.GameInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &game))
	assert.Equal(t, "classic", game.Definition)
	assert.Len(t, game.State.Players, 3)
	assert.Equal(t, service.DefaultBankCash, game.State.BankCash)
}

func TestCreateGameRejectsBadRequests(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, "POST", "/api/games", map[string]interface{}{
		"players": []map[string]string{{"name": "Solo", "color": "RED"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest("POST", "/api/games", bytes.NewBufferString("{not json"))
	rec2 := httptest.NewRecorder()
	server.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestListGetAndDeleteGame(t *testing.T) {
	server, _ := newTestServer(t)
	gameID := createTestGame(t, server)

	rec := doJSON(t, server, "GET", "/api/games", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Count int                 `json:"count"`
		Games []*service.GameInfo `json:"games"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, 1, listing.Count)
	assert.Equal(t, gameID, listing.Games[0].ID)

	rec = doJSON(t, server, "GET", "/api/games/"+gameID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, "GET", "/api/games/nonexistent", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, server, "DELETE", "/api/games/"+gameID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, "GET", "/api/games/"+gameID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRollAndBuyFlow(t *testing.T) {
	server, svc := newTestServer(t)
	gameID := createTestGame(t, server)

	// Force the roll so the first player lands on the street.
	require.NoError(t, svc.SetMockedDice(t.Context(), gameID, 1, 1))

	rec := doJSON(t, server, "POST", "/api/games/"+gameID+"/roll", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var roll service.RollResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roll))
	assert.True(t, roll.Success)
	assert.Equal(t, "Avenida Central", roll.LandedSquare)
	assert.Equal(t, "Avenida Central", roll.LandedOwnable)

	// Second roll in the same turn is a rule rejection, not an error.
	rec = doJSON(t, server, "POST", "/api/games/"+gameID+"/roll", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roll))
	assert.False(t, roll.Success)
	assert.Equal(t, "Dice already rolled this turn", roll.Reason)

	rec = doJSON(t, server, "POST", "/api/games/"+gameID+"/buy", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var action service.ActionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &action))
	assert.True(t, action.Success)
	require.Len(t, action.Transactions, 1)
	assert.Equal(t, 200, action.Transactions[0].Amount)

	rec = doJSON(t, server, "POST", "/api/games/"+gameID+"/end-turn", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &action))
	assert.True(t, action.Success)
	assert.Equal(t, 1, action.State.CurrentPlayerIndex)
}

func TestSellEndpoint(t *testing.T) {
	server, svc := newTestServer(t)
	gameID := createTestGame(t, server)

	require.NoError(t, svc.SetMockedDice(t.Context(), gameID, 1, 1))
	doJSON(t, server, "POST", "/api/games/"+gameID+"/roll", nil)
	doJSON(t, server, "POST", "/api/games/"+gameID+"/buy", nil)

	rec := doJSON(t, server, "POST", "/api/games/"+gameID+"/sell", map[string]int{"board_index": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var action service.ActionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &action))
	assert.True(t, action.Success)

	// Selling again fails the ownership check.
	rec = doJSON(t, server, "POST", "/api/games/"+gameID+"/sell", map[string]int{"board_index": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &action))
	assert.False(t, action.Success)
	assert.NotEmpty(t, action.Reason)
}

func TestStateAndPropertyQueries(t *testing.T) {
	server, _ := newTestServer(t)
	gameID := createTestGame(t, server)

	rec := doJSON(t, server, "GET", "/api/games/"+gameID+"/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state service.GameState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Len(t, state.Squares, 8)
	assert.Equal(t, "P1", state.CurrentPlayerID)

	rec = doJSON(t, server, "GET", fmt.Sprintf("/api/games/%s/properties/2", gameID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var property service.PropertyInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &property))
	require.NotNil(t, property.Street)
	assert.Equal(t, "Avenida Central", property.Street.Name)

	// Not an ownable square.
	rec = doJSON(t, server, "GET", fmt.Sprintf("/api/games/%s/properties/0", gameID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, server, "GET", fmt.Sprintf("/api/games/%s/properties/abc", gameID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, "GET", "/api/games/"+gameID+"/properties", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var holdings struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &holdings))
	assert.Equal(t, 0, holdings.Count)
}

func TestSaveLoadAndListSaves(t *testing.T) {
	server, _ := newTestServer(t)
	gameID := createTestGame(t, server)

	rec := doJSON(t, server, "POST", "/api/games/"+gameID+"/save", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, "GET", "/api/saves", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var saves struct {
		Count int      `json:"count"`
		Saves []string `json:"saves"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saves))
	assert.Equal(t, 1, saves.Count)
	assert.Contains(t, saves.Saves, gameID)

	rec = doJSON(t, server, "POST", "/api/games/"+gameID+"/load", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var game service.GameInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &game))
	assert.Equal(t, gameID, game.ID)
}

func TestListDefinitionsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, "GET", "/api/definitions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var definitions []*config.DefinitionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &definitions))
	require.Len(t, definitions, 1)
	assert.Equal(t, "classic", definitions[0].Name)
	assert.Equal(t, 8, definitions[0].Squares)
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, "GET", "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRootEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, "GET", "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/api", body["api"])
	assert.Equal(t, "/ws", body["ws"])
}
