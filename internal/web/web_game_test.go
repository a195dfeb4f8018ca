package web_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startGame seats Bob and has Alice press Start
func startGame(t *testing.T) (*webTestServer, *browser, *browser) {
	t.Helper()
	ts, alice, bob := openLobby(t)
	bob.submit("/lobby/ROOM01/join", nil)

	ts.app.MockRandom.QueueString("GAME01")
	rr := alice.post("/lobby/ROOM01/start", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/lobby/ROOM01/game", rr.Header().Get("Location"))
	return ts, alice, bob
}

func TestStartedLobbyForwardsToGame(t *testing.T) {
	_, _, bob := startGame(t)

	rr := bob.get("/lobby/ROOM01")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/lobby/ROOM01/game", rr.Header().Get("Location"))
}

func TestGameButtonsOnlyForPlayerOnTurn(t *testing.T) {
	_, alice, bob := startGame(t)

	doc := alice.page("/lobby/ROOM01/game")
	assertContainsText(t, doc, "#game-id", "GAME01")
	assertContainsElement(t, doc, "#draw-form")
	assertContainsElement(t, doc, "#stay-form")
	assertContainsElement(t, doc, "tr.player.current[data-player-id=p_alice]")

	doc = bob.page("/lobby/ROOM01/game")
	assertNotContainsElement(t, doc, "#draw-form")
	assertContainsText(t, doc, ".waiting", "Waiting for Alice")
}

func TestGamePlayedThroughButtons(t *testing.T) {
	ts, alice, bob := startGame(t)
	ts.app.QueueDraws(3, 5)

	doc := alice.submit("/lobby/ROOM01/game/draw", nil)
	assertContainsText(t, doc, "tr[data-player-id=p_alice] .hand .card", "3")
	assertContainsText(t, doc, "tr[data-player-id=p_alice] .score", "3")
	assertContainsElement(t, doc, "#draw-form")

	// Bob is refused and nothing changes
	doc = bob.submit("/lobby/ROOM01/game/draw", nil)
	assertContainsText(t, doc, ".flash-error", "not your turn")
	assert.Zero(t, doc.Find("tr[data-player-id=p_bob] .hand .card").Length())

	doc = alice.submit("/lobby/ROOM01/game/stay", nil)
	assertContainsText(t, doc, "tr[data-player-id=p_alice] .status", "banked")
	assertNotContainsElement(t, doc, "#draw-form")
	assertContainsElement(t, doc, "tr.player.current[data-player-id=p_bob]")

	bob.submit("/lobby/ROOM01/game/draw", nil)
	doc = bob.submit("/lobby/ROOM01/game/stay", nil)

	assert.Equal(t, 2, doc.Find("#standings li").Length())
	assert.Equal(t, "p_bob", doc.Find("#standings li").First().AttrOr("data-player-id", ""))
	assertContainsText(t, doc, "#winners", "Winner: Bob")
	assertNotContainsElement(t, doc, "#draw-form")
	assertNotContainsElement(t, doc, "#live")
}

func TestBotPlaysAfterHumanStays(t *testing.T) {
	ts := newWebTestServer(t)
	alice := ts.browser()
	alice.signIn("Alice", "alice", "tokalice")

	ts.app.MockRandom.QueueString("ROOM01")
	alice.submit("/lobby", nil)
	ts.app.MockRandom.QueueString("robot")
	alice.submit("/lobby/ROOM01/bots", nil)

	ts.app.MockRandom.QueueString("GAME01")
	alice.submit("/lobby/ROOM01/start", nil)

	ts.app.QueueDraws(10, 11)
	doc := alice.submit("/lobby/ROOM01/game/stay", nil)

	assertContainsText(t, doc, "tr[data-player-id=bot-robot] .score", "21")
	assertContainsText(t, doc, "#winners", "Winner: Bot 1")
}

func TestGameBeforeStartGoesToLobby(t *testing.T) {
	_, alice, _ := openLobby(t)

	rr := alice.get("/lobby/ROOM01/game")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/lobby/ROOM01", rr.Header().Get("Location"))
}
