package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/pile-clicker/internal/game"
	"github.com/everforgeworks/pile-clicker/internal/storage"
)

type wsFixture struct {
	engine *game.Engine
	holder *game.Holder
	conn   *websocket.Conn
}

func newWSFixture(t *testing.T, seed game.EconomyState) *wsFixture {
	t.Helper()

	store := storage.NewMemoryStore()
	require.NoError(t, store.Save(game.EncodeState(game.DefaultPrefix, seed)))
	e := game.NewEngine(game.DefaultConfig(), store, game.WithRoller(noCrit{}))
	holder := game.NewHolder(e, nil)

	hub := NewHub(nil)
	e.Subscribe(hub.PublishEvent)
	ctx, cancel := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	srv := httptest.NewServer(NewHandlers(e, holder, nil).Routes(hub))
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		holder.Close()
		conn.Close()
		cancel()
		<-hubDone
		srv.Close()
	})

	// Registration is asynchronous; wait until broadcasts reach this client.
	require.Eventually(t, func() bool { return hub.Connected() == 1 }, 2*time.Second, 5*time.Millisecond)

	return &wsFixture{engine: e, holder: holder, conn: conn}
}

type eventMessage struct {
	Type    string     `json:"type"`
	Payload game.Event `json:"payload"`
	Sender  string     `json:"sender"`
}

// next reads messages until one of the wanted type arrives.
func (f *wsFixture) next(t *testing.T, typ string) eventMessage {
	t.Helper()
	require.NoError(t, f.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, raw, err := f.conn.ReadMessage()
		require.NoError(t, err)
		var msg eventMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		if msg.Type == typ {
			return msg
		}
	}
}

func TestHub_BroadcastsEngineEvents(t *testing.T) {
	f := newWSFixture(t, game.EconomyState{Pile: 10, CritCost: 10, PassiveCost: 50, HoldSpeed: 1})

	f.engine.Act()
	msg := f.next(t, "gain")
	assert.Equal(t, SenderEngine, msg.Sender)
	require.NotNil(t, msg.Payload.Gain)
	assert.Equal(t, 1, msg.Payload.Gain.Amount)
	assert.Equal(t, 11, msg.Payload.State.Pile)
	gainSeq := msg.Payload.Seq

	require.True(t, f.engine.PurchaseCrit())
	msg = f.next(t, "purchase")
	assert.Equal(t, game.UpgradeCrit, msg.Payload.Upgrade)
	assert.Equal(t, 1, msg.Payload.State.Pile)
	assert.Greater(t, msg.Payload.Seq, gainSeq)

	f.engine.Reset()
	msg = f.next(t, "reset")
	assert.Equal(t, 0, msg.Payload.State.Pile)
}

func TestHub_ClientCommands(t *testing.T) {
	f := newWSFixture(t, game.EconomyState{
		Pile: 0, CritCost: 10, PassiveCost: 50, HoldUnlocked: true, HoldSpeed: 1,
	})

	require.NoError(t, f.conn.WriteJSON(Message{Type: "act"}))
	msg := f.next(t, "gain")
	assert.Equal(t, 1, msg.Payload.State.Pile)

	require.NoError(t, f.conn.WriteJSON(Message{Type: "hold_start"}))
	require.Eventually(t, f.holder.Holding, time.Second, 5*time.Millisecond)

	require.NoError(t, f.conn.WriteJSON(Message{Type: "hold_stop"}))
	require.Eventually(t, func() bool { return !f.holder.Holding() }, time.Second, 5*time.Millisecond)
}

func TestHub_PublishAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Run(ctx)
	}()
	cancel()
	<-done

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish(Message{Type: "tick"})
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a stopped hub")
	}
}
