package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"neon-portal/internal/game"
)

func dialGame(t *testing.T, srv *httptest.Server, cookie *http.Cookie) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	header := http.Header{}
	if cookie != nil {
		header.Set("Cookie", cookie.Name+"="+cookie.Value)
	}
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/dashboard/game"
	return websocket.DefaultDialer.Dial(wsURL, header)
}

func TestGameStreamRequiresSession(t *testing.T) {
	srv := httptest.NewServer(newTestApp(t).router(t))
	defer srv.Close()

	conn, resp, err := dialGame(t, srv, nil)
	if err == nil {
		conn.Close()
		t.Fatalf("expected handshake to fail for anonymous client")
	}
	if !errors.Is(err, websocket.ErrBadHandshake) || resp == nil || resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect during handshake, got %v (resp %v)", err, resp)
	}
}

func TestGameStreamFramesAndInput(t *testing.T) {
	app := newTestApp(t)
	router := app.router(t)
	b := &browser{t: t, h: router}
	b.postForm("/signup", annSignupForm())
	expectRedirect(t, b.postForm("/", url.Values{"email": {"ann@x.com"}, "password": {"Secret1"}}), http.StatusSeeOther, "/dashboard")

	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := dialGame(t, srv, b.cookie)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readFrame := func() game.Frame {
		t.Helper()
		if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
			t.Fatalf("set deadline: %v", err)
		}
		var f game.Frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		return f
	}

	first := readFrame()
	if first.Seq != 1 || first.Player.X != 50 || len(first.Commands) != 4 {
		t.Fatalf("unexpected first frame: %+v", first)
	}

	if err := conn.WriteJSON(game.KeyEvent{Type: game.EventKeyDown, Key: game.KeyRight}); err != nil {
		t.Fatalf("send key: %v", err)
	}
	var moved bool
	for i := 0; i < 120 && !moved; i++ {
		moved = readFrame().Player.X > 50
	}
	if !moved {
		t.Fatalf("player never moved right")
	}

	if err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")); err != nil {
		t.Fatalf("close: %v", err)
	}
}
