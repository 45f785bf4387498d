package mux

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"drawfour-server/pkg/protocol"
	"drawfour-server/pkg/room"
)

const writeWait = time.Second * 10
const pongWait = time.Second * 60
const pingPeriod = pongWait * 9 / 10

func (m *Mux) getRoomWS() http.HandlerFunc {
	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		host := r.Context().Value(ctxHostKey).(*room.Host)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.WithError(err).Error("could not upgrade connection")
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})

		client := room.NewClient(room.NewWebsocketConn(conn))
		if err := m.pitBoss.ClientConnected(host.Code(), client); err != nil {
			_ = conn.Close()
			return
		}

		waitForCloseFrame := make(chan bool)
		defer func() {
			m.pitBoss.ClientDisconnected(client)
			_ = conn.Close()
			close(waitForCloseFrame)

			if client.CloseError != nil {
				logrus.WithError(client.CloseError).WithField("client", client.String()).Debug("client connection closed")
			}
		}()

		go m.webSocketWriteLoop(client, conn, waitForCloseFrame)
		m.webSocketReadLoop(client, conn)
	}
}

func (m *Mux) webSocketWriteLoop(client *room.Client, conn *websocket.Conn, waitForCloseFrame chan bool) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case reason := <-client.Close:
			// flush anything already queued so the participant sees the
			// error that prompted the close
			for flushed := false; !flushed; {
				select {
				case env := <-client.SendChan():
					_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
					_ = conn.WriteJSON(env)
				default:
					flushed = true
				}
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))

			// wait for the close frame
			select {
			case <-waitForCloseFrame:
			case <-time.After(time.Second):
			}
			return
		case env := <-client.SendChan():
			logrus.WithField("type", env.Type).WithField("client", client.String()).Trace("sending message to client")

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				logrus.WithError(err).WithField("client", client.String()).Error("could not write message")
				return
			}
		}
	}
}

func (m *Mux) webSocketReadLoop(client *room.Client, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsUnexpectedCloseError(err) {
				logrus.WithError(err).Debug("could not read message")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure) {
				logrus.WithError(err).Error("could not read message")
			}

			client.CloseError = err
			return
		}

		env, err := protocol.ParseEnvelope(data)
		if err != nil {
			logrus.WithError(err).WithField("client", client.String()).Warn("discarding malformed envelope")
			continue
		}

		client.ReceivedMessage(env)
	}
}
