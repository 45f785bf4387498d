package mux

import (
	"errors"
	"net/http"

	"drawfour-server/pkg/room"
)

type createRoomRequest struct {
	Name string `json:"name"`
}

type createRoomResponse struct {
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
	Token    string `json:"token"`
}

func (m *Mux) postRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createRoomRequest
		if !decodeRequest(w, r, &payload) {
			return
		}

		host, token, err := m.pitBoss.CreateRoom(payload.Name)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, createRoomResponse{
			Code:     host.Code(),
			PlayerID: host.HostSeatID(),
			Token:    token,
		})
	}
}

func (m *Mux) getRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := r.Context().Value(ctxHostKey).(*room.Host)
		writeJSON(w, http.StatusOK, host.GetPublicState())
	}
}

type botRequest struct {
	Name string `json:"name"`
}

type botResponse struct {
	PlayerID string `json:"playerId"`
}

func (m *Mux) postRoomBot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload botRequest
		if !decodeRequest(w, r, &payload) {
			return
		}

		host := r.Context().Value(ctxHostKey).(*room.Host)
		seatID, err := host.AddBot(payload.Name)
		if err != nil {
			writeJSONError(w, http.StatusConflict, err)
			return
		}

		writeJSON(w, http.StatusCreated, botResponse{PlayerID: seatID})
	}
}

func (m *Mux) deleteRoomBot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := r.Context().Value(ctxHostKey).(*room.Host)
		if !host.RemoveBot(r.FormValue("name")) {
			writeJSONError(w, http.StatusNotFound, errors.New("no matching bot"))
			return
		}

		writeJSON(w, http.StatusOK, "OK")
	}
}
