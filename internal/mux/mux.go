package mux

import (
	"context"
	"net/http"
	"strings"

	gmux "github.com/gorilla/mux"

	"drawfour-server/internal/jwt"
	"drawfour-server/pkg/room"
)

type ctxKey int

const (
	ctxHostKey ctxKey = iota
	ctxSeatKey
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss

	// store for testing purposes
	hostRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: room.NewPitBoss(),
	}

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodPost).Path("/room").Handler(this.postRoom())
	}

	// room-scoped endpoints
	{
		rr := this.Router.PathPrefix("/room/{code:(?i)[a-z0-9]+}").Subrouter()
		rr.Use(this.roomMiddleware)

		rr.Methods(http.MethodGet).Path("").Handler(this.getRoom())
		rr.Methods(http.MethodGet).Path("/ws").Handler(this.getRoomWS())

		// requires the creator's seat token
		this.hostRouter = rr.NewRoute().Subrouter()
		this.hostRouter.Use(this.hostSeatMiddleware)
		this.hostRouter.Methods(http.MethodPost).Path("/bot").Handler(this.postRoomBot())
		this.hostRouter.Methods(http.MethodDelete).Path("/bot").Handler(this.deleteRoomBot())
	}

	return this
}

func (m *Mux) roomMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := gmux.Vars(r)["code"]
		host, ok := m.pitBoss.Room(code)
		if !ok {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxHostKey, host)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

// hostSeatMiddleware requires roomMiddleware to execute first
func (m *Mux) hostSeatMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		seat, err := jwt.ValidSeat(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		host := r.Context().Value(ctxHostKey).(*room.Host)
		if seat.RoomID != host.Code() || seat.SeatID != host.HostSeatID() {
			writeJSONError(w, http.StatusForbidden, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxSeatKey, seat)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
