package mux

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"drawfour-server/internal/jwt"
)

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.PanicLevel)
	jwt.LoadSecret()
	os.Exit(m.Run())
}

func TestHealthHandler(t *testing.T) {
	ts := httptest.NewServer(NewMux("v1.2.3"))
	defer ts.Close()

	var expects healthResponse
	assertGet(t, ts, "/health", &expects, 200)
	assert.Equal(t, "OK", expects.Status)
	assert.Equal(t, "v1.2.3", expects.Version)
}

func Test_hostRouter(t *testing.T) {
	m := NewMux("")

	m.hostRouter.Path("/test").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, "OK")
	})

	ts := httptest.NewServer(m)
	defer ts.Close()

	var created createRoomResponse
	assertPost(t, ts, "/room", createRoomRequest{Name: "Alice"}, &created, 201)

	base := "/room/" + created.Code

	var errObj errorResponse
	assertGet(t, ts, base+"/test", &errObj, 401)
	assert.Equal(t, "Unauthorized", errObj.Message)

	// a valid token for a different seat is not enough
	otherToken, err := jwt.Sign(jwt.Seat{RoomID: created.Code, SeatID: "someone-else"})
	assert.NoError(t, err)
	assertGet(t, ts, base+"/test", &errObj, 403, otherToken)
	assert.Equal(t, "Forbidden", errObj.Message)

	var str string
	assertGet(t, ts, base+"/test", &str, 200, created.Token)
	assert.Equal(t, "OK", str)

	// test using query parameter
	assertGet(t, ts, base+"/test?access_token="+url.QueryEscape(created.Token), &str, 200)
	assert.Equal(t, "OK", str)
}
