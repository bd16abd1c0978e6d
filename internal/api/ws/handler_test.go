package ws

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/calculator/internal/calculator"
	"github.com/GriffinCanCode/calculator/internal/testutil"
)

func dial(t *testing.T, checker calculator.PermissionChecker) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/calc/stream", NewHandler(calculator.New(checker), nil, nil).HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/calc/stream", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var hello map[string]interface{}
	require.NoError(t, conn.ReadJSON(&hello))
	require.Equal(t, "system", hello["type"])
	require.True(t, strings.HasPrefix(hello["session"].(string), "req_"))
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg string) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
	var reply map[string]interface{}
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestCalculate(t *testing.T) {
	conn := dial(t, testutil.AllowAll{})

	reply := roundTrip(t, conn, `{"type":"calculate","id":"1","operation":"add","operands":[2,2]}`)
	assert.Equal(t, "result", reply["type"])
	assert.Equal(t, "1", reply["id"])
	assert.Equal(t, "4", reply["text"])
	assert.Equal(t, float64(4), reply["result"])

	reply = roundTrip(t, conn, `{"type":"calculate","id":"2","operation":"divide","operands":[6,2]}`)
	assert.Equal(t, "3.0", reply["text"])

	reply = roundTrip(t, conn, `{"type":"calculate","id":"3","operation":"substract","operands":[5,3]}`)
	assert.Equal(t, "2", reply["text"])
}

func TestCalculateErrors(t *testing.T) {
	conn := dial(t, testutil.DenyAll{})

	tests := []struct {
		msg  string
		kind string
	}{
		{`{"type":"calculate","id":"a","operation":"divide","operands":[1,0]}`, "domain"},
		{`{"type":"calculate","id":"b","operation":"add","operands":["abc",2]}`, "invalid_operand"},
		{`{"type":"calculate","id":"c","operation":"multiply","operands":[2,3]}`, "permission_denied"},
		{`{"type":"calculate","id":"d","operation":"modulo","operands":[2,3]}`, "unknown_operation"},
		{`{"type":"dance"}`, "invalid_request"},
		{`not json`, "invalid_request"},
	}

	for _, tt := range tests {
		reply := roundTrip(t, conn, tt.msg)
		assert.Equal(t, "error", reply["type"], tt.msg)
		assert.Equal(t, tt.kind, reply["kind"], tt.msg)
	}
}

func TestPingAndOperations(t *testing.T) {
	conn := dial(t, testutil.AllowAll{})

	reply := roundTrip(t, conn, `{"type":"ping","id":"p"}`)
	assert.Equal(t, "pong", reply["type"])
	assert.Equal(t, "p", reply["id"])

	reply = roundTrip(t, conn, `{"type":"operations"}`)
	assert.Equal(t, "operations", reply["type"])
	assert.Len(t, reply["operations"], 7)
}
