// Package ws serves calculator operations over a WebSocket.
//
// Message Types (Client → Server):
//   - calculate: {"type":"calculate","id":"1","operation":"add","operands":[2,3]}
//   - operations: request the catalog
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - system: greeting sent on connect
//   - result: operation result, echoing the request id
//   - operations: the catalog
//   - pong
//   - error: carries kind and message
//
// Example Usage:
//
//	handler := ws.NewHandler(calc, metrics, logger)
//	router.GET("/calc/stream", handler.HandleConnection)
package ws
