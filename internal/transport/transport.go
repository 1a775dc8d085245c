package transport

import (
	"net"

	"relay_pls/internal/http/message"
)

type Transport interface {
	Listen() (net.Listener, error)
	Serve(listener net.Listener) error
}

// Handler serves one accepted connection whose request head has already
// been parsed. Closing the client connection stays with the accepting
// layer.
type Handler interface {
	Serve(conn net.Conn, req *message.Request) error
}

var badRequestResponse = []byte("HTTP/1.1 400 Bad Request\r\n" +
	"Content-Length: 0\r\n" +
	"Connection: close\r\n\r\n")

var notFoundResponse = []byte("HTTP/1.1 404 Not Found\r\n" +
	"Content-Length: 0\r\n" +
	"Connection: close\r\n\r\n")

var methodNotAllowedResponse = []byte("HTTP/1.1 405 Method Not Allowed\r\n" +
	"Allow: GET\r\n" +
	"Content-Length: 0\r\n" +
	"Connection: close\r\n\r\n")

var badGatewayResponse = []byte("HTTP/1.1 502 Bad Gateway\r\n" +
	"Content-Length: 11\r\n" +
	"Content-Type: text/plain\r\n" +
	"Connection: close\r\n\r\n" +
	"Bad Gateway")
