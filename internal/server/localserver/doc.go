// Package localserver serves RESP on a Unix domain socket.
//
// The local listener shares the dispatcher, and therefore the keyspace,
// with the TCP listener. Access is controlled by file system permissions
// on the socket, which is created with mode 0600.
package localserver
