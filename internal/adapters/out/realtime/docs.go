// Package realtime fans committed order snapshots out to live connections.
//
// A Hub is created at startup and closed at shutdown. Connections register as
// Clients and subscribe explicitly by joining an identity id; a client that
// never joins receives nothing. Each client owns a bounded send queue drained
// by exactly one writer, so messages reach a connection in publish order.
// Sends never block: a full queue drops the message.
//
// The hub remembers the last published version of every order and discards a
// snapshot that is not newer, so no subscriber sees an order go backwards.
//
// Events:
//
//	{"event":"orderUpdate","data":<order>}       buyer and seller channels
//	{"event":"adminOrderUpdate","data":<order>}  every joined admin
//	{"event":"error","data":"<message>"}         to one client
package realtime
