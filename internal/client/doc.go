// Package client speaks the boop line protocol from the client side.
//
// A Client owns one connection. Request methods (Connect, Ping, Ayt,
// Disconnect) are serialized and each waits for its direct reply. Relayed
// BOOP lines and the server's NOT_AVAILABLE notice arrive on Events.
//
//	c, err := client.Dial(ctx, client.Options{Addr: "boop.example:5274", TLS: tlsCfg})
//	if err != nil { ... }
//	defer c.Close()
//	if err := c.Connect(ctx, "alice", "wonderland"); err != nil { ... }
//	c.Boop("bob")
package client
