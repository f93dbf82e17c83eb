// Package presence tracks which identity keys are currently connected.
//
// A Registry maps an identity key to the single live Peer authenticated
// as that key. The Registry never owns a Peer: the connection handler
// that created a Peer registers it after authentication and unregisters
// it when the connection ends.
package presence

import (
	"github.com/yndnr/boopmesh/pkg/cmap"
	"github.com/yndnr/boopmesh/pkg/wire"
)

// Peer is the registry's view of a live session.
type Peer interface {
	// ID returns the connection ID, unique for the process lifetime.
	ID() string

	// Deliver hands a reply to the peer's writer without waiting for it
	// to be written. It returns false if the peer could not accept it.
	Deliver(r wire.Reply) bool
}

// Registry is the process-wide presence map.
//
// All methods are safe for concurrent use. Operations on one key are
// serialized by the underlying shard lock.
type Registry struct {
	peers *cmap.Map[string, Peer]
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		peers: cmap.New[string, Peer](),
	}
}

// Register binds key to p if no peer currently holds key.
// It returns false, without changing anything, if key is taken.
func (r *Registry) Register(key string, p Peer) bool {
	return r.peers.SetIfAbsent(key, p)
}

// Unregister removes key only if it is still bound to p.
// A late cleanup from an old session never evicts a newer one.
func (r *Registry) Unregister(key string, p Peer) bool {
	return r.peers.DeleteIf(key, func(current Peer) bool {
		return current == p
	})
}

// Lookup returns the peer bound to key.
func (r *Registry) Lookup(key string) (Peer, bool) {
	return r.peers.Get(key)
}

// Online reports whether key is bound to a live peer.
func (r *Registry) Online(key string) bool {
	return r.peers.Has(key)
}

// Count returns the number of registered keys.
func (r *Registry) Count() int {
	return r.peers.Count()
}
