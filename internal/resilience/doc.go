// Package resilience groups fault tolerance helpers. The circuitbreaker
// subpackage guards the object store hand-off and database calls.
//
//	cb := circuitbreaker.New(circuitbreaker.ObjectStoreConfig())
//	err := cb.Run(func() error {
//	    return store.Put(ctx, key, body, contentType)
//	})
package resilience
