// Package shutdown runs ordered cleanup hooks when the process is asked
// to stop.
//
// Usage:
//
//	h := shutdown.NewHandler(10*time.Second, logger)
//	h.OnShutdown("boop listener", srv.Shutdown)
//	err := h.Wait(ctx) // returns after SIGINT/SIGTERM and all hooks
package shutdown
