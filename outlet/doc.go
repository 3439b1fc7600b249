// Package outlet bridges a bifurcx.Graph to a renderer.
//
// Points arrive far faster than a display can repaint, so the outlet only
// forwards them to the renderer's incremental Plot entry point and raises a
// dirty flag. A fixed-rate frame loop, tied to the display refresh, asks for
// a full Redraw when the flag is set or while the graph is still running.
//
// # Example Usage
//
//	out := outlet.New(renderer, outlet.Config{})
//	g := bifurcx.NewGraph(bifurcx.WithObserver(out))
//	run, err := g.Start(ctx, settings)
//
// # Lifecycle
//
//	Idle -> Running -> Stopping -> Idle
//
// Running is entered only through Started; a Started while Running first
// passes through Stopping. Stopped halts the loop and performs one final
// conditional frame so pending points are not lost.
package outlet
