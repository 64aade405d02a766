// Package stream serves forest replays to a browser.
//
// GET / returns a small viewer page. GET /ws?seed=N upgrades to a websocket
// and pushes one [FrameMessage] per replay frame, each carrying the frame
// as SVG, then closes with a normal closure.
package stream
