// Package mandel renders Mandelbrot zoom sequences.
//
// [Escape] computes a smooth escape count per point, [Render] fills an image
// row band by row band on several goroutines, and [Zoom] produces a frame
// sequence that shrinks the view geometrically toward a fixed centre.
package mandel
