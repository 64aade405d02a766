// Package render replays a grown forest as an animation.
//
// A [Plan] decides what is visible in each frame: frame k of n shows the
// first floor(k/(n-1) * total) segments in emission order, plus every
// terminal whose leading segment is already drawn. Because the forest is
// grown once up front, every frame is a prefix of the same sequence.
//
// [Rasterizer] turns a [Frame] into an anti-aliased RGBA image and
// [EncodeGIF] packs a run of frames into a looping GIF.
package render
