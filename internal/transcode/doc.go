// Package transcode invokes ffmpeg to rewrite a sample into the target
// format.
//
// Convert only ever writes to its destination path. It never modifies or
// removes the source, so the caller is free to keep the original on any
// failure; the convert-before-delete discipline lives in the pipeline, not
// here. A zero-byte or missing output counts as a failure even when ffmpeg
// exits cleanly.
package transcode
