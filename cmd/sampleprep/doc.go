// Command sampleprep normalizes audio sample libraries in place: directory
// and file names are rewritten to lowercase underscore form and every
// sample is converted to the configured WAV target format.
package main
