// Package deploy uploads the built site to static hosting.
//
// The only supported target is an S3 bucket (or any S3-compatible
// store). The uploader walks the build output directory and puts every
// file under a configurable key prefix, with content types derived
// from file extensions.
package deploy
