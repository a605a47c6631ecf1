// Package xbuild cross-compiles a single entry point for a fixed matrix of
// operating systems, architectures and (for a small set of architectures)
// variants, using mvdan.cc/sh to run the build command for each target.
// Every target runs with its own environment so no selector can leak from one
// build into the next.
package xbuild
