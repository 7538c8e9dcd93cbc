// Package watch re-reviews a source file each time it is saved.
package watch
