// Package analytics derives aggregate statistics from review history.
package analytics
