// Package filesystem provides implementations of types.FS, all backed by
// afero: NewOS for the real filesystem, NewMemory for in-memory projects in
// tests, and NewAferoFS for any other afero.Fs.
package filesystem
