// Package app is the application layer. Service is the only component that
// references multiple domain collaborators; it orchestrates every use case the
// HTTP handlers expose.
package app
