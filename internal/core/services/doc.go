// Package services answers questions about document text.
//
// A question runs segment, window, assemble, generate, resolve and persist
// in that order. The caller passes the labeled document text with every
// question, so nothing about a document is cached between calls. Only the
// exchange history is stored, keyed by session.
package services
