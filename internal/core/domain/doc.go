// Package domain holds the value types that flow through a grounded query.
//
// A document arrives as an UploadResult whose text carries "Page N:" labels.
// It is cut into Pages, a question over it travels as a QueryRequest, and
// the model's reply comes back as an Answer with an optional Citation. Each
// answered question is kept as an Exchange.
//
// Failures are typed: ValidationError rejects a request before any model
// call, GenerationError wraps the model call, and PersistenceError reports
// an answer that could not be saved. Callers match them with errors.Is and
// errors.As.
//
// The package imports only the standard library.
package domain
