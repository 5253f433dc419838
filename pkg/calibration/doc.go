// Package calibration owns the fitted models for one set of observations. It
// contains:
//
//   - Service: fits both models, caches the result, evaluates on demand
//   - Model and Direction: selectors for Service.Evaluate
//   - Status: a view model of the cached result returned by HTTP APIs
//   - Document: the coefficient export layout
//
// These types are shared across daemon, client and CLI code to keep JSON
// contracts consistent.
package calibration
