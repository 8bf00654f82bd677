// Package validation validates request data.
//
// It uses go-playground/validator struct tags and converts failures into
// per-field errors the frontend can render next to form inputs.
package validation
