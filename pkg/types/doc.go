// Package types defines the records, parameter schemas, evaluator and
// measurement interfaces, series types and standard errors shared by the
// corrosim loaders, models and plot engine.
package types
