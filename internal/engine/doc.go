// Package engine holds the comparison and ranking logic for evaluated accreditation batches.
//
// Everything here is a pure transformation over values already fetched from the batch
// registry: eligibility checks, the KPI comparison matrix, category winners, weighted
// ranking, strength/weakness classification, year-over-year trends and the linear
// forecast. Functions take their configuration as an explicit Settings value and keep no
// package-level mutable state, so concurrent requests never interact.
//
// Missing KPI values are carried as nil pointers end to end. A nil never takes part in a
// maximum, minimum, mean or regression, and is never replaced by zero.
package engine
