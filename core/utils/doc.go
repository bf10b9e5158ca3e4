// Package utils holds loose value conversions.
//
// Endpoint values are persisted as text and converted back to their declared
// data type (integer, boolean, float) with these helpers.
package utils
