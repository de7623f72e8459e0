// Package sizes turns free-form text such as "100, 500, 200", "[100, 500]"
// or "100KB 200KB" into validated lists of positive block or process sizes.
package sizes
