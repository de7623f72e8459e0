// Package report turns allocation results into comparison rows, flat block and
// process rows, CSV exports and terminal tables.
package report
