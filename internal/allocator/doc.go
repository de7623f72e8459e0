// Package allocator simulates fixed-partition memory allocation. Processes are
// placed into a fixed list of blocks in a single forward pass using First Fit,
// Best Fit or Worst Fit, and every run reports its fragmentation metrics.
package allocator
