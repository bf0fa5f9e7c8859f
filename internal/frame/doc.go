// Package frame rotates Swarm EFI cross-track ion-drift measurements from the
// instrument frame into local East-North-Up coordinates.
//
// Responsibilities: ram-direction normalisation, per-sample rotation matrix
// construction, batched matrix-vector products, line-of-sight and
// cross-track projections.
// Key types: SampleBatch, Result.
//
// Every sample is independent. A degenerate or quality-flagged sample only
// ever invalidates its own outputs; a length mismatch between input columns
// fails the whole batch before any arithmetic runs.
//
// No file I/O or plotting is allowed in this package.
package frame
