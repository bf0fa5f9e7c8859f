// Package swarm loads Swarm EFI ion drift passes from disk.
//
// Responsibilities:
//   - read the drift, satellite velocity, position and quality columns of a
//     pass from NetCDF or CSV files
//   - cut a pass down to a time window
//   - mask drift components whose quality flag is below threshold
//
// Key types:
//   - Pass: timestamps, geolocation and a frame.SampleBatch
//   - Reader: implemented by NetCDFReader and CSVReader
package swarm
