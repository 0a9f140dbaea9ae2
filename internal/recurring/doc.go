// Package recurring detects recurring payments (subscriptions) in a snapshot of
// expense transactions.
//
// Detection is a single pass over the snapshot:
//
//  1. keep expenses inside the trailing window,
//  2. group them greedily by approximate amount around a fixed seed,
//  3. drop groups that occur too rarely,
//  4. classify the spacing of each group's dates,
//  5. score confidence from count, rhythm and memo keywords,
//  6. build display candidates and rank them.
//
// Nothing is cached between calls, so identical input always yields identical
// output and a Detector is safe for concurrent use.
package recurring
