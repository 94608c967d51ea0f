// Package connection paces repeated attempts to find the cube aggregator.
//
// Scanning for an advertised name fails routinely while the aggregator is
// still booting or out of range, so scans are retried with exponential
// backoff:
//
//  1. Initial delay: 500 milliseconds
//  2. Exponential increase: 1s, 2s, 4s, 8s
//  3. Maximum delay: 10 seconds
//  4. Continue at 10s until the context ends
//
// Jitter spreads retries of several controllers sharing one radio:
//
//	actual_delay = base_delay + random(0, base_delay * 0.25)
//
// Only discovery is retried. Command writes are single attempt.
package connection
