// Package ble binds the transport interfaces to tinygo.org/x/bluetooth.
//
// The cube aggregator exposes the Nordic UART service: commands are written
// without response to the RX characteristic and readiness notifications
// arrive on the TX characteristic.
package ble
