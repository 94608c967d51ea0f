package ble

import "tinygo.org/x/bluetooth"

var (
	// ServiceUUID is the Nordic UART service.
	ServiceUUID = must(bluetooth.ParseUUID("6e400001-b5a3-f393-e0a9-e50e24dcca9e"))

	// RXCharacteristicUUID receives commands from the controller.
	RXCharacteristicUUID = must(bluetooth.ParseUUID("6e400002-b5a3-f393-e0a9-e50e24dcca9e"))

	// TXCharacteristicUUID carries notifications to the controller.
	TXCharacteristicUUID = must(bluetooth.ParseUUID("6e400003-b5a3-f393-e0a9-e50e24dcca9e"))
)

func must[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}
