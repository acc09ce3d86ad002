package device_test

import (
	"context"
	"fmt"
	"io"

	"github.com/sequenz/fibdev/internal/device"
)

// Example demonstrates the open/seek/read cycle the device exposes.
func Example() {
	dev := device.New(500)

	handle, err := dev.Open()
	if err != nil {
		fmt.Printf("open: %v\n", err)
		return
	}
	defer handle.Close()

	// A second open fails while the handle is held.
	if _, err := dev.Open(); err != nil {
		fmt.Println(err)
	}

	if _, err := handle.Seek(10, io.SeekStart); err != nil {
		fmt.Printf("seek: %v\n", err)
		return
	}

	text, digits, err := handle.Read(context.Background())
	if err != nil {
		fmt.Printf("read: %v\n", err)
		return
	}
	fmt.Printf("F(10) = %s (%d digits)\n", text, digits)
	// Output:
	// device busy
	// F(10) = 55 (2 digits)
}
