package codec

import (
	"encoding/binary"
	"sync"
	"unsafe"
)

var (
	probeOnce    sync.Once
	littleEndian bool
)

// probe stores 0x01020304 and looks at the byte at the lowest address.
func probe() {
	x := uint32(0x01020304)
	littleEndian = *(*byte)(unsafe.Pointer(&x)) == 0x04
}

// IsLittleEndian reports the host byte order. The probe runs once.
func IsLittleEndian() bool {
	probeOnce.Do(probe)
	return littleEndian
}

// NativeByteOrder returns the byte order used by buffer views.
func NativeByteOrder() binary.ByteOrder {
	if IsLittleEndian() {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// ByteOrderName returns "little" or "big".
func ByteOrderName() string {
	if IsLittleEndian() {
		return "little"
	}
	return "big"
}
