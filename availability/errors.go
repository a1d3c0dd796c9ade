package availability

import "errors"

var (
	// ErrInvalidInput menandakan input yang tidak well-formed (jam tidak bisa
	// diparse, durasi <= 0, kapasitas < 1). Tidak pernah di-coerce diam-diam.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAmbiguousState menandakan lebih dari satu booking aktif ditemukan
	// untuk satu meja pada saat render. Dilaporkan, tidak di-resolve otomatis.
	ErrAmbiguousState = errors.New("ambiguous state: multiple active bookings for table")
)
