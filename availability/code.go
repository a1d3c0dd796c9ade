package availability

import (
	"math/rand/v2"
	"strings"
)

const (
	codePrefix    = "BKD"
	codeAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeRandomLen = 5
)

// GenerateBookingCode menghasilkan kode booking 8 karakter: prefix "BKD" plus
// 5 karakter acak uniform dari alfabet uppercase+digit. Fungsi ini TIDAK
// mengecek keunikan; itu tugas unique index di database plus retry terbatas di
// BookingService.
func GenerateBookingCode() string {
	var sb strings.Builder
	sb.WriteString(codePrefix)
	for i := 0; i < codeRandomLen; i++ {
		sb.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
	}
	return sb.String()
}
