// file: internals/helpers/pincode.go
package helper

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GeneratePinCode menghasilkan PIN numerik 6 digit (string, boleh leading
// zero). Dipakai untuk student fee entries.
func GeneratePinCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		// crypto/rand hampir tidak pernah gagal; fallback nol supaya caller
		// tidak perlu menangani error di hot path.
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}
