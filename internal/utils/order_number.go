package utils

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"
)

const OrderNumberPrefix = "ORD"

// GenerateOrderNumber returns ORD + yyyyMMddHHmmss + a 3 digit random suffix.
// It is safe for concurrent use.
func GenerateOrderNumber() string {
	return generateOrderNumber(time.Now(), rand.Reader)
}

func generateOrderNumber(now time.Time, random io.Reader) string {
	n, err := rand.Int(random, big.NewInt(1000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(now.UnixNano() % 1000)
	}

	return fmt.Sprintf("%s%s%03d", OrderNumberPrefix, now.Format("20060102150405"), n.Int64())
}
