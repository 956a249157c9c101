package order_number

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	prefix       = "ORD"
	suffixLength = 6
)

// OrderNumberFactory builds display labels like ORD-1767268800000-3FA9C1.
// Labels are not guaranteed to be unique; the order id is the key.
type OrderNumberFactory struct{}

func New() *OrderNumberFactory {
	return &OrderNumberFactory{}
}

func (f *OrderNumberFactory) New(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLength]
	return prefix + "-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + strings.ToUpper(suffix)
}
