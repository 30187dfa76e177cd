package orders

import (
	"strconv"
	"strings"
	"time"

	"github.com/lucsky/cuid"
)

const idPrefix = "ORD"

// IDGenerator produces order ids of the form ORD + the low 8 digits of the
// epoch millisecond clock + 4 random alphanumerics.
type IDGenerator func(now time.Time) string

// NewOrderID is the default IDGenerator. The suffix comes from the random
// block at the end of a cuid, upper-cased.
func NewOrderID(now time.Time) string {
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	c := cuid.New()
	suffix := strings.ToUpper(c[len(c)-4:])
	return idPrefix + millis + suffix
}
