package checkoutmanual

import (
	"fmt"
	"math/rand"
)

// OrderNumberer hands out the short order numbers that act as both
// session id and order reference for the manual variant. They must be
// easy to read back over a chat channel, hence four digits.
//
//go:generate mockgen -source=numberer.go -package checkoutmanual -destination numberer_mock.go OrderNumberer
type OrderNumberer interface {
	Create() string
}

type RandomNumberer struct{}

func (n RandomNumberer) Create() string {
	return fmt.Sprintf("%d", 1000+rand.Intn(9000))
}
