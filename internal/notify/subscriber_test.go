package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tiffinbox/internal/domain"
)

func TestMessageFor(t *testing.T) {
	change := domain.StatusChange{OrderID: "ord-1", OccurredAt: time.Now()}

	change.NewStatus = domain.StatusPreparing
	assert.Equal(t, "your food is being prepared", messageFor(change))

	change.NewStatus = domain.StatusCompleted
	assert.Equal(t, "order delivered, enjoy your meal", messageFor(change))

	change.NewStatus = domain.OrderStatus("SOMETHING_NEW")
	assert.Equal(t, "your order was updated", messageFor(change))
}
