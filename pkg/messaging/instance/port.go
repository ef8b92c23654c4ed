package instance

import (
	"context"

	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// Repository persists instances. Plain CRUD; ownership rules live in the
// service layer.
type Repository interface {
	Save(ctx context.Context, i *Instance) error
	FindByID(ctx context.Context, id kernel.InstanceID) (*Instance, error)
	FindByUser(ctx context.Context, userID kernel.UserID) ([]*Instance, error)
	Delete(ctx context.Context, id kernel.InstanceID) error
}
