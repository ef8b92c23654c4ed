package instancesrv

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/kernel"
	"github.com/mensajero-app/mensajero/pkg/messaging/instance"
)

type InstanceService struct {
	repo instance.Repository
}

func NewInstanceService(repo instance.Repository) *InstanceService {
	return &InstanceService{repo: repo}
}

type CreateInput struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	WebhookURL string `json:"webhook_url"`
}

type UpdateInput struct {
	Name       *string `json:"name"`
	WebhookURL *string `json:"webhook_url"`
	Status     *string `json:"status"`
}

func (s *InstanceService) Create(ctx context.Context, owner kernel.UserID, tenant kernel.TenantID, in CreateInput) (*instance.Instance, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, instance.ErrInvalidInput("name and phone are required")
	}

	now := time.Now().UTC()
	inst := &instance.Instance{
		ID:         kernel.NewInstanceID(uuid.NewString()),
		UserID:     owner,
		TenantID:   tenant,
		Name:       name,
		Phone:      strings.TrimSpace(in.Phone),
		Status:     instance.StatusDisconnected,
		WebhookURL: in.WebhookURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Save(ctx, inst); err != nil {
		return nil, errx.Wrap(err, "failed to create instance", errx.TypeInternal)
	}
	return inst, nil
}

func (s *InstanceService) List(ctx context.Context, owner kernel.UserID) ([]*instance.Instance, error) {
	return s.repo.FindByUser(ctx, owner)
}

// Get returns the instance only to its owner. A foreign instance surfaces
// as not-found so ids cannot be enumerated across accounts.
func (s *InstanceService) Get(ctx context.Context, owner kernel.UserID, id kernel.InstanceID) (*instance.Instance, error) {
	inst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inst.OwnedBy(owner) {
		return nil, instance.ErrNotFound()
	}
	return inst, nil
}

func (s *InstanceService) Update(ctx context.Context, owner kernel.UserID, id kernel.InstanceID, in UpdateInput) (*instance.Instance, error) {
	inst, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, instance.ErrInvalidInput("name cannot be empty")
		}
		inst.Name = strings.TrimSpace(*in.Name)
	}
	if in.WebhookURL != nil {
		inst.WebhookURL = *in.WebhookURL
	}
	if in.Status != nil {
		switch instance.Status(*in.Status) {
		case instance.StatusDisconnected, instance.StatusConnecting, instance.StatusConnected:
			inst.Status = instance.Status(*in.Status)
		default:
			return nil, instance.ErrInvalidInput("unknown status")
		}
	}
	inst.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, inst); err != nil {
		return nil, errx.Wrap(err, "failed to update instance", errx.TypeInternal)
	}
	return inst, nil
}

func (s *InstanceService) Delete(ctx context.Context, owner kernel.UserID, id kernel.InstanceID) error {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
