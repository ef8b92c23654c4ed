package instancesrv_test

import (
	"context"
	"testing"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/kernel"
	"github.com/mensajero-app/mensajero/pkg/messaging/instance"
	"github.com/mensajero-app/mensajero/pkg/messaging/instance/instancesrv"
	"github.com/mensajero-app/mensajero/pkg/ptrx"
)

func newService() *instancesrv.InstanceService {
	return instancesrv.NewInstanceService(newMemoryRepo())
}

func create(t *testing.T, svc *instancesrv.InstanceService, owner string) *instance.Instance {
	t.Helper()
	inst, err := svc.Create(context.Background(), kernel.NewUserID(owner), kernel.NewTenantID("t1"), instancesrv.CreateInput{
		Name:  "main line",
		Phone: "+51999999999",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return inst
}

func TestCreateDefaultsToDisconnected(t *testing.T) {
	svc := newService()
	inst := create(t, svc, "owner-1")

	if inst.Status != instance.StatusDisconnected {
		t.Errorf("new instance should start disconnected, got %q", inst.Status)
	}
	if inst.ID.IsEmpty() {
		t.Error("instance id should be assigned")
	}
}

func TestCreateRequiresNameAndPhone(t *testing.T) {
	svc := newService()

	_, err := svc.Create(context.Background(), kernel.NewUserID("owner-1"), kernel.NewTenantID("t1"), instancesrv.CreateInput{
		Name: "  ",
	})
	if !errx.HasCode(err, instance.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestGetForeignInstanceIsNotFound(t *testing.T) {
	svc := newService()
	inst := create(t, svc, "owner-1")

	if _, err := svc.Get(context.Background(), kernel.NewUserID("stranger"), inst.ID); !instance.IsNotFound(err) {
		t.Fatalf("foreign instance should be NOT_FOUND, got %v", err)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	svc := newService()
	inst := create(t, svc, "owner-1")
	owner := kernel.NewUserID("owner-1")

	updated, err := svc.Update(context.Background(), owner, inst.ID, instancesrv.UpdateInput{
		Status: ptrx.Ptr(string(instance.StatusConnected)),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != instance.StatusConnected {
		t.Errorf("status not applied: %q", updated.Status)
	}

	if _, err := svc.Update(context.Background(), owner, inst.ID, instancesrv.UpdateInput{Status: ptrx.Ptr("teleporting")}); !errx.HasCode(err, instance.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for unknown status, got %v", err)
	}
}

func TestDeleteForeignInstance(t *testing.T) {
	svc := newService()
	inst := create(t, svc, "owner-1")

	if err := svc.Delete(context.Background(), kernel.NewUserID("stranger"), inst.ID); !instance.IsNotFound(err) {
		t.Fatalf("foreign delete should be NOT_FOUND, got %v", err)
	}
	if err := svc.Delete(context.Background(), kernel.NewUserID("owner-1"), inst.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), kernel.NewUserID("owner-1"), inst.ID); !instance.IsNotFound(err) {
		t.Fatalf("deleted instance should be NOT_FOUND, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Test double
// ---------------------------------------------------------------------------

type memoryRepo struct {
	byID map[kernel.InstanceID]*instance.Instance
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[kernel.InstanceID]*instance.Instance)}
}

func (r *memoryRepo) Save(ctx context.Context, i *instance.Instance) error {
	copied := *i
	r.byID[i.ID] = &copied
	return nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id kernel.InstanceID) (*instance.Instance, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, instance.ErrNotFound()
	}
	copied := *i
	return &copied, nil
}

func (r *memoryRepo) FindByUser(ctx context.Context, userID kernel.UserID) ([]*instance.Instance, error) {
	var out []*instance.Instance
	for _, i := range r.byID {
		if i.UserID == userID {
			copied := *i
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id kernel.InstanceID) error {
	if _, ok := r.byID[id]; !ok {
		return instance.ErrNotFound()
	}
	delete(r.byID, id)
	return nil
}
