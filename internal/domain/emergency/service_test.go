package emergency_test

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrcore/internal/domain/apperr"
	"hrcore/internal/domain/emergency"
	"hrcore/internal/domain/onboarding"
	"hrcore/internal/platform/clock"
	"hrcore/internal/platform/lock"
	"hrcore/internal/storage/memory"
)

const (
	tenant   = "tenant-1"
	employee = "emp-1"
	actor    = "user-1"
)

func newService(t *testing.T) *emergency.Service {
	t.Helper()
	store := memory.New()
	_, err := store.SaveEmployee(context.Background(), tenant, onboarding.Employee{ID: employee})
	require.NoError(t, err)
	clk := &clock.Fixed{T: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	return emergency.NewService(store, lock.NewKeyedMutex(), clk, nil)
}

func contact(name string) emergency.Request {
	return emergency.Request{
		FullName:     name,
		Relationship: emergency.RelationshipSibling,
		PrimaryPhone: "+1 (555) 010-2000",
	}
}

func add(t *testing.T, svc *emergency.Service, name string, priority int) emergency.Contact {
	t.Helper()
	req := contact(name)
	req.Priority = priority
	c, err := svc.Add(context.Background(), tenant, employee, req, actor)
	require.NoError(t, err)
	return c
}

// assertDense checks priorities are 1..N with exactly the first primary,
// and returns the names in priority order.
func assertDense(t *testing.T, svc *emergency.Service) []string {
	t.Helper()
	list, err := svc.List(context.Background(), tenant, employee)
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, c := range list {
		assert.Equal(t, i+1, c.Priority)
		assert.Equal(t, i == 0, c.IsPrimary, "contact %s", c.FullName)
		names[i] = c.FullName
	}
	return names
}

func TestAddAppendsAndFirstIsPrimary(t *testing.T) {
	svc := newService(t)
	a := add(t, svc, "Ann", 0)
	b := add(t, svc, "Bob", 0)

	assert.Equal(t, 1, a.Priority)
	assert.True(t, a.IsPrimary)
	assert.Equal(t, 2, b.Priority)
	assert.False(t, b.IsPrimary)
	assert.Equal(t, []string{"Ann", "Bob"}, assertDense(t, svc))
}

func TestAddWithPriorityShiftsOthers(t *testing.T) {
	svc := newService(t)
	add(t, svc, "Ann", 0)
	add(t, svc, "Bob", 0)
	cid := add(t, svc, "Cid", 1)

	assert.True(t, cid.IsPrimary)
	assert.Equal(t, []string{"Cid", "Ann", "Bob"}, assertDense(t, svc))

	add(t, svc, "Dee", 99)
	assert.Equal(t, []string{"Cid", "Ann", "Bob", "Dee"}, assertDense(t, svc))
}

func TestDeleteRenumbersAndKeepsFloor(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	ann := add(t, svc, "Ann", 0)
	bob := add(t, svc, "Bob", 0)
	add(t, svc, "Cid", 0)

	require.NoError(t, svc.Delete(ctx, tenant, employee, ann.ID, actor))
	assert.Equal(t, []string{"Bob", "Cid"}, assertDense(t, svc))

	require.NoError(t, svc.Delete(ctx, tenant, employee, bob.ID, actor))
	names := assertDense(t, svc)
	require.Equal(t, []string{"Cid"}, names)

	list, err := svc.List(ctx, tenant, employee)
	require.NoError(t, err)
	err = svc.Delete(ctx, tenant, employee, list[0].ID, actor)
	require.ErrorIs(t, err, emergency.ErrMinimumContacts)
	assert.True(t, apperr.IsKind(err, apperr.KindInvariant))
}

func TestReorderAndSetPrimary(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	ann := add(t, svc, "Ann", 0)
	bob := add(t, svc, "Bob", 0)
	cid := add(t, svc, "Cid", 0)

	_, err := svc.Reorder(ctx, tenant, employee, []string{cid.ID, ann.ID, bob.ID}, actor)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cid", "Ann", "Bob"}, assertDense(t, svc))

	primary, err := svc.SetPrimary(ctx, tenant, employee, bob.ID, actor)
	require.NoError(t, err)
	assert.True(t, primary.IsPrimary)
	assert.Equal(t, []string{"Bob", "Cid", "Ann"}, assertDense(t, svc))

	_, err = svc.Reorder(ctx, tenant, employee, []string{cid.ID, ann.ID}, actor)
	assert.ErrorIs(t, err, emergency.ErrReorderMismatch)
	_, err = svc.Reorder(ctx, tenant, employee, []string{cid.ID, cid.ID, ann.ID}, actor)
	assert.ErrorIs(t, err, emergency.ErrReorderMismatch)
}

func TestUpdateMovesPriority(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	add(t, svc, "Ann", 0)
	add(t, svc, "Bob", 0)
	cid := add(t, svc, "Cid", 0)

	req := contact("Cid Jr")
	req.Priority = 1
	updated, err := svc.Update(ctx, tenant, employee, cid.ID, req, actor)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Priority)
	assert.Equal(t, "Cid Jr", updated.FullName)
	assert.Equal(t, []string{"Cid Jr", "Ann", "Bob"}, assertDense(t, svc))

	req.Priority = 0
	req.FullName = "Cid"
	_, err = svc.Update(ctx, tenant, employee, cid.ID, req, actor)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cid", "Ann", "Bob"}, assertDense(t, svc))
}

func TestRandomOperationsKeepDenseSequence(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	add(t, svc, "seed", 0)

	for i := 0; i < 60; i++ {
		list, err := svc.List(ctx, tenant, employee)
		require.NoError(t, err)
		switch rng.Intn(3) {
		case 0:
			add(t, svc, fmt.Sprintf("c%d", i), rng.Intn(len(list)+2))
		case 1:
			err := svc.Delete(ctx, tenant, employee, list[rng.Intn(len(list))].ID, actor)
			if len(list) == 1 {
				assert.ErrorIs(t, err, emergency.ErrMinimumContacts)
			} else {
				assert.NoError(t, err)
			}
		case 2:
			_, err := svc.SetPrimary(ctx, tenant, employee, list[rng.Intn(len(list))].ID, actor)
			assert.NoError(t, err)
		}
		assertDense(t, svc)
	}
}

func TestConcurrentDeletesRespectFloor(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a := add(t, svc, "Ann", 0)
	b := add(t, svc, "Bob", 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{a.ID, b.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = svc.Delete(ctx, tenant, employee, id, actor)
		}(i, id)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, emergency.ErrMinimumContacts)
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.Len(t, assertDense(t, svc), 1)
}

func TestValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		edit  func(*emergency.Request)
		field string
	}{
		{"missing name", func(r *emergency.Request) { r.FullName = "" }, "fullName"},
		{"bad relationship", func(r *emergency.Request) { r.Relationship = "COWORKER" }, "relationship"},
		{"other without detail", func(r *emergency.Request) { r.Relationship = emergency.RelationshipOther }, "relationshipOther"},
		{"missing phone", func(r *emergency.Request) { r.PrimaryPhone = "" }, "primaryPhone"},
		{"letters in phone", func(r *emergency.Request) { r.PrimaryPhone = "555-CALL-NOW" }, "primaryPhone"},
		{"short phone", func(r *emergency.Request) { r.PrimaryPhone = "12345" }, "primaryPhone"},
		{"bad secondary", func(r *emergency.Request) { r.SecondaryPhone = "x" }, "secondaryPhone"},
		{"bad email", func(r *emergency.Request) { r.Email = "not-an-email" }, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := contact("Ann")
			tt.edit(&req)
			_, err := svc.Add(ctx, tenant, employee, req, actor)
			var e *apperr.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, apperr.KindValidation, e.Kind)
			assert.Equal(t, tt.field, e.Field)
		})
	}

	req := contact("Ann")
	req.Relationship = emergency.RelationshipOther
	req.RelationshipOther = "Godparent"
	c, err := svc.Add(ctx, tenant, employee, req, actor)
	require.NoError(t, err)
	assert.Equal(t, "Godparent", c.RelationshipOther)
}
