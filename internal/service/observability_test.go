package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/sentinelsec/sentinel/internal/repository"
	"github.com/sentinelsec/sentinel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureObserver struct {
	events []MutationEvent
}

func (c *captureObserver) ObserveMutation(_ context.Context, event MutationEvent) {
	c.events = append(c.events, event)
}

func TestMutationObserver_ReceivesEventsPerMutation(t *testing.T) {
	capture := &captureObserver{}
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteWorkgroupRepo(db)
	svc := NewWorkgroupService(repo, testutil.NewTestUoW(db), capture)
	ctx := context.Background()

	eng, err := svc.CreateRoot(ctx, CreateWorkgroupRequest{Name: "Engineering", ActorID: "alice"})
	require.NoError(t, err)
	backend, err := svc.CreateChild(ctx, eng.ID, CreateWorkgroupRequest{Name: "Backend", ActorID: "alice"})
	require.NoError(t, err)

	name := "Core"
	_, err = svc.Update(ctx, UpdateWorkgroupRequest{ID: backend.ID, ExpectedVersion: 0, Name: &name, ActorID: "bob"})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, eng.ID, "carol")
	require.NoError(t, err)

	require.Len(t, capture.events, 4)

	assert.Equal(t, "workgroup.create", capture.events[0].Operation)
	assert.Equal(t, "alice", capture.events[0].ActorID)
	assert.True(t, capture.events[0].Success)

	assert.Equal(t, "workgroup.update", capture.events[2].Operation)
	assert.Equal(t, "bob", capture.events[2].ActorID)

	del := capture.events[3]
	assert.Equal(t, "workgroup.delete", del.Operation)
	assert.Equal(t, "carol", del.ActorID)
	assert.Equal(t, eng.ID, del.WorkgroupID)
	assert.Equal(t, 1, del.Fields["children_promoted"])
}

func TestMutationObserver_FailureEventsCarryError(t *testing.T) {
	capture := &captureObserver{}
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteWorkgroupRepo(db)
	svc := NewWorkgroupService(repo, testutil.NewTestUoW(db), capture)
	ctx := context.Background()

	_, err := svc.CreateRoot(ctx, CreateWorkgroupRequest{Name: "Engineering", ActorID: "alice"})
	require.NoError(t, err)
	_, err = svc.CreateRoot(ctx, CreateWorkgroupRequest{Name: "engineering", ActorID: "mallory"})
	require.Error(t, err)

	require.Len(t, capture.events, 2)
	failed := capture.events[1]
	assert.False(t, failed.Success)
	require.Error(t, failed.Err)
	assert.Equal(t, "mallory", failed.ActorID)
}

func TestLogMutationObserver_WritesStructuredEvents(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogMutationObserver(&buf)

	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteWorkgroupRepo(db)
	svc := NewWorkgroupService(repo, testutil.NewTestUoW(db), obs)

	_, err := svc.CreateRoot(context.Background(), CreateWorkgroupRequest{Name: "Engineering", ActorID: "alice"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "workgroup_mutation")
	assert.Contains(t, out, "operation=workgroup.create")
	assert.Contains(t, out, "actor_id=alice")
	assert.Contains(t, out, "success=true")
}

func TestLogMutationObserver_NilWriterIsNoop(t *testing.T) {
	obs := NewLogMutationObserver(nil)
	assert.IsType(t, NoopMutationObserver{}, obs)
}
