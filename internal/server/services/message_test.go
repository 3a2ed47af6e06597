package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContent(t *testing.T) {
	got, err := ValidateContent("   hello there friend   ")
	require.NoError(t, err)
	assert.Equal(t, "hello there friend", got)

	_, err = ValidateContent("too short")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = ValidateContent(strings.Repeat("x", 301))
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = ValidateContent(strings.Repeat("ж", 300))
	assert.NoError(t, err, "length counts characters, not bytes")
}

func TestSend_AppendsExactlyOneMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerVerified(t, "alice", "hunter22")

	before := time.Now().UTC()
	m, err := f.messages.Send(ctx, "alice", "what is your favourite book?")
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.CreatedAt.Before(before))

	list, err := f.messages.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, m.ID, list[0].ID)
	assert.Equal(t, "what is your favourite book?", list[0].Content)

	m2, err := f.messages.Send(ctx, "alice", "another anonymous note")
	require.NoError(t, err)
	assert.NotEqual(t, m.ID, m2.ID)
}

func TestSend_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerVerified(t, "alice", "hunter22")

	_, err := f.messages.Send(ctx, "ghost", "hello there friend")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = f.messages.Send(ctx, "alice", "short")
	assert.ErrorIs(t, err, common.ErrorValidation)

	require.NoError(t, f.messages.SetAcceptingMessages(ctx, alice.ID, false))
	_, err = f.messages.Send(ctx, "alice", "hello there friend")
	assert.ErrorIs(t, err, common.ErrNotAcceptingMessages)

	list, err := f.messages.List(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerVerified(t, "alice", "hunter22")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, content := range []string{"first message!", "second message", "third message!"} {
		at := base.Add(time.Duration(i) * time.Minute)
		f.messages.now = func() time.Time { return at }
		_, err := f.messages.Send(ctx, "alice", content)
		require.NoError(t, err)
	}

	list, err := f.messages.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third message!", list[0].Content)
	assert.Equal(t, "first message!", list[2].Content)
}

func TestAcceptToggle_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.registerVerified(t, "alice", "hunter22")
	_, err := f.messages.Send(ctx, "alice", "hello there friend")
	require.NoError(t, err)

	require.NoError(t, f.messages.SetAcceptingMessages(ctx, alice.ID, true))
	require.NoError(t, f.messages.SetAcceptingMessages(ctx, alice.ID, true))

	on, err := f.messages.GetAcceptingMessages(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, on)

	list, err := f.messages.List(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.messages.SetAcceptingMessages(ctx, alice.ID, false))
	on, err = f.messages.GetAcceptingMessages(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestDelete_OwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.registerVerified(t, "alice", "hunter22")
	b := f.registerVerified(t, "bob", "hunter22")

	m1, err := f.messages.Send(ctx, "alice", "message for alice")
	require.NoError(t, err)
	m2, err := f.messages.Send(ctx, "bob", "message for bob!")
	require.NoError(t, err)

	assert.ErrorIs(t, f.messages.Delete(ctx, a.ID, m2.ID), common.ErrorNotFound)
	assert.ErrorIs(t, f.messages.Delete(ctx, a.ID, "garbage"), common.ErrInvalidID)

	bobs, err := f.messages.List(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, m2.ID, bobs[0].ID)

	require.NoError(t, f.messages.Delete(ctx, a.ID, m1.ID))
	assert.ErrorIs(t, f.messages.Delete(ctx, a.ID, m1.ID), common.ErrorNotFound)
}
