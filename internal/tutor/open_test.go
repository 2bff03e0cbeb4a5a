package tutor

import (
	"context"
	"errors"
	"testing"

	"github.com/example/growtalk/internal/session"
	"github.com/example/growtalk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStartOpensSession(t *testing.T) {
	e := newEnv()
	e.progress.addOpen(1, 1, &models.OpenQuestion{
		Question:  "What would you plant?",
		Objective: "connect the passage to personal experience",
	})

	err := e.d.open.Start(context.Background(), studentID)
	require.NoError(t, err)

	assert.Equal(t, []string{"open-ask:What would you plant?"}, e.notify.sent)
	sess, ok := e.store.Get(studentID, session.TrackOpen)
	require.True(t, ok)
	assert.Equal(t, "What would you plant?", sess.Open.Question)
}

func TestOpenStartExhausted(t *testing.T) {
	e := newEnv()

	err := e.d.open.Start(context.Background(), studentID)
	require.NoError(t, err)

	assert.Equal(t, []string{msgOpenAllDone}, e.notify.sent)
	_, ok := e.store.Get(studentID, session.TrackOpen)
	assert.False(t, ok)
}

func TestOpenIrrelevantReplyKeepsSession(t *testing.T) {
	e := newEnv()
	e.progress.addOpen(1, 1, &models.OpenQuestion{Question: "What would you plant?"})
	ctx := context.Background()

	require.NoError(t, e.d.open.Start(ctx, studentID))
	e.judge.relevant = false

	require.NoError(t, e.d.open.HandleReply(ctx, studentID, "I like football"))

	assert.Equal(t, msgOpenRedirect, e.notify.sent[1])
	_, ok := e.store.Get(studentID, session.TrackOpen)
	assert.True(t, ok)
	assert.Equal(t, 0, e.countEvents("advance:open"))
}

func TestOpenRelevantReplyAdvancesAndChains(t *testing.T) {
	e := newEnv()
	e.progress.addOpen(1, 1, &models.OpenQuestion{
		Question:  "What would you plant?",
		Objective: "connect to experience",
	})
	e.progress.addOpen(1, 2, &models.OpenQuestion{
		Question:  "How do plants make you feel?",
		Objective: "express feelings",
	})
	ctx := context.Background()

	require.NoError(t, e.d.open.Start(ctx, studentID))
	e.judge.relevant = true
	require.NoError(t, e.d.open.HandleReply(ctx, studentID, "I would plant tomatoes"))

	assert.Equal(t, []string{
		"open-ask:What would you plant?",
		"open-reply:connect to experience",
		"open-ask:How do plants make you feel?",
	}, e.notify.sent)
	assert.Equal(t, 1, e.countEvents("advance:open"))
}

func TestOpenReplyFallsBackWhenJudgeFails(t *testing.T) {
	e := newEnv()
	e.progress.addOpen(1, 1, &models.OpenQuestion{Question: "What would you plant?"})
	ctx := context.Background()

	require.NoError(t, e.d.open.Start(ctx, studentID))
	e.judge.relevant = true
	e.judge.generErr = errors.New("judge unavailable")

	require.NoError(t, e.d.open.HandleReply(ctx, studentID, "tomatoes"))

	// canned acknowledgement, progress still committed
	assert.Equal(t, msgOpenReplyFallback, e.notify.sent[1])
	assert.Equal(t, msgOpenAllDone, e.notify.sent[2])
	assert.Equal(t, 1, e.countEvents("advance:open"))
	_, ok := e.store.Get(studentID, session.TrackOpen)
	assert.False(t, ok)
}

func TestOpenReplyWithoutSession(t *testing.T) {
	e := newEnv()

	err := e.d.open.HandleReply(context.Background(), studentID, "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{msgOpenReenter}, e.notify.sent)
}
