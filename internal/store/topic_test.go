package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveTopicIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	repo := s.TopicRepo()
	ctx := context.Background()

	id1, err := repo.Save(ctx, "u1", "Roman Empire")
	require.NoError(t, err)
	id2, err := repo.Save(ctx, "u1", "Roman Empire")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	topics, err := repo.ForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.False(t, topics[0].IsFavourite)
	assert.Empty(t, topics[0].Questions)
}

func TestSaveTopicScopedByUser(t *testing.T) {
	s := openTestStore(t)
	repo := s.TopicRepo()
	ctx := context.Background()

	a, err := repo.Save(ctx, "alice", "Go")
	require.NoError(t, err)
	b, err := repo.Save(ctx, "bob", "Go")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	got, err := repo.ByName(ctx, "bob", "Go")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b, got.ID)

	missing, err := repo.ByName(ctx, "carol", "Go")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaveTopicRejectsEmptyName(t *testing.T) {
	s := openTestStore(t)
	_, err := s.TopicRepo().Save(context.Background(), "u1", "   ")
	var pe *PersistenceError
	assert.True(t, errors.As(err, &pe))
}

func TestAddQuestionsUnion(t *testing.T) {
	s := openTestStore(t)
	repo := s.TopicRepo()
	ctx := context.Background()

	id, err := repo.Save(ctx, "u1", "Biology")
	require.NoError(t, err)

	require.NoError(t, repo.AddQuestions(ctx, "u1", id, []string{"What is DNA?", "What is RNA?"}))
	require.NoError(t, repo.AddQuestions(ctx, "u1", id, []string{"What is RNA?", "What is a cell?"}))

	topic, err := repo.ByName(ctx, "u1", "Biology")
	require.NoError(t, err)
	assert.Equal(t, []string{"What is DNA?", "What is RNA?", "What is a cell?"}, topic.Questions)
}

func TestAddQuestionsOtherUsersTopic(t *testing.T) {
	s := openTestStore(t)
	repo := s.TopicRepo()
	ctx := context.Background()

	id, err := repo.Save(ctx, "alice", "Chess")
	require.NoError(t, err)

	err = repo.AddQuestions(ctx, "mallory", id, []string{"q"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTopicsForUserNewestFirstAndCapped(t *testing.T) {
	s := openTestStore(t)
	repo := s.TopicRepo()
	ctx := context.Background()

	for i := 0; i < MaxTopicsPerUser+5; i++ {
		_, err := repo.Save(ctx, "u1", fmt.Sprintf("topic-%02d", i))
		require.NoError(t, err)
	}
	_, err := repo.Save(ctx, "u2", "not mine")
	require.NoError(t, err)

	topics, err := repo.ForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, topics, MaxTopicsPerUser)
	assert.Equal(t, fmt.Sprintf("topic-%02d", MaxTopicsPerUser+4), topics[0].Name)
	for i := 1; i < len(topics); i++ {
		assert.False(t, topics[i].CreatedAt.After(topics[i-1].CreatedAt), "topics not sorted newest first")
		assert.Equal(t, "u1", topics[i].UserID)
	}
}

func TestSetFavourite(t *testing.T) {
	s := openTestStore(t)
	repo := s.TopicRepo()
	ctx := context.Background()

	id, err := repo.Save(ctx, "u1", "Jazz")
	require.NoError(t, err)

	require.NoError(t, repo.SetFavourite(ctx, "u1", id, true))
	topic, err := repo.ByName(ctx, "u1", "Jazz")
	require.NoError(t, err)
	assert.True(t, topic.IsFavourite)

	require.NoError(t, repo.SetFavourite(ctx, "u1", id, false))
	topic, err = repo.ByName(ctx, "u1", "Jazz")
	require.NoError(t, err)
	assert.False(t, topic.IsFavourite)

	assert.ErrorIs(t, repo.SetFavourite(ctx, "u2", id, true), ErrNotFound)
}
