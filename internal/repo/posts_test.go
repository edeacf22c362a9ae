// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-church/website/internal/backend"
	"github.com/hanbit-church/website/internal/model"
	"github.com/hanbit-church/website/internal/testutil"
)

func testRepo(t *testing.T) (*Posts, *testutil.FakeBackend) {
	t.Helper()
	fake := testutil.NewFakeBackend(t)
	return NewPosts(backend.New(fake.Config())), fake
}

func TestListEmptyBoard(t *testing.T) {
	posts, _ := testRepo(t)

	got, err := posts.List(context.Background(), model.CategoryNews)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCreateAndGetRoundtrip(t *testing.T) {
	posts, _ := testRepo(t)
	ctx := context.Background()

	draft := model.Draft{
		Title:      "가을 수련회 안내",
		Content:    "<p>장소와 일정을 확인하세요.</p>",
		Category:   model.CategoryYouth,
		YouTubeURL: "https://youtu.be/abc123",
	}

	created, err := posts.Create(ctx, "tok", draft)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, draft.Title, created.Title)
	assert.Equal(t, model.CategoryYouth, created.Category)
	assert.False(t, created.CreatedAt.IsZero())
	assert.True(t, created.UpdatedAt.Equal(created.CreatedAt),
		"a new post's timestamps must be equal")

	got, err := posts.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, draft.Content, got.Content)
	assert.Equal(t, draft.YouTubeURL, got.YouTubeURL)
}

func TestListFiltersByCategory(t *testing.T) {
	posts, _ := testRepo(t)
	ctx := context.Background()

	_, err := posts.Create(ctx, "tok", model.Draft{Title: "소식", Content: "c", Category: model.CategoryNews})
	require.NoError(t, err)
	_, err = posts.Create(ctx, "tok", model.Draft{Title: "설교", Content: "c", Category: model.CategorySermon})
	require.NoError(t, err)

	news, err := posts.List(ctx, model.CategoryNews)
	require.NoError(t, err)
	require.Len(t, news, 1)
	assert.Equal(t, "소식", news[0].Title)

	// A category outside the fixed boards simply matches nothing.
	other, err := posts.List(ctx, model.Category("blog"))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUpdateRefreshesTimestamp(t *testing.T) {
	posts, _ := testRepo(t)
	ctx := context.Background()

	created, err := posts.Create(ctx, "tok", model.Draft{Title: "원본", Content: "c", Category: model.CategoryAdult})
	require.NoError(t, err)

	updated, err := posts.Update(ctx, "tok", created.ID, model.Draft{
		Title: "수정본", Content: "c2", Category: model.CategoryAdult,
	})
	require.NoError(t, err)
	assert.Equal(t, "수정본", updated.Title)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt),
		"update must not touch the creation timestamp")
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt),
		"update timestamp must advance past creation")
}

func TestUpdateMissingPost(t *testing.T) {
	posts, _ := testRepo(t)

	_, err := posts.Update(context.Background(), "tok", "no-such-id", model.Draft{
		Title: "t", Content: "c", Category: model.CategoryNews,
	})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteThenGet(t *testing.T) {
	posts, _ := testRepo(t)
	ctx := context.Background()

	created, err := posts.Create(ctx, "tok", model.Draft{Title: "t", Content: "c", Category: model.CategoryNews})
	require.NoError(t, err)

	require.NoError(t, posts.Delete(ctx, "tok", created.ID))

	_, err = posts.Get(ctx, created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// Deleting again is a soft condition, not a crash.
	err = posts.Delete(ctx, "tok", created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestValidationFailsWithoutRoundTrip(t *testing.T) {
	posts, fake := testRepo(t)
	ctx := context.Background()

	_, err := posts.Create(ctx, "tok", model.Draft{Content: "c", Category: model.CategoryNews})
	assert.True(t, model.IsValidationError(err))

	_, err = posts.Create(ctx, "tok", model.Draft{Title: "t", Content: "  ", Category: model.CategoryNews})
	assert.True(t, model.IsValidationError(err))

	_, err = posts.Update(ctx, "tok", "id", model.Draft{Title: "t", Content: "c", Category: "blog"})
	assert.True(t, model.IsValidationError(err))

	assert.Equal(t, 0, fake.Requests(), "invalid drafts must never reach the backend")
}

func TestCountByCategory(t *testing.T) {
	posts, _ := testRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := posts.Create(ctx, "tok", model.Draft{Title: "n", Content: "c", Category: model.CategoryNews})
		require.NoError(t, err)
	}
	_, err := posts.Create(ctx, "tok", model.Draft{Title: "s", Content: "c", Category: model.CategorySermon})
	require.NoError(t, err)

	counts, total, err := posts.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, 3, counts[model.CategoryNews])
	assert.Equal(t, 1, counts[model.CategorySermon])
	assert.Equal(t, 0, counts[model.CategoryYouth])
	assert.Len(t, counts, len(model.Categories()), "every board appears in the counts")
}
