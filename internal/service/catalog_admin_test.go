package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/service"
	"github.com/user/streamflix/internal/testutil"
)

func TestAdmin_MovieLifecycle(t *testing.T) {
	svc, repos := newServices(t)
	ctx := context.Background()

	movie, err := svc.Admin.CreateMovie(ctx, service.MovieForm{
		Title:           " Go em Produção ",
		Category:        "programming",
		CreationDate:    "2024-05-10",
		DurationMinutes: 42,
		Description:     "Workshop",
	}, "thumb_movies/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Go em Produção", movie.Title)
	assert.Equal(t, model.CategoryProgramming, movie.Category)
	assert.Equal(t, testutil.Date(2024, 5, 10), movie.CreationDate.UTC())
	assert.Zero(t, movie.ViewCount)

	_, err = repos.Movie.IncrementViews(ctx, movie.ID)
	require.NoError(t, err)

	updated, err := svc.Admin.UpdateMovie(ctx, movie.ID, service.MovieForm{
		Title:    "Go em Produção II",
		Category: "OTHER",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "thumb_movies/a.jpg", updated.Thumbnail)

	stored, err := svc.Catalog.Get(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go em Produção II", stored.Title)
	assert.Equal(t, model.CategoryOther, stored.Category)
	assert.Equal(t, 1, stored.ViewCount)

	require.NoError(t, svc.Admin.DeleteMovie(ctx, movie.ID))
	assert.ErrorIs(t, svc.Admin.DeleteMovie(ctx, movie.ID), service.ErrMovieNotFound)
}

func TestAdmin_MovieValidation(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		form  service.MovieForm
		field string
	}{
		{"missing title", service.MovieForm{Category: "OTHER"}, "title"},
		{"unknown category", service.MovieForm{Title: "X", Category: "HORROR"}, "category"},
		{"bad date", service.MovieForm{Title: "X", Category: "OTHER", CreationDate: "10/05/2024"}, "creation_date"},
		{"negative duration", service.MovieForm{Title: "X", Category: "OTHER", DurationMinutes: -1}, "duration_minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Admin.CreateMovie(ctx, tt.form, "")
			assert.Contains(t, fieldMessages(t, err), tt.field)
		})
	}

	_, err := svc.Admin.UpdateMovie(ctx, 404, service.MovieForm{Title: "X", Category: "OTHER"}, "")
	assert.ErrorIs(t, err, service.ErrMovieNotFound)
}

func TestAdmin_EpisodeLifecycle(t *testing.T) {
	svc, repos := newServices(t)
	ctx := context.Background()
	movie := testutil.CreateMovie(t, repos, "M", model.CategoryOther, 0, testutil.Date(2024, 1, 1))

	_, err := svc.Admin.CreateEpisode(ctx, movie.ID, service.EpisodeForm{Title: "Ep 1", VideoLink: "not a url"})
	assert.Contains(t, fieldMessages(t, err), "video_link")

	_, err = svc.Admin.CreateEpisode(ctx, 404, service.EpisodeForm{Title: "Ep 1", VideoLink: "https://videos.example.com/1"})
	assert.ErrorIs(t, err, service.ErrMovieNotFound)

	episode, err := svc.Admin.CreateEpisode(ctx, movie.ID, service.EpisodeForm{Title: "Ep 1", VideoLink: "https://videos.example.com/1"})
	require.NoError(t, err)

	updated, err := svc.Admin.UpdateEpisode(ctx, episode.ID, service.EpisodeForm{Title: "Episódio 1", VideoLink: "https://videos.example.com/1b"})
	require.NoError(t, err)
	assert.Equal(t, "Episódio 1", updated.Title)

	stored, err := svc.Catalog.Get(ctx, movie.ID)
	require.NoError(t, err)
	require.Len(t, stored.Episodes, 1)
	assert.Equal(t, "https://videos.example.com/1b", stored.Episodes[0].VideoLink)

	require.NoError(t, svc.Admin.DeleteEpisode(ctx, episode.ID))
	assert.ErrorIs(t, svc.Admin.DeleteEpisode(ctx, episode.ID), service.ErrEpisodeNotFound)
	_, err = svc.Admin.UpdateEpisode(ctx, episode.ID, service.EpisodeForm{Title: "x", VideoLink: "https://videos.example.com/x"})
	assert.ErrorIs(t, err, service.ErrEpisodeNotFound)
}

func TestAdmin_UserHistory(t *testing.T) {
	svc, repos := newServices(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, repos, "ana", "a@x.com", "s3cretpass")
	a, b, _ := seedScenario(t, repos)

	_, err := svc.Viewing.Watch(ctx, user.ID, b.ID)
	require.NoError(t, err)
	_, err = svc.Viewing.Watch(ctx, user.ID, a.ID)
	require.NoError(t, err)

	history, err := svc.Admin.UserHistory(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, titles(history))

	users, err := svc.Admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ana", users[0].Username)
}

func TestAdmin_SetUserRole(t *testing.T) {
	svc, repos := newServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, repos, "ana", "a@x.com", "s3cretpass")

	_, err := svc.Admin.SetUserRole(ctx, user.ID, service.RoleForm{Role: "root"})
	assert.Contains(t, fieldMessages(t, err), "role")

	updated, err := svc.Admin.SetUserRole(ctx, user.ID, service.RoleForm{Role: "Admin"})
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin())

	stored, err := svc.Account.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, stored.Role)

	_, err = svc.Admin.SetUserRole(ctx, 999, service.RoleForm{Role: "user"})
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
