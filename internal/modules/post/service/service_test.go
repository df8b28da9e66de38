package service

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociable-dev/sociable/internal/entity"
	postDto "github.com/sociable-dev/sociable/internal/modules/post/dto"
	"github.com/sociable-dev/sociable/pkg/apperror"
	"github.com/sociable-dev/sociable/pkg/ratelimiter"
)

type likeKey struct {
	postID uuid.UUID
	userID uuid.UUID
}

type fakePostRepo struct {
	posts     map[uuid.UUID]*entity.Post
	likes     map[likeKey]bool
	deleted   []uuid.UUID
	createErr error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts: make(map[uuid.UUID]*entity.Post),
		likes: make(map[likeKey]bool),
	}
}

func (r *fakePostRepo) Create(_ context.Context, post *entity.Post) error {
	if r.createErr != nil {
		return r.createErr
	}
	if post.ID == uuid.Nil {
		post.ID, _ = uuid.NewV7()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return post, nil
}

func (r *fakePostRepo) FindByAuthor(_ context.Context, authorID uuid.UUID, privacy []string, _, sortOrder string, offset, limit int) ([]*entity.Post, error) {
	allowed := make(map[string]bool, len(privacy))
	for _, p := range privacy {
		allowed[p] = true
	}

	var matched []*entity.Post
	for _, post := range r.posts {
		if post.AuthorID == authorID && allowed[post.Privacy] {
			matched = append(matched, post)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if sortOrder == "asc" {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *fakePostRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]any) error {
	post, ok := r.posts[id]
	if !ok {
		return apperror.ErrNotFound
	}
	if v, ok := fields["description"]; ok {
		post.Description = v.(string)
	}
	if v, ok := fields["privacy"]; ok {
		post.Privacy = v.(string)
	}
	if v, ok := fields["is_edited"]; ok {
		post.IsEdited = v.(bool)
	}
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.posts, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakePostRepo) AddLike(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	key := likeKey{postID, userID}
	if r.likes[key] {
		return false, nil
	}
	r.likes[key] = true
	return true, nil
}

func (r *fakePostRepo) RemoveLike(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	key := likeKey{postID, userID}
	if !r.likes[key] {
		return false, nil
	}
	delete(r.likes, key)
	return true, nil
}

func (r *fakePostRepo) HasLike(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	return r.likes[likeKey{postID, userID}], nil
}

func (r *fakePostRepo) CountLikes(_ context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	for key := range r.likes {
		if key.postID == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakePostRepo) DeleteLikesByPostID(_ context.Context, postID uuid.UUID) error {
	for key := range r.likes {
		if key.postID == postID {
			delete(r.likes, key)
		}
	}
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperror.ErrNotFound
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (r *fakeUserRepo) UsernameExists(_ context.Context, _ string) (bool, error) { return false, nil }

func (r *fakeUserRepo) EmailExists(_ context.Context, _ string) (bool, error) { return false, nil }

type fakeFollowRepo struct {
	followers map[uuid.UUID][]uuid.UUID
}

func (r *fakeFollowRepo) FollowerIDs(_ context.Context, followeeID uuid.UUID) ([]uuid.UUID, error) {
	return r.followers[followeeID], nil
}

func (r *fakeFollowRepo) Follow(_ context.Context, _, _ uuid.UUID) (bool, error) { return true, nil }

func (r *fakeFollowRepo) Unfollow(_ context.Context, _, _ uuid.UUID) error { return nil }

func (r *fakeFollowRepo) IsFollowing(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return false, nil
}

func (r *fakeFollowRepo) Followers(_ context.Context, _ uuid.UUID) ([]entity.User, error) {
	return nil, nil
}

func (r *fakeFollowRepo) Following(_ context.Context, _ uuid.UUID) ([]entity.User, error) {
	return nil, nil
}

type fakeFeedRepo struct {
	entries []entity.FeedEntry
}

func (r *fakeFeedRepo) BulkInsert(_ context.Context, entries []entity.FeedEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *fakeFeedRepo) DeleteByPostID(_ context.Context, postID uuid.UUID) error {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.PostID != postID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

func (r *fakeFeedRepo) FindPageByFollower(_ context.Context, followerID uuid.UUID, offset, limit int) ([]entity.FeedEntry, error) {
	var matched []entity.FeedEntry
	for _, e := range r.entries {
		if e.FollowerID == followerID {
			matched = append(matched, e)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *fakeFeedRepo) CountByPostID(_ context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	for _, e := range r.entries {
		if e.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFeedRepo) entriesFor(postID uuid.UUID) []entity.FeedEntry {
	var matched []entity.FeedEntry
	for _, e := range r.entries {
		if e.PostID == postID {
			matched = append(matched, e)
		}
	}
	return matched
}

type fakeCommentRepo struct {
	counts         map[uuid.UUID]int64
	deletedByPosts []uuid.UUID
}

func (r *fakeCommentRepo) Create(_ context.Context, _ *entity.Comment) error { return nil }

func (r *fakeCommentRepo) FindByID(_ context.Context, _ uuid.UUID) (*entity.Comment, error) {
	return nil, apperror.ErrNotFound
}

func (r *fakeCommentRepo) FindByPostID(_ context.Context, _ uuid.UUID, _, _ int) ([]entity.Comment, error) {
	return nil, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeCommentRepo) DeleteByPostID(_ context.Context, postID uuid.UUID) error {
	r.deletedByPosts = append(r.deletedByPosts, postID)
	return nil
}

func (r *fakeCommentRepo) CountByPostID(_ context.Context, postID uuid.UUID) (int64, error) {
	if r.counts == nil {
		return 0, nil
	}
	return r.counts[postID], nil
}

type fakeBookmarkRepo struct {
	bookmarks      map[likeKey]bool
	deletedByPosts []uuid.UUID
}

func (r *fakeBookmarkRepo) Add(_ context.Context, postID, ownerID uuid.UUID) (bool, error) {
	if r.bookmarks == nil {
		r.bookmarks = make(map[likeKey]bool)
	}
	r.bookmarks[likeKey{postID, ownerID}] = true
	return true, nil
}

func (r *fakeBookmarkRepo) Remove(_ context.Context, postID, ownerID uuid.UUID) (bool, error) {
	delete(r.bookmarks, likeKey{postID, ownerID})
	return true, nil
}

func (r *fakeBookmarkRepo) Exists(_ context.Context, postID, ownerID uuid.UUID) (bool, error) {
	return r.bookmarks[likeKey{postID, ownerID}], nil
}

func (r *fakeBookmarkRepo) FindByOwner(_ context.Context, _ uuid.UUID, _, _ int) ([]entity.Bookmark, error) {
	return nil, nil
}

func (r *fakeBookmarkRepo) DeleteByPostID(_ context.Context, postID uuid.UUID) error {
	r.deletedByPosts = append(r.deletedByPosts, postID)
	return nil
}

type fakePhotoStorage struct {
	deleted []string
}

func (s *fakePhotoStorage) UploadPhoto(_ context.Context, _ io.Reader, _, fileName string) (string, error) {
	return "https://cdn.example.com/" + fileName, nil
}

func (s *fakePhotoStorage) DeletePhoto(_ context.Context, fileURL string) error {
	s.deleted = append(s.deleted, fileURL)
	return nil
}

type notifyCall struct {
	notifType   string
	initiatorID uuid.UUID
	targetID    uuid.UUID
	link        string
}

type fakeNotifier struct {
	calls []notifyCall
}

func (n *fakeNotifier) Notify(_ context.Context, notifType string, initiatorID, targetID uuid.UUID, link string) error {
	n.calls = append(n.calls, notifyCall{notifType, initiatorID, targetID, link})
	return nil
}

func (n *fakeNotifier) GetNotifications(_ context.Context, _ uuid.UUID, _, _ int) ([]entity.Notification, error) {
	return nil, nil
}

func (n *fakeNotifier) MarkAsRead(_ context.Context, _ uuid.UUID) error { return nil }

func (n *fakeNotifier) MarkAllAsRead(_ context.Context, _ uuid.UUID) error { return nil }

func (n *fakeNotifier) UnreadCount(_ context.Context, _ uuid.UUID) (int64, error) { return 0, nil }

type fakeLimiter struct {
	deny       bool
	retryAfter time.Duration
	acquired   int
	released   int
}

func (l *fakeLimiter) Acquire(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	l.acquired++
	return !l.deny, nil
}

func (l *fakeLimiter) TTL(_ context.Context, _ uuid.UUID, _ string) (time.Duration, error) {
	return l.retryAfter, nil
}

func (l *fakeLimiter) Release(_ context.Context, _ uuid.UUID, _ string) error {
	l.released++
	return nil
}

type sentEvent struct {
	userID  uuid.UUID
	event   string
	payload any
}

type fakeDispatcher struct {
	sent []sentEvent
}

func (d *fakeDispatcher) Send(userID uuid.UUID, event string, payload any) {
	d.sent = append(d.sent, sentEvent{userID, event, payload})
}

type harness struct {
	service    PostService
	posts      *fakePostRepo
	users      *fakeUserRepo
	follows    *fakeFollowRepo
	feed       *fakeFeedRepo
	comments   *fakeCommentRepo
	bookmarks  *fakeBookmarkRepo
	photos     *fakePhotoStorage
	limiter    *fakeLimiter
	notifier   *fakeNotifier
	dispatcher *fakeDispatcher
}

func newHarness(users ...*entity.User) *harness {
	h := &harness{
		posts:      newFakePostRepo(),
		users:      newFakeUserRepo(users...),
		follows:    &fakeFollowRepo{followers: make(map[uuid.UUID][]uuid.UUID)},
		feed:       &fakeFeedRepo{},
		comments:   &fakeCommentRepo{},
		bookmarks:  &fakeBookmarkRepo{},
		photos:     &fakePhotoStorage{},
		limiter:    &fakeLimiter{},
		notifier:   &fakeNotifier{},
		dispatcher: &fakeDispatcher{},
	}
	h.service = NewPostService(
		h.posts, h.users, h.follows, h.feed, h.comments, h.bookmarks,
		h.photos, nil, h.limiter, h.notifier, nil, h.dispatcher,
	)
	return h
}

func newUser(username string) *entity.User {
	return &entity.User{ID: uuid.New(), Username: username, FullName: username}
}

func TestPublishPostFansOutToEveryFollowerPlusAuthor(t *testing.T) {
	author := newUser("alice")
	h := newHarness(author)

	followers := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	h.follows.followers[author.ID] = followers

	resp, err := h.service.PublishPost(context.Background(), author.ID, postDto.CreatePostRequest{
		Description: "hello world",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	entries := h.feed.entriesFor(resp.ID)
	require.Len(t, entries, len(followers)+1)

	recipients := make(map[uuid.UUID]bool, len(entries))
	for _, e := range entries {
		recipients[e.FollowerID] = true
		assert.Equal(t, author.ID, e.PostOwnerID)
		assert.Equal(t, resp.CreatedAt, e.CreatedAt)
	}
	for _, f := range followers {
		assert.True(t, recipients[f], "follower %s missing a feed entry", f)
	}
	assert.True(t, recipients[author.ID], "author missing their own feed entry")
}

func TestPublishPostPushesNewFeedToFollowersOnly(t *testing.T) {
	author := newUser("alice")
	h := newHarness(author)

	follower := uuid.New()
	h.follows.followers[author.ID] = []uuid.UUID{follower}

	_, err := h.service.PublishPost(context.Background(), author.ID, postDto.CreatePostRequest{
		Description: "hello",
	})
	require.NoError(t, err)

	require.Len(t, h.dispatcher.sent, 1)
	assert.Equal(t, follower, h.dispatcher.sent[0].userID)
	assert.Equal(t, "newFeed", h.dispatcher.sent[0].event)
}

func TestPublishPostRejectsEmptyContent(t *testing.T) {
	author := newUser("alice")
	h := newHarness(author)

	_, err := h.service.PublishPost(context.Background(), author.ID, postDto.CreatePostRequest{
		Description: "   ",
	})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
	assert.Empty(t, h.feed.entries)
}

func TestPublishPostDefaultsToPublic(t *testing.T) {
	author := newUser("alice")
	h := newHarness(author)

	resp, err := h.service.PublishPost(context.Background(), author.ID, postDto.CreatePostRequest{
		Description: "no privacy given",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PrivacyPublic, resp.Privacy)
}

func TestPublishPostRateLimited(t *testing.T) {
	author := newUser("alice")
	h := newHarness(author)
	h.limiter.deny = true
	h.limiter.retryAfter = 4 * time.Second

	_, err := h.service.PublishPost(context.Background(), author.ID, postDto.CreatePostRequest{
		Description: "too eager",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)

	var rateErr *ratelimiter.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 4*time.Second, rateErr.RetryAfter)

	// Nothing persisted, nothing fanned out
	assert.Empty(t, h.posts.posts)
	assert.Empty(t, h.feed.entries)
	assert.Empty(t, h.dispatcher.sent)
}

func TestPublishPostReleasesCooldownOnStorageFailure(t *testing.T) {
	author := newUser("alice")
	h := newHarness(author)
	h.posts.createErr = apperror.ErrStorage

	_, err := h.service.PublishPost(context.Background(), author.ID, postDto.CreatePostRequest{
		Description: "doomed",
	})
	assert.ErrorIs(t, err, apperror.ErrStorage)
	assert.Equal(t, 1, h.limiter.acquired)
	assert.Equal(t, 1, h.limiter.released)
}

func TestToggleLikeIsAnInvolution(t *testing.T) {
	author := newUser("alice")
	viewer := newUser("bob")
	h := newHarness(author, viewer)

	post := &entity.Post{AuthorID: author.ID, Author: *author, Description: "x", Privacy: entity.PrivacyPublic}
	require.NoError(t, h.posts.Create(context.Background(), post))

	first, err := h.service.ToggleLike(context.Background(), viewer.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, first.State)
	assert.True(t, first.Post.IsLiked)

	second, err := h.service.ToggleLike(context.Background(), viewer.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, second.State)
	assert.False(t, second.Post.IsLiked)

	liked, _ := h.posts.HasLike(context.Background(), post.ID, viewer.ID)
	assert.False(t, liked)
}

func TestToggleLikeNotifiesAuthorOnLikeOnly(t *testing.T) {
	author := newUser("alice")
	viewer := newUser("bob")
	h := newHarness(author, viewer)

	post := &entity.Post{AuthorID: author.ID, Author: *author, Description: "x", Privacy: entity.PrivacyPublic}
	require.NoError(t, h.posts.Create(context.Background(), post))

	_, err := h.service.ToggleLike(context.Background(), viewer.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, h.notifier.calls, 1)
	assert.Equal(t, entity.NotificationLike, h.notifier.calls[0].notifType)
	assert.Equal(t, viewer.ID, h.notifier.calls[0].initiatorID)
	assert.Equal(t, author.ID, h.notifier.calls[0].targetID)
	assert.Equal(t, "/post/"+post.ID.String(), h.notifier.calls[0].link)

	// The unlike path never touches notifications
	_, err = h.service.ToggleLike(context.Background(), viewer.ID, post.ID)
	require.NoError(t, err)
	assert.Len(t, h.notifier.calls, 1)
}

func TestToggleLikeOwnPostDoesNotNotify(t *testing.T) {
	author := newUser("alice")
	h := newHarness(author)

	post := &entity.Post{AuthorID: author.ID, Author: *author, Description: "x", Privacy: entity.PrivacyPublic}
	require.NoError(t, h.posts.Create(context.Background(), post))

	resp, err := h.service.ToggleLike(context.Background(), author.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, resp.State)
	assert.Empty(t, h.notifier.calls)
}

func TestToggleLikeUnknownPost(t *testing.T) {
	h := newHarness()

	_, err := h.service.ToggleLike(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestToggleLikePrivatePostRejectsStranger(t *testing.T) {
	author := newUser("alice")
	stranger := newUser("bob")
	h := newHarness(author, stranger)

	post := &entity.Post{AuthorID: author.ID, Author: *author, Description: "secret", Privacy: entity.PrivacyPrivate}
	require.NoError(t, h.posts.Create(context.Background(), post))

	_, err := h.service.ToggleLike(context.Background(), stranger.ID, post.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	liked, _ := h.posts.HasLike(context.Background(), post.ID, stranger.ID)
	assert.False(t, liked)

	// The author can still like their own private post
	resp, err := h.service.ToggleLike(context.Background(), author.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, resp.State)
}

func TestDeletePostCascades(t *testing.T) {
	author := newUser("alice")
	follower := newUser("bob")
	h := newHarness(author, follower)
	h.follows.followers[author.ID] = []uuid.UUID{follower.ID}

	resp, err := h.service.PublishPost(context.Background(), author.ID, postDto.CreatePostRequest{
		Description: "doomed",
		Photos:      []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, h.feed.entriesFor(resp.ID), 2)

	require.NoError(t, h.service.DeletePost(context.Background(), author.ID, resp.ID))

	assert.ElementsMatch(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, h.photos.deleted)
	assert.Contains(t, h.posts.deleted, resp.ID)
	assert.Contains(t, h.comments.deletedByPosts, resp.ID)
	assert.Contains(t, h.bookmarks.deletedByPosts, resp.ID)
	assert.Empty(t, h.feed.entriesFor(resp.ID))

	_, err = h.service.GetPost(context.Background(), author.ID, resp.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeletePostRequiresAuthor(t *testing.T) {
	author := newUser("alice")
	stranger := newUser("bob")
	h := newHarness(author, stranger)

	post := &entity.Post{AuthorID: author.ID, Author: *author, Description: "x", Privacy: entity.PrivacyPublic}
	require.NoError(t, h.posts.Create(context.Background(), post))

	err := h.service.DeletePost(context.Background(), stranger.ID, post.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, h.posts.deleted)
}

func TestEditPost(t *testing.T) {
	author := newUser("alice")
	stranger := newUser("bob")
	h := newHarness(author, stranger)

	post := &entity.Post{AuthorID: author.ID, Author: *author, Description: "original", Privacy: entity.PrivacyPublic}
	require.NoError(t, h.posts.Create(context.Background(), post))

	t.Run("rejects empty patch", func(t *testing.T) {
		_, err := h.service.EditPost(context.Background(), author.ID, post.ID, postDto.UpdatePostRequest{})
		assert.ErrorIs(t, err, apperror.ErrBadRequest)
	})

	t.Run("rejects non-author", func(t *testing.T) {
		_, err := h.service.EditPost(context.Background(), stranger.ID, post.ID, postDto.UpdatePostRequest{Description: "hijacked"})
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("marks the post edited", func(t *testing.T) {
		resp, err := h.service.EditPost(context.Background(), author.ID, post.ID, postDto.UpdatePostRequest{Description: "updated"})
		require.NoError(t, err)
		assert.Equal(t, "updated", resp.Description)
		assert.True(t, resp.IsEdited)
	})

	t.Run("privacy-only patch", func(t *testing.T) {
		resp, err := h.service.EditPost(context.Background(), author.ID, post.ID, postDto.UpdatePostRequest{Privacy: entity.PrivacyPrivate})
		require.NoError(t, err)
		assert.Equal(t, entity.PrivacyPrivate, resp.Privacy)
		assert.Equal(t, "updated", resp.Description)
	})
}

func TestGetPostPrivacy(t *testing.T) {
	author := newUser("alice")
	stranger := newUser("bob")
	h := newHarness(author, stranger)

	post := &entity.Post{AuthorID: author.ID, Author: *author, Description: "secret", Privacy: entity.PrivacyPrivate}
	require.NoError(t, h.posts.Create(context.Background(), post))

	_, err := h.service.GetPost(context.Background(), stranger.ID, post.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	resp, err := h.service.GetPost(context.Background(), author.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", resp.Description)
}

func TestGetAuthorPostsPrivacyFiltering(t *testing.T) {
	author := newUser("alice")
	stranger := newUser("bob")
	h := newHarness(author, stranger)

	public := &entity.Post{AuthorID: author.ID, Author: *author, Description: "public", Privacy: entity.PrivacyPublic}
	private := &entity.Post{AuthorID: author.ID, Author: *author, Description: "private", Privacy: entity.PrivacyPrivate}
	require.NoError(t, h.posts.Create(context.Background(), public))
	require.NoError(t, h.posts.Create(context.Background(), private))

	t.Run("stranger cannot widen the filter", func(t *testing.T) {
		posts, err := h.service.GetAuthorPosts(context.Background(), stranger.ID, "alice", postDto.AuthorPostsFilter{Privacy: entity.PrivacyPrivate})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "public", posts[0].Description)
	})

	t.Run("author sees private when asked", func(t *testing.T) {
		posts, err := h.service.GetAuthorPosts(context.Background(), author.ID, "alice", postDto.AuthorPostsFilter{Privacy: entity.PrivacyPrivate})
		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})

	t.Run("unknown author", func(t *testing.T) {
		_, err := h.service.GetAuthorPosts(context.Background(), stranger.ID, "nobody", postDto.AuthorPostsFilter{})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("exhausted page is empty not an error", func(t *testing.T) {
		posts, err := h.service.GetAuthorPosts(context.Background(), stranger.ID, "alice", postDto.AuthorPostsFilter{Offset: 3})
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}
