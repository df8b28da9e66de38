package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociable-dev/sociable/internal/entity"
	commentDto "github.com/sociable-dev/sociable/internal/modules/comment/dto"
	"github.com/sociable-dev/sociable/pkg/apperror"
)

type fakeCommentRepo struct {
	comments map[uuid.UUID]*entity.Comment
	deleted  []uuid.UUID
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uuid.UUID]*entity.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *entity.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID, _ = uuid.NewV7()
	}
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Comment, error) {
	if c, ok := r.comments[id]; ok {
		return c, nil
	}
	return nil, apperror.ErrNotFound
}

func (r *fakeCommentRepo) FindByPostID(_ context.Context, postID uuid.UUID, _, _ int) ([]entity.Comment, error) {
	var out []entity.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.comments, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByPostID(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeCommentRepo) CountByPostID(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

type fakePostRepo struct {
	posts map[uuid.UUID]*entity.Post
}

func (r *fakePostRepo) Create(_ context.Context, _ *entity.Post) error { return nil }

func (r *fakePostRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Post, error) {
	if p, ok := r.posts[id]; ok {
		return p, nil
	}
	return nil, apperror.ErrNotFound
}

func (r *fakePostRepo) FindByAuthor(_ context.Context, _ uuid.UUID, _ []string, _, _ string, _, _ int) ([]*entity.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) UpdateFields(_ context.Context, _ uuid.UUID, _ map[string]any) error {
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakePostRepo) AddLike(_ context.Context, _, _ uuid.UUID) (bool, error) { return false, nil }

func (r *fakePostRepo) RemoveLike(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return false, nil
}

func (r *fakePostRepo) HasLike(_ context.Context, _, _ uuid.UUID) (bool, error) { return false, nil }

func (r *fakePostRepo) CountLikes(_ context.Context, _ uuid.UUID) (int64, error) { return 0, nil }

func (r *fakePostRepo) DeleteLikesByPostID(_ context.Context, _ uuid.UUID) error { return nil }

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

func TestCreateCommentNotifiesPostAuthor(t *testing.T) {
	authorID := uuid.New()
	commenterID := uuid.New()
	post := &entity.Post{ID: uuid.New(), AuthorID: authorID}

	comments := newFakeCommentRepo()
	posts := &fakePostRepo{posts: map[uuid.UUID]*entity.Post{post.ID: post}}
	notifier := &fakeNotifier{}
	svc := NewCommentService(comments, posts, notifier, nil)

	resp, err := svc.CreateComment(context.Background(), commenterID, post.ID, commentDto.CreateCommentRequest{Body: "nice one"})
	require.NoError(t, err)
	assert.Equal(t, "nice one", resp.Body)
	assert.Equal(t, post.ID, resp.PostID)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, entity.NotificationComment, notifier.calls[0].notifType)
	assert.Equal(t, commenterID, notifier.calls[0].initiatorID)
	assert.Equal(t, authorID, notifier.calls[0].targetID)
	assert.Equal(t, "/post/"+post.ID.String(), notifier.calls[0].link)
}

func TestCreateCommentOnOwnPostDoesNotNotify(t *testing.T) {
	authorID := uuid.New()
	post := &entity.Post{ID: uuid.New(), AuthorID: authorID}

	comments := newFakeCommentRepo()
	posts := &fakePostRepo{posts: map[uuid.UUID]*entity.Post{post.ID: post}}
	notifier := &fakeNotifier{}
	svc := NewCommentService(comments, posts, notifier, nil)

	_, err := svc.CreateComment(context.Background(), authorID, post.ID, commentDto.CreateCommentRequest{Body: "self reply"})
	require.NoError(t, err)
	assert.Empty(t, notifier.calls)
}

func TestCreateCommentValidation(t *testing.T) {
	post := &entity.Post{ID: uuid.New(), AuthorID: uuid.New()}
	comments := newFakeCommentRepo()
	posts := &fakePostRepo{posts: map[uuid.UUID]*entity.Post{post.ID: post}}
	svc := NewCommentService(comments, posts, &fakeNotifier{}, nil)

	_, err := svc.CreateComment(context.Background(), uuid.New(), post.ID, commentDto.CreateCommentRequest{Body: "   "})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = svc.CreateComment(context.Background(), uuid.New(), uuid.New(), commentDto.CreateCommentRequest{Body: "orphan"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateCommentPrivatePostRejectsStranger(t *testing.T) {
	authorID := uuid.New()
	post := &entity.Post{ID: uuid.New(), AuthorID: authorID, Privacy: entity.PrivacyPrivate}

	comments := newFakeCommentRepo()
	posts := &fakePostRepo{posts: map[uuid.UUID]*entity.Post{post.ID: post}}
	svc := NewCommentService(comments, posts, &fakeNotifier{}, nil)

	_, err := svc.CreateComment(context.Background(), uuid.New(), post.ID, commentDto.CreateCommentRequest{Body: "uninvited"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, comments.comments)

	// The author can still comment on their own private post
	resp, err := svc.CreateComment(context.Background(), authorID, post.ID, commentDto.CreateCommentRequest{Body: "note to self"})
	require.NoError(t, err)
	assert.Equal(t, "note to self", resp.Body)
}

func TestGetCommentsPrivatePostRejectsStranger(t *testing.T) {
	authorID := uuid.New()
	post := &entity.Post{ID: uuid.New(), AuthorID: authorID, Privacy: entity.PrivacyPrivate}

	comments := newFakeCommentRepo()
	posts := &fakePostRepo{posts: map[uuid.UUID]*entity.Post{post.ID: post}}
	svc := NewCommentService(comments, posts, &fakeNotifier{}, nil)

	require.NoError(t, comments.Create(context.Background(), &entity.Comment{PostID: post.ID, OwnerID: authorID, Body: "hidden"}))

	_, err := svc.GetComments(context.Background(), uuid.New(), post.ID, 0, 10)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	responses, err := svc.GetComments(context.Background(), authorID, post.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "hidden", responses[0].Body)
}

func TestDeleteCommentRequiresOwner(t *testing.T) {
	post := &entity.Post{ID: uuid.New(), AuthorID: uuid.New()}
	ownerID := uuid.New()

	comments := newFakeCommentRepo()
	posts := &fakePostRepo{posts: map[uuid.UUID]*entity.Post{post.ID: post}}
	svc := NewCommentService(comments, posts, &fakeNotifier{}, nil)

	comment := &entity.Comment{PostID: post.ID, OwnerID: ownerID, Body: "mine"}
	require.NoError(t, comments.Create(context.Background(), comment))

	err := svc.DeleteComment(context.Background(), uuid.New(), comment.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, svc.DeleteComment(context.Background(), ownerID, comment.ID))
	assert.Contains(t, comments.deleted, comment.ID)
}
