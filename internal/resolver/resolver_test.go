package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engagekit/engagement-tracker/internal/domain"
	"github.com/engagekit/engagement-tracker/internal/resolver"
	"github.com/engagekit/engagement-tracker/internal/sidechannel"
)

const testFallbackURL = "https://x.com"

// stubStore records saved events and can be made to fail.
type stubStore struct {
	saved []domain.ClickEvent
	err   error
}

func (s *stubStore) Save(_ context.Context, event domain.ClickEvent) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, event)
	return nil
}

func newResolver(store *stubStore, cache *sidechannel.Cache) *resolver.Resolver {
	return resolver.New(store, cache, cache, testFallbackURL)
}

func TestTrack_ExplicitTarget(t *testing.T) {
	store := &stubStore{}
	res := newResolver(store, sidechannel.NewCache())

	target, err := res.Track(context.Background(), resolver.VisitRequest{
		TgID:       555,
		PostNum:    3,
		SessionNum: 1,
		TargetURL:  "https://x.com/alice",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://x.com/alice", target)

	require.Len(t, store.saved, 1)
	event := store.saved[0]
	assert.Equal(t, int64(1), event.SessionNum)
	assert.Equal(t, int64(3), event.PostNum)
	assert.Equal(t, int64(555), event.TgID)
	assert.Equal(t, "User 555", event.TgUsername)
	assert.Equal(t, "@alice", event.XUsername)
	assert.Equal(t, "https://x.com/alice", event.XLink)
}

func TestTrack_FallbackTarget(t *testing.T) {
	store := &stubStore{}
	res := newResolver(store, sidechannel.NewCache())

	target, err := res.Track(context.Background(), resolver.VisitRequest{TgID: 7})

	require.NoError(t, err)
	assert.Equal(t, testFallbackURL, target)

	require.Len(t, store.saved, 1)
	assert.Equal(t, domain.UnknownHandle, store.saved[0].XUsername)
}

func TestTrack_CachedLinkTarget(t *testing.T) {
	store := &stubStore{}
	cache := sidechannel.NewCache()
	cache.SetLink(3, sidechannel.LinkMeta{
		XLink:     "https://x.com/bob/status/42",
		PosterID:  100,
		XUsername: "@bob",
	})
	res := newResolver(store, cache)

	target, err := res.Track(context.Background(), resolver.VisitRequest{
		TgID:    555,
		PostNum: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://x.com/bob/status/42", target)

	require.Len(t, store.saved, 1)
	assert.Equal(t, "@bob", store.saved[0].XUsername)
}

func TestTrack_ExplicitOverridesCache(t *testing.T) {
	store := &stubStore{}
	cache := sidechannel.NewCache()
	cache.SetLink(3, sidechannel.LinkMeta{
		XLink:     "https://x.com/cached",
		XUsername: "cached",
	})
	cache.SetVisitor(555, sidechannel.VisitorIdentity{Username: "cached_visitor"})
	res := newResolver(store, cache)

	target, err := res.Track(context.Background(), resolver.VisitRequest{
		TgID:       555,
		PostNum:    3,
		TargetURL:  "https://x.com/explicit",
		TgUsername: "@explicit_visitor",
		XUsername:  "@explicit",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://x.com/explicit", target)

	require.Len(t, store.saved, 1)
	event := store.saved[0]
	assert.Equal(t, "@explicit_visitor", event.TgUsername)
	assert.Equal(t, "@explicit", event.XUsername)
	assert.Equal(t, "https://x.com/explicit", event.XLink)
}

func TestTrack_SelfClickSuppressed(t *testing.T) {
	store := &stubStore{}
	cache := sidechannel.NewCache()
	cache.SetLink(3, sidechannel.LinkMeta{
		XLink:    "https://x.com/alice",
		PosterID: 555,
	})
	res := newResolver(store, cache)

	target, err := res.Track(context.Background(), resolver.VisitRequest{
		TgID:    555,
		PostNum: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://x.com/alice", target)
	assert.Empty(t, store.saved, "self-click must not be recorded")
}

func TestTrack_OtherVisitorNotSuppressed(t *testing.T) {
	store := &stubStore{}
	cache := sidechannel.NewCache()
	cache.SetLink(3, sidechannel.LinkMeta{
		XLink:    "https://x.com/alice",
		PosterID: 555,
	})
	res := newResolver(store, cache)

	_, err := res.Track(context.Background(), resolver.VisitRequest{
		TgID:    556,
		PostNum: 3,
	})

	require.NoError(t, err)
	assert.Len(t, store.saved, 1)
}

func TestTrack_VisitorLabelFromCache(t *testing.T) {
	testCases := []struct {
		name     string
		identity sidechannel.VisitorIdentity
		want     string
	}{
		{
			name:     "username gets at prefix",
			identity: sidechannel.VisitorIdentity{Username: "alice", FirstName: "Alice"},
			want:     "@alice",
		},
		{
			name:     "full name when no username",
			identity: sidechannel.VisitorIdentity{FirstName: "Alice", LastName: "Smith"},
			want:     "Alice Smith",
		},
		{
			name:     "first name only",
			identity: sidechannel.VisitorIdentity{FirstName: "Alice"},
			want:     "Alice",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{}
			cache := sidechannel.NewCache()
			cache.SetVisitor(555, tc.identity)
			res := newResolver(store, cache)

			_, err := res.Track(context.Background(), resolver.VisitRequest{TgID: 555})

			require.NoError(t, err)
			require.Len(t, store.saved, 1)
			assert.Equal(t, tc.want, store.saved[0].TgUsername)
		})
	}
}

func TestTrack_EmptyIdentityFallsBackToGenericLabel(t *testing.T) {
	store := &stubStore{}
	cache := sidechannel.NewCache()
	cache.SetVisitor(555, sidechannel.VisitorIdentity{})
	res := newResolver(store, cache)

	_, err := res.Track(context.Background(), resolver.VisitRequest{TgID: 555})

	require.NoError(t, err)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "User 555", store.saved[0].TgUsername)
}

func TestTrack_XUsernameFromURL(t *testing.T) {
	testCases := []struct {
		name   string
		target string
		want   string
	}{
		{
			name:   "profile URL",
			target: "https://x.com/alice",
			want:   "@alice",
		},
		{
			name:   "status URL keeps first segment",
			target: "https://x.com/alice/status/123",
			want:   "@alice",
		},
		{
			name:   "twitter host accepted",
			target: "https://twitter.com/bob",
			want:   "@bob",
		},
		{
			name:   "www prefix accepted",
			target: "https://www.x.com/carol",
			want:   "@carol",
		},
		{
			name:   "at-prefixed path segment",
			target: "https://x.com/@dave",
			want:   "@dave",
		},
		{
			name:   "foreign host is unknown",
			target: "https://example.com/alice",
			want:   domain.UnknownHandle,
		},
		{
			name:   "no path segment is unknown",
			target: "https://x.com",
			want:   domain.UnknownHandle,
		},
		{
			name:   "unparsable URL is unknown",
			target: "://not-a-url",
			want:   domain.UnknownHandle,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{}
			res := newResolver(store, sidechannel.NewCache())

			_, err := res.Track(context.Background(), resolver.VisitRequest{
				TgID:      1,
				TargetURL: tc.target,
			})

			require.NoError(t, err)
			require.Len(t, store.saved, 1)
			assert.Equal(t, tc.want, store.saved[0].XUsername)
		})
	}
}

func TestTrack_HandleNormalization(t *testing.T) {
	testCases := []struct {
		name      string
		xUsername string
		want      string
	}{
		{name: "bare handle", xUsername: "alice", want: "@alice"},
		{name: "at-prefixed handle", xUsername: "@alice", want: "@alice"},
		{name: "unknown sentinel stored verbatim", xUsername: "Unknown", want: "Unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{}
			res := newResolver(store, sidechannel.NewCache())

			_, err := res.Track(context.Background(), resolver.VisitRequest{
				TgID:      1,
				XUsername: tc.xUsername,
			})

			require.NoError(t, err)
			require.Len(t, store.saved, 1)
			assert.Equal(t, tc.want, store.saved[0].XUsername)
		})
	}
}

func TestTrack_StoreErrorStillReturnsTarget(t *testing.T) {
	store := &stubStore{err: errors.New("connection refused")}
	res := newResolver(store, sidechannel.NewCache())

	target, err := res.Track(context.Background(), resolver.VisitRequest{
		TgID:      1,
		TargetURL: "https://x.com/alice",
	})

	require.Error(t, err)
	assert.Equal(t, "https://x.com/alice", target)
}

func TestResolveTarget_DoesNotPersist(t *testing.T) {
	store := &stubStore{}
	cache := sidechannel.NewCache()
	cache.SetLink(3, sidechannel.LinkMeta{XLink: "https://x.com/bob"})
	res := newResolver(store, cache)

	target := res.ResolveTarget(resolver.VisitRequest{TgID: 1, PostNum: 3})

	assert.Equal(t, "https://x.com/bob", target)
	assert.Empty(t, store.saved)
}
