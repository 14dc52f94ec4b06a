package appstate

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verified(admin bool) *User {
	return &User{UID: uuid.New(), Email: "ada@example.com", EmailVerified: true, IsAdmin: admin}
}

func TestTransition(t *testing.T) {
	unverified := &User{UID: uuid.New()}

	tests := []struct {
		name    string
		from    View
		to      View
		user    *User
		want    View
		wantErr bool
	}{
		{"signed out stays signed out", ViewSignedOut, ViewSignedOut, nil, ViewSignedOut, false},
		{"signed out cannot reach home", ViewSignedOut, ViewHome, nil, ViewSignedOut, true},
		{"unverified reaches verify", ViewSignedOut, ViewVerifyEmail, unverified, ViewVerifyEmail, false},
		{"unverified cannot reach ranking", ViewVerifyEmail, ViewRanking, unverified, ViewVerifyEmail, true},
		{"verified reaches ranking", ViewHome, ViewRanking, verified(false), ViewRanking, false},
		{"verified cannot go back to verify", ViewHome, ViewVerifyEmail, verified(false), ViewHome, true},
		{"non admin cannot reach admin", ViewHome, ViewAdmin, verified(false), ViewHome, true},
		{"admin reaches admin", ViewHome, ViewAdmin, verified(true), ViewAdmin, false},
		{"unknown view", ViewHome, "settings", verified(true), ViewHome, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.to, tt.user)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				var te *TransitionError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, tt.to, te.To)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStore_Dispatch(t *testing.T) {
	t.Run("starts signed out", func(t *testing.T) {
		s := NewStore()
		assert.Equal(t, ViewSignedOut, s.State().View)
		assert.Nil(t, s.State().User)
	})

	t.Run("sign in lands on verify then home", func(t *testing.T) {
		s := NewStore()
		st, err := s.Dispatch(SignedIn{User: User{UID: uuid.New()}})
		require.NoError(t, err)
		assert.Equal(t, ViewVerifyEmail, st.View)

		st, err = s.Dispatch(EmailVerified{})
		require.NoError(t, err)
		assert.Equal(t, ViewHome, st.View)
		assert.True(t, st.User.EmailVerified)
		assert.Equal(t, uint64(2), st.Version)
	})

	t.Run("navigate keeps subject for idea views", func(t *testing.T) {
		s := NewStore()
		_, err := s.Dispatch(SignedIn{User: *verified(false)})
		require.NoError(t, err)

		idea := uuid.New()
		st, err := s.Dispatch(Navigate{To: ViewIdeaDetail, Subject: idea})
		require.NoError(t, err)
		assert.Equal(t, idea, st.Subject)

		st, err = s.Dispatch(Navigate{To: ViewRanking, Subject: idea})
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, st.Subject)
	})

	t.Run("rejected action leaves state and listeners untouched", func(t *testing.T) {
		s := NewStore()
		calls := 0
		s.Subscribe(func(State) { calls++ })

		st, err := s.Dispatch(Navigate{To: ViewHome})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, ViewSignedOut, st.View)
		assert.Equal(t, uint64(0), st.Version)
		assert.Equal(t, 0, calls)

		_, err = s.Dispatch(ProfileUpdated{DisplayName: "x"})
		assert.Error(t, err)
	})

	t.Run("profile update does not alias previous snapshot", func(t *testing.T) {
		s := NewStore()
		before, err := s.Dispatch(SignedIn{User: *verified(false)})
		require.NoError(t, err)

		after, err := s.Dispatch(ProfileUpdated{DisplayName: "Ada", PhotoURL: "p.png"})
		require.NoError(t, err)
		assert.Equal(t, "Ada", after.User.DisplayName)
		assert.Equal(t, "", before.User.DisplayName)
	})

	t.Run("sign out clears user", func(t *testing.T) {
		s := NewStore()
		_, _ = s.Dispatch(SignedIn{User: *verified(true)})
		st, err := s.Dispatch(SignedOut{})
		require.NoError(t, err)
		assert.Nil(t, st.User)
		assert.Equal(t, ViewSignedOut, st.View)
	})
}

func TestStore_Subscribe(t *testing.T) {
	s := NewStore()
	var got []View
	cancel := s.Subscribe(func(st State) { got = append(got, st.View) })

	_, _ = s.Dispatch(SignedIn{User: *verified(false)})
	cancel()
	cancel()
	_, _ = s.Dispatch(SignedOut{})

	assert.Equal(t, []View{ViewHome}, got)
}

func TestSessionRegistry(t *testing.T) {
	created := 0
	var mu sync.Mutex
	r := NewSessionRegistry(func(uuid.UUID, *Store) {
		mu.Lock()
		created++
		mu.Unlock()
	})
	id := uuid.New()

	var wg sync.WaitGroup
	stores := make([]*Store, 20)
	for i := range stores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i] = r.Get(id)
		}(i)
	}
	wg.Wait()

	for _, s := range stores {
		assert.Same(t, stores[0], s)
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, r.Len())

	_, ok := r.Lookup(uuid.New())
	assert.False(t, ok)

	r.Remove(id)
	assert.Equal(t, 0, r.Len())
}
