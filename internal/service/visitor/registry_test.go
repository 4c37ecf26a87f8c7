package visitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestIssueAndLookup(t *testing.T) {
	r := New[string](time.Minute, nil)
	token, err := r.Issue("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	v, err := r.Lookup(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", v)

	_, err = r.Lookup("bogus")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLookupSlidesExpiry(t *testing.T) {
	c := &clock{t: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
	var evicted []string
	r := New(time.Minute, func(v string) { evicted = append(evicted, v) })
	r.now = c.now

	token, err := r.Issue("bob")
	require.NoError(t, err)

	c.t = c.t.Add(50 * time.Second)
	_, err = r.Lookup(token)
	require.NoError(t, err)

	c.t = c.t.Add(50 * time.Second)
	_, err = r.Lookup(token)
	require.NoError(t, err)

	c.t = c.t.Add(61 * time.Second)
	_, err = r.Lookup(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, []string{"bob"}, evicted)
	assert.Zero(t, r.Len())
}

func TestSweepAndRevoke(t *testing.T) {
	c := &clock{t: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
	evicted := 0
	r := New(time.Minute, func(int) { evicted++ })
	r.now = c.now

	a, _ := r.Issue(1)
	_, _ = r.Issue(2)
	assert.True(t, r.Revoke(a))
	assert.False(t, r.Revoke(a))
	assert.Equal(t, 1, evicted)

	c.t = c.t.Add(2 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 2, evicted)

	_, _ = r.Issue(3)
	r.Close()
	assert.Equal(t, 3, evicted)
	assert.Zero(t, r.Len())
}
